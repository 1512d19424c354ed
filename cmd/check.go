package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/brogergvhs/mangatrack/internal/ui"
	"github.com/brogergvhs/mangatrack/internal/util"

	"github.com/spf13/cobra"
)

var flagWorkers int

func init() {
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Re-fetch every tracked manga once and record newer chapters",
		RunE:  runCheck,
	}

	checkCmd.Flags().IntVar(&flagWorkers, "workers", 0, "parallel page fetches")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()

	if cmd.Flags().Changed("workers") {
		a.cfg.Workers = max(1, flagWorkers)
	}

	all, err := a.store.List(ctx)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("Nothing tracked yet. Use `mangatrack add --url <url>`.")
		return nil
	}

	util.SetupInterruptHandler(cancel)

	pm := ui.NewProgressManager(os.Stderr)
	handle := pm.Register("check", len(all), "new")
	stats := &ui.Stats{}
	start := time.Now()

	report, err := a.tracker().Check(ctx, func(found bool) {
		stats.Checked.Add(1)
		if found {
			stats.Updated.Add(1)
		}
		handle.Step(found)
	})
	handle.MarkDone()
	pm.Close()

	if report != nil {
		stats.Failed.Store(int64(len(report.Failures)))

		for _, u := range report.Updates {
			fmt.Printf("#%d %s -> %s\n", u.Previous.ID, u.Previous.Headline(), chapterLabel(u.Latest.Chapter, u.Latest.ChapterTitle))
			fmt.Printf("    %s\n", u.SourceURL)
		}
	}

	fmt.Println()
	fmt.Println("Check Summary:")
	fmt.Printf("Checked: %d/%d\n", stats.Checked.Load(), len(all))
	fmt.Printf("Updated: %d\n", stats.Updated.Load())
	fmt.Printf("Failed:  %d\n", stats.Failed.Load())
	fmt.Printf("Time:    %s\n", time.Since(start).Round(time.Second))

	return err
}

func chapterLabel(chapter int, title *string) string {
	if title == nil {
		return fmt.Sprintf("Chapter %d", chapter)
	}

	return fmt.Sprintf("Chapter %d: %s", chapter, *title)
}
