package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/brogergvhs/mangatrack/internal/downloader"
	"github.com/brogergvhs/mangatrack/internal/ui"
	"github.com/brogergvhs/mangatrack/internal/util"

	"github.com/spf13/cobra"
)

var (
	flagCoversOutput  string
	flagCoversWorkers int
)

func init() {
	coversCmd := &cobra.Command{
		Use:   "covers",
		Short: "Download the cover image of every tracked manga",
		RunE:  runCovers,
	}

	coversCmd.Flags().StringVar(&flagCoversOutput, "output", "covers", "output folder for cover images")
	coversCmd.Flags().IntVar(&flagCoversWorkers, "workers", 0, "parallel downloads")

	rootCmd.AddCommand(coversCmd)
}

func runCovers(cmd *cobra.Command, _ []string) error {
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

	workers := a.cfg.Workers
	if cmd.Flags().Changed("workers") {
		workers = max(1, flagCoversWorkers)
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
	handle := pm.Register("covers", len(all), "saved")
	start := time.Now()

	dl := downloader.New(a.fetcher.Client(), flagCoversOutput)
	saved, err := dl.SaveCovers(ctx, all, workers, handle.Step)
	handle.MarkDone()
	pm.Close()

	var total int64
	for _, s := range saved {
		total += s.Bytes
		a.log.Debugf("saved %s", s.Path)
	}

	fmt.Println()
	fmt.Println("Covers Summary:")
	fmt.Printf("Saved: %d/%d\n", len(saved), len(all))
	fmt.Printf("Data:  %s\n", util.Human(total))
	fmt.Printf("Time:  %s\n", time.Since(start).Round(time.Second))
	fmt.Printf("Into:  %s\n", flagCoversOutput)

	return err
}
