package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked manga",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		a, err := newApp(ctx, true)
		if err != nil {
			return err
		}
		defer a.close()

		all, err := a.store.List(ctx)
		if err != nil {
			return err
		}
		if len(all) == 0 {
			fmt.Println("Nothing tracked yet. Use `mangatrack add --url <url>`.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 4, ' ', 0)
		_, _ = fmt.Fprintln(w, "ID\tTITLE\tCHAPTER\tURLS")

		for _, m := range all {
			chapter := fmt.Sprintf("%d", m.Chapter)
			if m.ChapterTitle != nil {
				chapter += ": " + *m.ChapterTitle
			}
			_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", m.ID, m.Title, chapter, strings.Join(m.SourceURLs, ", "))
		}

		if err := w.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to flush table output: %v\n", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
