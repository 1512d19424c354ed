package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/brogergvhs/mangatrack/internal/manga"
	"github.com/brogergvhs/mangatrack/internal/providers"

	"github.com/spf13/cobra"
)

var (
	flagParseURL string
	flagHTMLFile string
)

func init() {
	parseCmd := &cobra.Command{
		Use:   "parse",
		Short: "Extract the latest chapter from a manga page without saving it",
		RunE:  runParse,
	}

	parseCmd.Flags().StringVar(&flagParseURL, "url", "", "manga page URL")
	parseCmd.Flags().StringVar(&flagHTMLFile, "html-file", "", "read the page from a local file instead of fetching --url")
	_ = parseCmd.MarkFlagRequired("url")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}

	var res *manga.Result
	if flagHTMLFile != "" {
		b, err := os.ReadFile(flagHTMLFile)
		if err != nil {
			return fmt.Errorf("read %s: %w", flagHTMLFile, err)
		}
		res, err = providers.Parse(flagParseURL, string(b))
		if err != nil {
			return err
		}
	} else {
		res, err = a.tracker().Preview(ctx, flagParseURL)
		if err != nil {
			return err
		}
	}

	printResult(a, res)
	return nil
}

func printResult(a *app, res *manga.Result) {
	for _, n := range res.Notes {
		a.log.Infof("%s", n)
	}

	fmt.Println(res.Record.Headline())
	if res.Record.ImageURL != nil {
		fmt.Printf("Cover:  %s\n", *res.Record.ImageURL)
	}
	for _, u := range res.Record.SourceURLs {
		fmt.Printf("Source: %s\n", u)
	}
}
