package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var flagAddURL string

func init() {
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Start tracking the manga at --url",
		RunE:  runAdd,
	}

	addCmd.Flags().StringVar(&flagAddURL, "url", "", "manga page URL")
	_ = addCmd.MarkFlagRequired("url")

	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()

	res, err := a.tracker().Add(ctx, flagAddURL)
	if err != nil {
		return err
	}

	printResult(a, res)
	fmt.Printf("Tracking as #%d\n", res.Record.ID)
	return nil
}
