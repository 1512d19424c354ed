package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/brogergvhs/mangatrack/internal/providers"
	"github.com/brogergvhs/mangatrack/internal/store"

	"github.com/spf13/cobra"
)

var urlCmd = &cobra.Command{
	Use:   "url",
	Short: "Manage the source URLs of a tracked manga",
}

var urlAddCmd = &cobra.Command{
	Use:   "add <id> <url>",
	Short: "Add a source URL (e.g. a mirror) to a tracked manga",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if _, err := providers.SiteFor(args[1]); err != nil {
			return fmt.Errorf("%s: %w", args[1], err)
		}

		return withStore(cmd, func(ctx context.Context, s store.Store) error {
			if err := s.AddURL(ctx, id, args[1]); err != nil {
				return describeStoreErr(id, err)
			}
			fmt.Printf("Added %s to #%d\n", args[1], id)
			return nil
		})
	},
}

var urlRemoveCmd = &cobra.Command{
	Use:   "remove <id> <url>",
	Short: "Remove a source URL from a tracked manga",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		return withStore(cmd, func(ctx context.Context, s store.Store) error {
			if err := s.RemoveURL(ctx, id, args[1]); err != nil {
				return describeStoreErr(id, err)
			}
			fmt.Printf("Removed %s from #%d\n", args[1], id)
			return nil
		})
	},
}

func init() {
	urlCmd.AddCommand(urlAddCmd, urlRemoveCmd)
	rootCmd.AddCommand(urlCmd)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}

	return id, nil
}

func withStore(cmd *cobra.Command, fn func(ctx context.Context, s store.Store) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()

	return fn(ctx, a.store)
}

func describeStoreErr(id int64, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("no manga with id %d", id)
	case errors.Is(err, store.ErrLastURL):
		return fmt.Errorf("#%d: %w (use `mangatrack remove %d` instead)", id, err, id)
	default:
		return err
	}
}
