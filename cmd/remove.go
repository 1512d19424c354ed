package cmd

import (
	"context"
	"fmt"

	"github.com/brogergvhs/mangatrack/internal/store"

	"github.com/spf13/cobra"
)

var flagYes bool

var removeCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Stop tracking a manga",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		return withStore(cmd, func(ctx context.Context, s store.Store) error {
			m, err := s.Get(ctx, id)
			if err != nil {
				return describeStoreErr(id, err)
			}

			if !flagYes {
				if !confirm(fmt.Sprintf("Remove #%d %s", m.ID, m.Title)) {
					fmt.Println("Aborted.")
					return nil
				}
			}

			if err := s.Delete(ctx, id); err != nil {
				return describeStoreErr(id, err)
			}

			fmt.Printf("Removed #%d %s\n", m.ID, m.Title)
			return nil
		})
	},
}

func init() {
	removeCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "do not ask for confirmation")
	rootCmd.AddCommand(removeCmd)
}
