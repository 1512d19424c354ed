package cmd

import (
	"fmt"

	"github.com/brogergvhs/mangatrack/internal/config"

	"github.com/spf13/cobra"
)

var configAddCmd = &cobra.Command{
	Use:   "add <label>",
	Short: "Create a new config with default values",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		def := config.DefaultConfig()
		if flagDatabaseURL != "" {
			if err := config.ValidateDatabaseURL(flagDatabaseURL); err != nil {
				return err
			}
			def.DatabaseURL = flagDatabaseURL
		}

		path, err := config.CreateConfig(args[0], def)
		if err != nil {
			return err
		}

		fmt.Printf("Created new config: %s\n", path)
		fmt.Printf("Run `mangatrack config switch %s` to use it.\n", args[0])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configAddCmd)
}
