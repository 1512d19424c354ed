package cmd

import (
	"fmt"

	"github.com/brogergvhs/mangatrack/internal/config"

	"github.com/spf13/cobra"
)

var flagResetAll bool

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the current config to default values, keeping database_url",
	RunE: func(cmd *cobra.Command, args []string) error {
		activePath, err := config.ActiveConfigPath()
		if err != nil {
			return err
		}

		def := config.DefaultConfig()
		if !flagResetAll {
			if current, err := config.LoadYAML(activePath); err == nil {
				def.DatabaseURL = current.DatabaseURL
			}
		}

		if err := config.SaveYAML(def, activePath); err != nil {
			return err
		}

		fmt.Printf("Reset active config: %s\n", activePath)
		return nil
	},
}

func init() {
	configResetCmd.Flags().BoolVar(&flagResetAll, "all", false, "also clear database_url")
	configCmd.AddCommand(configResetCmd)
}
