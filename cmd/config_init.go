package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/brogergvhs/mangatrack/internal/config"

	"github.com/spf13/cobra"
)

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the Default config",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaultPath := config.ConfigPathByLabel(config.DefaultLabel)

		if _, err := os.Stat(defaultPath); err == nil {
			fmt.Println("Configuration already exists at:")
			fmt.Println("  ", defaultPath)
			fmt.Println("Use `mangatrack config reset` to recreate it.")
			return nil
		}

		def := config.DefaultConfig()
		if flagDatabaseURL != "" {
			if err := config.ValidateDatabaseURL(flagDatabaseURL); err != nil {
				return err
			}
			def.DatabaseURL = flagDatabaseURL
		}

		fmt.Println("Configuration file will be saved at:")
		fmt.Println("  ", defaultPath)
		fmt.Println()

		fmt.Println("Default configuration:")
		def.Print()
		fmt.Println()

		if !confirm("Create Default config") {
			fmt.Println("Aborted.")
			return nil
		}

		path, err := config.InitDefaultConfig(def)
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("config appeared at %s while prompting", path)
		}
		if err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}

		fmt.Println("Config created at:", path)
		fmt.Println("This config is now active (label: Default).")

		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
}
