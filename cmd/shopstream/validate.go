package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shopstream/shopstream/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("configuration invalid: %w", err)
		}

		fmt.Println("Configuration valid")
		fmt.Printf("  Catalog:   %s:%d (db: %s)\n", cfg.Catalog.Host, cfg.Catalog.Port, cfg.Catalog.Database.DSN)
		fmt.Printf("  Analytics: %s:%d (db: %s)\n", cfg.Analytics.Host, cfg.Analytics.Port, cfg.Analytics.Database.DSN)
		fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
