package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shopstream/shopstream/bootstrap"
	"github.com/shopstream/shopstream/config"
)

var (
	hotReload bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the catalog and analytics services",
	Long: `Start both shopstream services.

The process will:
  - Load configuration from shopstream.yaml (or --config)
  - Or load configuration from SHOPSTREAM_* environment variables
  - Open the catalog and analytics databases
  - Serve the catalog API (with websocket push) and the analytics API

Environment variables (for container deployments):
  SHOPSTREAM_CATALOG_PORT    - Catalog service port (default: 8000)
  SHOPSTREAM_CATALOG_DSN     - Catalog database path (default: catalog.db)
  SHOPSTREAM_ANALYTICS_PORT  - Analytics service port (default: 8001)
  SHOPSTREAM_ANALYTICS_DSN   - Analytics database path (default: analytics.db)
  SHOPSTREAM_LOG_LEVEL       - Log level: debug, info, warn, error

Examples:
  shopstream serve
  shopstream serve --config /etc/shopstream/config.yaml
  shopstream serve --hot-reload=false`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&hotReload, "hot-reload", true, "enable hot reload of configuration")
}

func runServe(cmd *cobra.Command, args []string) error {
	hasConfigFile := false
	if _, err := os.Stat(cfgFile); err == nil {
		hasConfigFile = true
	}

	var app *bootstrap.App
	var err error

	if hasConfigFile && hotReload {
		// Hot reload only works with a config file
		app, err = bootstrap.NewWithHotReload(cfgFile)
	} else {
		// Load config (file with env overrides, or env-only with defaults)
		cfg, loadErr := config.LoadWithFallback(cfgFile)
		if loadErr != nil {
			return fmt.Errorf("error loading config: %w", loadErr)
		}

		if !hasConfigFile {
			fmt.Println("Running with environment variables (no config file)")
		}

		app, err = bootstrap.New(cfg)
	}

	if err != nil {
		return fmt.Errorf("error initializing: %w", err)
	}

	// Run (blocks until shutdown)
	return app.Run()
}
