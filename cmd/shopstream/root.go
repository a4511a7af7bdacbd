package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "shopstream",
	Short: "Catalog and analytics HTTP services with live push notifications",
	Long: `Shopstream runs two small HTTP services backed by a document store.

The catalog service serves products and categories and broadcasts
newProduct/newCategory events to websocket subscribers on creation.
The analytics service ingests view, action, and goal records.

Quick start:
  shopstream serve     # Start both services
  shopstream validate  # Validate configuration`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "shopstream.yaml", "config file path")
}
