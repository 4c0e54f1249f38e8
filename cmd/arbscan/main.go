package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"arbscan/internal/config"
	"arbscan/internal/infra/version"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "arbscan",
	Short: "Cross-exchange and triangular arbitrage scanner",
	Long: `arbscan polls public ticker endpoints of several exchanges, normalizes
the quotes into one snapshot and reports direct (cross-exchange) and
triangular (single-exchange) arbitrage opportunities net of fees.

Configuration comes from the YAML file given by --config or ARBSCAN_CONFIG,
overridden by ARBSCAN_* environment variables.`,
	Version:       version.Get().String(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config (default: $ARBSCAN_CONFIG)")
}

func loadConfig() (config.Config, error) {
	if configPath != "" {
		if err := os.Setenv("ARBSCAN_CONFIG", configPath); err != nil {
			return config.Config{}, err
		}
	}
	return config.Load()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
