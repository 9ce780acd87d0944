// Package cmd implements the CLI commands for airbuds-price-predictor.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/airbuds-price-predictor/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "airbuds-price-predictor",
	Short: "Predict wireless earbud prices from their specifications",
	Long: "Normalizes free-form earbud specifications into the encoding the trained\n" +
		"price model expects and serves predictions over HTTP or from the command line.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.AddCommand(versionCommand())
}

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the config file. When --config was left at its default
// and no such file exists, the built-in defaults are used.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		return config.Default(), nil
	}
	return nil, fmt.Errorf("loading config: %w", err)
}
