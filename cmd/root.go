package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dscatalog/dscat/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "dscat",
	Short: "Export, serve, and browse dataset metadata web catalogs",
	Long: `dscat turns an aggregated dataset metadata database into a static,
web-browsable catalog: one JSON object per dataset, path and id lookup
tables, a sitemap for crawlers, and a self-contained viewer page. It
can also serve the catalog locally and resolve records from a running
catalog.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `dscat init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
