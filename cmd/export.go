package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dscatalog/dscat/internal/export"
	"github.com/dscatalog/dscat/internal/progress"
	"github.com/dscatalog/dscat/internal/site"
)

var exportCmd = &cobra.Command{
	Use:   "export [db-dir] [destination]",
	Short: "Export a web catalog from an aggregated metadata database",
	Long: `Reads the aggregated metadata database and writes a static catalog:
one JSON object per dataset under objs/, by_path.json and by_id.json
lookup tables, a catalog.xml sitemap, and the viewer page. Positional
arguments override the configured db_dir and destination.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("base-url", "", "public catalog URL for the sitemap (overrides config)")
	exportCmd.Flags().Bool("pages", false, "also render static per-dataset HTML pages")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dbDir := cfg.DBDir
	destination := cfg.Destination
	if len(args) > 0 {
		dbDir = args[0]
	}
	if len(args) > 1 {
		destination = args[1]
	}
	baseURL, _ := cmd.Flags().GetString("base-url")
	if baseURL == "" {
		baseURL = cfg.BaseURL
	}

	exporter := &export.Exporter{
		DBDir:          dbDir,
		Destination:    destination,
		BaseURL:        baseURL,
		Homogenization: string(cfg.Homogenization),
		Exclude:        cfg.Exclude,
		Reporter:       progress.NewReporter(),
		Logger:         log.New(os.Stderr, "", log.LstdFlags),
	}
	res, err := exporter.Run()
	if err != nil {
		return fmt.Errorf("exporting catalog: %w", err)
	}
	fmt.Printf("Catalog exported: %s (%d datasets, %d skipped)\n", destination, res.Exported, res.Skipped)

	pages, _ := cmd.Flags().GetBool("pages")
	if pages || cfg.Pages {
		pagesDir := filepath.Join(destination, "pages")
		generator := site.NewPageGenerator(destination, pagesDir, cfg.CatalogTitle)
		count, err := generator.Generate()
		if err != nil {
			return fmt.Errorf("rendering pages: %w", err)
		}
		fmt.Printf("Static pages rendered: %s (%d pages)\n", pagesDir, count)
	}

	return nil
}
