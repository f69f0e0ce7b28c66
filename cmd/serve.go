package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dscatalog/dscat/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve [dir]",
	Short: "Serve an exported catalog over HTTP",
	Long: `Starts a local HTTP server for an exported catalog directory, with the
json=yes content negotiation the viewer page relies on. With --watch,
connected browsers are told to reload whenever the catalog changes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		dir := cfg.Destination
		if len(args) > 0 {
			dir = args[0]
		}
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("catalog directory not found at %s\nRun `dscat export` first to create it", dir)
		}

		port, _ := cmd.Flags().GetInt("port")
		if port == 0 {
			port = cfg.Serve.Port
		}
		watch, _ := cmd.Flags().GetBool("watch")
		allowAll, _ := cmd.Flags().GetBool("allow-all-origins")

		fmt.Printf("Serving catalog at http://localhost:%d — press Ctrl+C to stop\n", port)

		srv := server.New(server.Config{
			Port:     port,
			Dir:      dir,
			AllowAll: allowAll || cfg.Serve.AllowAll,
			Watch:    watch || cfg.Serve.Watch,
		})
		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "port for the local server (overrides config)")
	serveCmd.Flags().Bool("watch", false, "reload connected browsers when the catalog changes")
	serveCmd.Flags().Bool("allow-all-origins", false, "allow all CORS origins")
	rootCmd.AddCommand(serveCmd)
}
