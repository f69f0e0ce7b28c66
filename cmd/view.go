package cmd

import (
	"fmt"
	"log"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/dscatalog/dscat/internal/catalog"
)

var viewCmd = &cobra.Command{
	Use:   "view <catalog-url>",
	Short: "Resolve and print a dataset record from a running catalog",
	Long: `Runs the viewer bootstrap against a live catalog: loads the path
inventory, resolves the requested path, and prints the dataset's
metadata record to stdout. Alerts the viewer page would show go to
stderr instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

func init() {
	viewCmd.Flags().StringP("path", "p", ".", "dataset path to resolve")
	viewCmd.Flags().String("query", "", "raw page query string (overrides --path)")
	rootCmd.AddCommand(viewCmd)
}

// stdoutSink prints the serialized record, like the page_metadata
// element on the catalog page.
type stdoutSink struct{}

func (stdoutSink) SetPageMetadata(serialized string) {
	fmt.Println(serialized)
}

func runView(cmd *cobra.Command, args []string) error {
	rawQuery, _ := cmd.Flags().GetString("query")
	if rawQuery == "" {
		path, _ := cmd.Flags().GetString("path")
		rawQuery = "p=" + url.PathEscape(path)
	}

	client, err := catalog.NewClient(args[0], nil)
	if err != nil {
		return err
	}

	state := catalog.NewState()
	printed := 0
	state.Subscribe(func(s *catalog.State) {
		for _, alert := range s.Alerts[printed:] {
			fmt.Fprintf(os.Stderr, "[%s] %s\n", alert.Type, alert.Text)
		}
		printed = len(s.Alerts)
	})

	ctrl := catalog.NewController(state, client, stdoutSink{}, log.New(os.Stderr, "", 0))
	return ctrl.Bootstrap(cmd.Context(), rawQuery)
}
