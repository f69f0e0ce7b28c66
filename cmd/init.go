package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dscatalog/dscat/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize dscat configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the catalog for your dataset and generates a .dscat.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
