package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Catalog service - products, categories, users and orders over HTTP",
	Long: `catalog serves the e-commerce catalog API backed by MongoDB.

Configuration is read from the environment (and a .env file when present).
JWT_SECRET is always required.

Commands:
  serve         run the HTTP API
  create-admin  create an administrator account`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
