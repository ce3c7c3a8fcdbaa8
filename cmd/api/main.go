package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"admin-panel-api/cmd/api/app"
	"admin-panel-api/cmd/api/server"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "admin-panel-api",
	Short: "Admin panel backend for products and users",
	Long: `admin-panel-api serves the admin panel REST API.

The default profile runs entirely from a seeded in-memory store with
simulated latency, so the panel works without any backing services.
Set STORAGE_DRIVER to sqlite or postgres for a persistent setup.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

// serveCmd starts the HTTP API server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

// seedCmd loads the canned dataset into a persistent store
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the canned dataset into the configured database",
	Long: `Inserts the canned product catalog and user directory into the
configured sqlite or postgres database. Rows that already exist are
left untouched, so the command can be re-run safely.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Seed(cmd.Context())
	},
}

// versionCmd prints the build version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("admin-panel-api %s\n", version)
	},
}

func runServe(cmd *cobra.Command) error {
	ctx, stop := server.WithSignal(cmd.Context())
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
