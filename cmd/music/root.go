package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	serverURL  string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "music",
	Short: "CLI client for the musicd library server",
	Long: `music - CLI client for the musicd library server

Browse the library, import directories and fetch files and cover art.

Run 'musicd' to start the server daemon.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	defaultServer := os.Getenv("MUSICD_URL")
	if defaultServer == "" {
		defaultServer = "http://127.0.0.1:8338"
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer, "Server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("music {{.Version}}\n")
}
