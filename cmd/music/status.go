package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server status and library size",
	Args:  cobra.NoArgs,
	RunE:  runStatusCmd,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatusCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)
	status, err := client.Status()
	if err != nil {
		return fmt.Errorf("status check failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, status)
	}

	importer := "available"
	if !status.Importer {
		importer = "not configured"
	}
	_, _ = fmt.Fprintf(out, "Server:   %s (%s)\n", serverURL, status.Status)
	_, _ = fmt.Fprintf(out, "Version:  %s\n", status.Version)
	_, _ = fmt.Fprintf(out, "Library:  %d items, %d albums\n", status.Items, status.Albums)
	_, _ = fmt.Fprintf(out, "Importer: %s\n", importer)
	if li := status.LastImport; li != nil {
		at, _ := time.Parse(time.RFC3339, li.At)
		_, _ = fmt.Fprintf(out, "Last import: %s, %d added", formatTimeAgo(at), li.Added)
		for _, k := range sortedKeys(li.Choices) {
			_, _ = fmt.Fprintf(out, ", %d %s", li.Choices[k], k)
		}
		_, _ = fmt.Fprintln(out)
	}
	return nil
}
