package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/musicd/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the server configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default config file",
	Long: `Write the default configuration.

Without a path the file goes to $XDG_CONFIG_HOME/musicd/config.toml.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInitCmd,
}

var configCheckCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Validate a config file",
	Long: `Load and validate a config file.

Without a path the file is discovered the way musicd finds it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigCheckCmd,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configCheckCmd)
	configInitCmd.Flags().BoolP("force", "f", false, "Overwrite an existing file")
}

func runConfigInitCmd(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	path := config.DefaultPath()
	if len(args) > 0 {
		path = args[0]
	}
	if err := config.WriteDefault(path, force); err != nil {
		if errors.Is(err, config.ErrExists) {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		return fmt.Errorf("write config: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func runConfigCheckCmd(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) > 0 {
		path = args[0]
	} else {
		p, err := config.Discover()
		if err != nil {
			return err
		}
		path = p
	}

	out := cmd.OutOrStdout()
	cfg, err := config.Load(path)
	if err != nil {
		var cfgErr *config.ConfigError
		if errors.As(err, &cfgErr) {
			_, _ = fmt.Fprintf(out, "%s: invalid\n%s\n", path, cfgErr.Error())
			return errors.New("config check failed")
		}
		return err
	}

	_, _ = fmt.Fprintf(out, "%s: ok\n", path)
	_, _ = fmt.Fprintf(out, "  listen:   %s\n", cfg.Addr())
	_, _ = fmt.Fprintf(out, "  database: %s\n", cfg.Database.Path)
	if cfg.Library.Directory != "" {
		_, _ = fmt.Fprintf(out, "  library:  %s\n", cfg.Library.Directory)
	}
	for _, w := range cfg.Warnings() {
		_, _ = fmt.Fprintf(out, "  warning: %s\n", w)
	}
	return nil
}
