// internal/config/validate.go
package config

import (
	"fmt"
	"os"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validDuplicateActions = map[string]bool{
	"skip": true, "keep": true, "remove": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	// Server validation
	if c.Server.Port != 0 && (c.Server.Port < 1 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, "server.rate_limit: must not be negative")
	}
	if c.Server.RateBurst < 0 {
		errs = append(errs, "server.rate_burst: must not be negative")
	}

	// Import validation
	if c.Import.Copy && c.Import.Move {
		errs = append(errs, "import: copy and move are mutually exclusive")
	}
	if (c.Import.Copy || c.Import.Move) && c.Library.Directory == "" {
		errs = append(errs, "library.directory: required when import.copy or import.move is set")
	}
	if c.Import.Workers < 0 {
		errs = append(errs, fmt.Sprintf("import.workers: must not be negative, got %d", c.Import.Workers))
	}
	if !validDuplicateActions[c.Import.DuplicateAction] {
		errs = append(errs, fmt.Sprintf("import.duplicate_action: must be one of skip, keep, remove; got %q", c.Import.DuplicateAction))
	}

	if c.Art.MaxThumbnail < 0 {
		errs = append(errs, "art.max_thumbnail: must not be negative")
	}

	if c.Events.Retention < 0 || c.Events.PruneInterval < 0 {
		errs = append(errs, "events: retention and prune_interval must not be negative")
	}

	return errs
}

// Warnings reports non-fatal problems worth logging at startup.
func (c *Config) Warnings() []string {
	var warns []string
	if c.Library.Directory != "" {
		if _, err := os.Stat(c.Library.Directory); os.IsNotExist(err) {
			warns = append(warns, fmt.Sprintf("library.directory: directory %q does not exist", c.Library.Directory))
		}
	}
	return warns
}
