// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Library  LibraryConfig  `toml:"library"`
	Import   ImportConfig   `toml:"import"`
	Art      ArtConfig      `toml:"art"`
	Events   EventsConfig   `toml:"events"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
	// RateLimit is requests per second; 0 disables limiting.
	RateLimit float64 `toml:"rate_limit"`
	RateBurst int     `toml:"rate_burst"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type LibraryConfig struct {
	Directory         string `toml:"directory"`
	PathTemplate      string `toml:"path_template"`
	SingletonTemplate string `toml:"singleton_template"`
}

type ImportConfig struct {
	Copy            bool   `toml:"copy"`
	Move            bool   `toml:"move"`
	Incremental     bool   `toml:"incremental"`
	WriteHistory    bool   `toml:"write_history"`
	Workers         int    `toml:"workers"`
	DuplicateAction string `toml:"duplicate_action"`
}

type ArtConfig struct {
	MaxThumbnail int `toml:"max_thumbnail"`
}

type EventsConfig struct {
	Retention     time.Duration `toml:"retention"`
	PruneInterval time.Duration `toml:"prune_interval"`
}

// Defaults
const (
	DefaultHost            = "127.0.0.1"
	DefaultPort            = 8338
	DefaultDatabasePath    = "./data/musicd.db"
	DefaultMaxThumbnail    = 1600
	DefaultDuplicateAction = "skip"
	DefaultRetention       = 30 * 24 * time.Hour
	DefaultPruneInterval   = time.Hour
)

// Load reads, parses and validates the configuration file. Unresolved
// environment variables and validation failures are reported together as a
// *ConfigError.
func Load(path string) (*Config, error) {
	cfg, missing, err := load(path)
	if err != nil {
		return nil, err
	}

	cfgErr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cfgErr.HasErrors() {
		return nil, cfgErr
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration file, applying
// defaults but skipping validation and missing variable checks.
func LoadWithoutValidation(path string) (*Config, error) {
	cfg, _, err := load(path)
	return cfg, err
}

func load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	// Substitute environment variables
	content, missing := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, missing, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Database.Path == "" {
		c.Database.Path = DefaultDatabasePath
	}
	if c.Import.DuplicateAction == "" {
		c.Import.DuplicateAction = DefaultDuplicateAction
	}
	if c.Art.MaxThumbnail == 0 {
		c.Art.MaxThumbnail = DefaultMaxThumbnail
	}
	if c.Events.Retention == 0 {
		c.Events.Retention = DefaultRetention
	}
	if c.Events.PruneInterval == 0 {
		c.Events.PruneInterval = DefaultPruneInterval
	}
}

// Addr returns the host:port the server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
