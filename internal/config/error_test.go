// internal/config/error_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigError_Empty(t *testing.T) {
	e := &ConfigError{Path: "/etc/musicd/config.toml"}
	assert.False(t, e.HasErrors())
	assert.Empty(t, e.Error())
}

func TestConfigError_ListsEverything(t *testing.T) {
	e := &ConfigError{
		Path:    "/etc/musicd/config.toml",
		Missing: []string{"MUSIC_DIR", "MUSICD_DATA: set the data directory"},
		Errors:  []string{"server.port: must be between 1 and 65535, got 0"},
	}

	assert.True(t, e.HasErrors())
	assert.Equal(t, "/etc/musicd/config.toml:\n"+
		"  unset environment variable MUSIC_DIR\n"+
		"  unset environment variable MUSICD_DATA: set the data directory\n"+
		"  server.port: must be between 1 and 65535, got 0", e.Error())
}

func TestConfigError_NoPath(t *testing.T) {
	e := &ConfigError{Errors: []string{"import: copy and move are mutually exclusive"}}
	assert.Equal(t, "config:\n  import: copy and move are mutually exclusive", e.Error())
}
