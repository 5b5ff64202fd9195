// internal/config/load_test.go
package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Valid(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
[server]
port = 9000
log_level = "debug"
rate_limit = 5.5
rate_burst = 10

[database]
path = "/var/lib/musicd/musicd.db"

[library]
directory = "`+dir+`"
path_template = "{artist}/{title}"

[import]
copy = true
write_history = true
workers = 4
duplicate_action = "remove"

[art]
max_thumbnail = 800

[events]
retention = "48h"
prune_interval = "10m"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.InDelta(t, 5.5, cfg.Server.RateLimit, 0.001)
	assert.Equal(t, 10, cfg.Server.RateBurst)
	assert.Equal(t, "/var/lib/musicd/musicd.db", cfg.Database.Path)
	assert.Equal(t, dir, cfg.Library.Directory)
	assert.Equal(t, "{artist}/{title}", cfg.Library.PathTemplate)
	assert.True(t, cfg.Import.Copy)
	assert.True(t, cfg.Import.WriteHistory)
	assert.Equal(t, 4, cfg.Import.Workers)
	assert.Equal(t, "remove", cfg.Import.DuplicateAction)
	assert.Equal(t, 800, cfg.Art.MaxThumbnail)
	assert.Equal(t, 48*time.Hour, cfg.Events.Retention)
	assert.Equal(t, 10*time.Minute, cfg.Events.PruneInterval)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `[server]`))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8338, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "./data/musicd.db", cfg.Database.Path)
	assert.Equal(t, "skip", cfg.Import.DuplicateAction)
	assert.Equal(t, 1600, cfg.Art.MaxThumbnail)
	assert.Equal(t, DefaultRetention, cfg.Events.Retention)
	assert.Equal(t, "127.0.0.1:8338", cfg.Addr())
}

func TestLoad_MissingEnvVar(t *testing.T) {
	path := writeConfig(t, `
[library]
directory = "${MUSICD_MISSING_LIBRARY_DIR}"
`)

	_, err := Load(path)
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{"MUSICD_MISSING_LIBRARY_DIR"}, cfgErr.Missing)
}

func TestLoad_ValidationError(t *testing.T) {
	_, err := Load(writeConfig(t, `
[server]
port = 99999
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestLoad_ParseError(t *testing.T) {
	_, err := Load(writeConfig(t, `[server`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestLoad_FileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadWithoutValidation(t *testing.T) {
	cfg, err := LoadWithoutValidation(writeConfig(t, `
[server]
port = 99999
`))
	require.NoError(t, err)
	assert.Equal(t, 99999, cfg.Server.Port)
}

func TestLoad_EnvVarDefault(t *testing.T) {
	t.Setenv("MUSICD_OPTIONAL_HOST", "")

	cfg, err := Load(writeConfig(t, `
[server]
host = "${MUSICD_OPTIONAL_HOST:-0.0.0.0}"
`))
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestFullWorkflow(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "musicd", "config.toml")
	require.NoError(t, WriteDefault(cfgPath, false))

	t.Setenv("MUSICD_DATA", filepath.Join(tmp, "data"))
	t.Setenv("MUSIC_DIR", tmp)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(tmp, "data", "musicd.db"), cfg.Database.Path)
	assert.Equal(t, tmp, cfg.Library.Directory)
	assert.Equal(t, 8338, cfg.Server.Port)
	assert.True(t, cfg.Import.WriteHistory)
	assert.Equal(t, 720*time.Hour, cfg.Events.Retention)
	assert.Empty(t, cfg.Warnings())
}
