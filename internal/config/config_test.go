package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))
	return dir
}

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	viper.Reset()
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "mongo", cfg.Database.Driver)
	assert.Equal(t, time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, "0 6 * * 1", cfg.Digest.Schedule)
	assert.Equal(t, 15*time.Minute, cfg.S3.URLExpiry)
	day, err := cfg.Generation.RestDay()
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, day)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	viper.Reset()
	dir := writeConfig(t, `
database:
  driver: sqlite
  path: /tmp/plans.db
generation:
  seed: 7
  rest_weekday: Wednesday
log:
  level: debug
`)
	t.Setenv("DATABASE_PATH", "/var/lib/plans.db")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/var/lib/plans.db", cfg.Database.Path)
	assert.Equal(t, uint64(7), cfg.Generation.Seed)
	assert.Equal(t, "debug", cfg.Log.Level)
	day, err := cfg.Generation.RestDay()
	require.NoError(t, err)
	assert.Equal(t, time.Wednesday, day)
}

func TestLoadConfig_RejectsUnknownRestDay(t *testing.T) {
	viper.Reset()
	dir := writeConfig(t, "generation:\n  rest_weekday: someday\n")

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("loud"))
}
