package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Data", cfg.Build.DataDir)
	assert.Equal(t, []string{".csv", ".xlsx"}, cfg.Build.Extensions)
	assert.Equal(t, []string{"2018", "2020"}, cfg.Build.YearTokens)
	assert.Empty(t, cfg.Build.ExcludeYearTokens)
	assert.Equal(t, "utf-8", cfg.Build.InputEncoding)
	assert.Empty(t, cfg.Build.HeuristicsPath)
	assert.Equal(t, "Data/county_lookup.csv", cfg.Lookup.Path)
	assert.Equal(t, "05", cfg.Lookup.StateFIPS)
	assert.Equal(t, "U.S. Senate", cfg.Lookup.Rebuild.Contest)
	assert.Equal(t, "President", cfg.Lookup.Rebuild.OfficeKeyword)
	assert.True(t, cfg.Output.IncludeMetadata)
	assert.Equal(t, "AR", cfg.Output.StateAbbreviation)
	assert.Equal(t, 1, cfg.Fetch.Concurrency)
	assert.Equal(t, 3, cfg.Fetch.MaxRetries)
	assert.Equal(t, 60, cfg.Fetch.TimeoutSecs)
	assert.Contains(t, cfg.Fetch.ListingURL, "openelections-data-ar")
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
build:
  data_dir: elections
  exclude_year_tokens: ["2022", "2024"]
output:
  include_metadata: false
  path: out/results.json
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "elections", cfg.Build.DataDir)
	assert.Equal(t, []string{"2022", "2024"}, cfg.Build.ExcludeYearTokens)
	assert.False(t, cfg.Output.IncludeMetadata)
	assert.Equal(t, "out/results.json", cfg.Output.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	// Defaults still apply for unset values
	assert.Equal(t, "Data/county_lookup.csv", cfg.Lookup.Path)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
lookup:
  path: lookup.csv
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	t.Setenv("REALIGN_LOOKUP_PATH", "other.csv")
	t.Setenv("REALIGN_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "other.csv", cfg.Lookup.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("REALIGN_FETCH_CONCURRENCY", "4")
	t.Setenv("REALIGN_OUTPUT_INCLUDE_METADATA", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Fetch.Concurrency)
	assert.False(t, cfg.Output.IncludeMetadata)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("REALIGN_FETCH_GITHUB_TOKEN=ghp_test\nREALIGN_LOG_LEVEL=error\n"), 0o644))
	t.Setenv("REALIGN_LOG_LEVEL", "warn")
	t.Cleanup(func() { _ = os.Unsetenv("REALIGN_FETCH_GITHUB_TOKEN") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "ghp_test", cfg.Fetch.GitHubToken)
	assert.Equal(t, "warn", cfg.Log.Level, "process environment wins over .env")
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("build: [unclosed"), 0o644))

	_, err := Load()
	assert.Error(t, err)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
}

func TestInitLoggerBadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)
}
