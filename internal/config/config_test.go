package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("KPI_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dashboard", cfg.Pipeline.SheetName)
	assert.Equal(t, 2025, cfg.Pipeline.DefaultYear)
	assert.Empty(t, cfg.Pipeline.ExcludePeriods)
	assert.Equal(t, "A:Z", cfg.Sheets.Range)
	assert.Equal(t, 30*time.Second, cfg.Sheets.FetchTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "data/raw/kpi_data.csv", cfg.Paths.RawFile)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
pipeline:
  sheet_name: metrics
  default_year: 2024
  exclude_periods: ["Sep-25"]
sheets:
  spreadsheet_id: 1ABC123xyz
paths:
  processed_dir: out
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))
	t.Setenv("KPI_CONFIG_FILE", configFile)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "metrics", cfg.Pipeline.SheetName)
	assert.Equal(t, 2024, cfg.Pipeline.DefaultYear)
	assert.Equal(t, []string{"Sep-25"}, cfg.Pipeline.ExcludePeriods)
	assert.Equal(t, "1ABC123xyz", cfg.Sheets.SpreadsheetID)
	assert.Equal(t, "out", cfg.Paths.ProcessedDir)
	// Defaults still fill fields the file does not set.
	assert.Equal(t, "A:Z", cfg.Sheets.Range)
}

func TestLoad_FileBeatsDefaults(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	content := `
pipeline:
  sheet_name: metrics
  default_year: 2024
sheets:
  range: B:Q
logging:
  level: debug
paths:
  processed_dir: out
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))
	t.Setenv("KPI_CONFIG_FILE", configFile)

	// No field env vars set: every defaulted field the file names must take
	// the file's value, not the default.
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "metrics", cfg.Pipeline.SheetName)
	assert.Equal(t, 2024, cfg.Pipeline.DefaultYear)
	assert.Equal(t, "B:Q", cfg.Sheets.Range)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "out", cfg.Paths.ProcessedDir)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("pipeline:\n  sheet_name: metrics\n"), 0644))
	t.Setenv("KPI_CONFIG_FILE", configFile)
	t.Setenv("KPI_PIPELINE_SHEET_NAME", "overridden")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "overridden", cfg.Pipeline.SheetName)
}

func TestLoad_ValidationFailure(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("pipeline:\n  default_year: 1850\n"), 0644))
	t.Setenv("KPI_CONFIG_FILE", configFile)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}

func TestPathsConfig_ArtifactPaths(t *testing.T) {
	p := PathsConfig{ProcessedDir: "data/processed"}

	assert.Equal(t, filepath.Join("data/processed", "dashboard_data.json"), p.DashboardJSONPath())
	assert.Equal(t, filepath.Join("data/processed", "processed_data.csv"), p.ProcessedCSVPath())
	assert.Equal(t, filepath.Join("data/processed", "kpis_v2_pipeline.csv"), p.WideCSVPath())
}
