package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration. It is built once
// at startup and passed into constructors; nothing reads it from package
// state.
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
	Sheets   SheetsConfig   `yaml:"sheets" envconfig:"SHEETS"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
}

// PipelineConfig contains the transformation options.
type PipelineConfig struct {
	// ExcludePeriods lists period labels (display label or raw header)
	// dropped from the output dataset after parsing.
	ExcludePeriods []string `yaml:"exclude_periods" envconfig:"EXCLUDE_PERIODS"`
	// SheetName is the worksheet read from the spreadsheet source.
	SheetName string `yaml:"sheet_name" envconfig:"SHEET_NAME" default:"dashboard"`
	// DefaultYear completes bare month-name headers ("January").
	DefaultYear int `yaml:"default_year" envconfig:"DEFAULT_YEAR" default:"2025" validate:"gte=2000,lte=2100"`
}

// SheetsConfig contains the Google Sheets source configuration. SpreadsheetID
// empty means the CSV source is used instead.
type SheetsConfig struct {
	SpreadsheetID   string        `yaml:"spreadsheet_id" envconfig:"SPREADSHEET_ID"`
	CredentialsFile string        `yaml:"credentials_file" envconfig:"CREDENTIALS_FILE" default:"credentials/service-account.json"`
	Range           string        `yaml:"range" envconfig:"RANGE" default:"A:Z"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout" envconfig:"FETCH_TIMEOUT" default:"30s" validate:"gt=0"`
	RequestsPerSec  float64       `yaml:"requests_per_sec" envconfig:"REQUESTS_PER_SEC" default:"1" validate:"gt=0"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/pipeline.log"`
}

// PathsConfig contains file system paths.
type PathsConfig struct {
	RawFile      string `yaml:"raw_file" envconfig:"RAW_FILE" default:"data/raw/kpi_data.csv"`
	ProcessedDir string `yaml:"processed_dir" envconfig:"PROCESSED_DIR" default:"data/processed"`
}

// DashboardJSONPath returns the dashboard JSON artifact path.
func (p PathsConfig) DashboardJSONPath() string {
	return filepath.Join(p.ProcessedDir, "dashboard_data.json")
}

// ProcessedCSVPath returns the processed flat CSV artifact path.
func (p PathsConfig) ProcessedCSVPath() string {
	return filepath.Join(p.ProcessedDir, "processed_data.csv")
}

// WideCSVPath returns the converted wide-format CSV artifact path.
func (p PathsConfig) WideCSVPath() string {
	return filepath.Join(p.ProcessedDir, "kpis_v2_pipeline.csv")
}

// Load loads configuration from environment variables and an optional YAML
// config file (KPI_CONFIG_FILE or ./config.yaml), then validates it.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("KPI", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := configFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = merge(*fileCfg, cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration against the declared constraints.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// merge overlays file values onto the env-processed config. envconfig fills
// every default tag, so a field's env value only counts when its variable is
// actually set; otherwise a non-zero file value beats the built-in default.
func merge(file, env Config) Config {
	out := env

	if !envSet("KPI_PIPELINE_EXCLUDE_PERIODS") && len(file.Pipeline.ExcludePeriods) > 0 {
		out.Pipeline.ExcludePeriods = file.Pipeline.ExcludePeriods
	}
	if !envSet("KPI_PIPELINE_SHEET_NAME") && file.Pipeline.SheetName != "" {
		out.Pipeline.SheetName = file.Pipeline.SheetName
	}
	if !envSet("KPI_PIPELINE_DEFAULT_YEAR") && file.Pipeline.DefaultYear != 0 {
		out.Pipeline.DefaultYear = file.Pipeline.DefaultYear
	}

	if !envSet("KPI_SHEETS_SPREADSHEET_ID") && file.Sheets.SpreadsheetID != "" {
		out.Sheets.SpreadsheetID = file.Sheets.SpreadsheetID
	}
	if !envSet("KPI_SHEETS_CREDENTIALS_FILE") && file.Sheets.CredentialsFile != "" {
		out.Sheets.CredentialsFile = file.Sheets.CredentialsFile
	}
	if !envSet("KPI_SHEETS_RANGE") && file.Sheets.Range != "" {
		out.Sheets.Range = file.Sheets.Range
	}
	if !envSet("KPI_SHEETS_FETCH_TIMEOUT") && file.Sheets.FetchTimeout != 0 {
		out.Sheets.FetchTimeout = file.Sheets.FetchTimeout
	}
	if !envSet("KPI_SHEETS_REQUESTS_PER_SEC") && file.Sheets.RequestsPerSec != 0 {
		out.Sheets.RequestsPerSec = file.Sheets.RequestsPerSec
	}

	if !envSet("KPI_LOGGING_LEVEL") && file.Logging.Level != "" {
		out.Logging.Level = file.Logging.Level
	}
	if !envSet("KPI_LOGGING_OUTPUT") && file.Logging.Output != "" {
		out.Logging.Output = file.Logging.Output
	}
	if !envSet("KPI_LOGGING_FILE_PATH") && file.Logging.FilePath != "" {
		out.Logging.FilePath = file.Logging.FilePath
	}

	if !envSet("KPI_PATHS_RAW_FILE") && file.Paths.RawFile != "" {
		out.Paths.RawFile = file.Paths.RawFile
	}
	if !envSet("KPI_PATHS_PROCESSED_DIR") && file.Paths.ProcessedDir != "" {
		out.Paths.ProcessedDir = file.Paths.ProcessedDir
	}

	return out
}

// envSet reports whether the variable is present in the environment, set to
// anything including empty.
func envSet(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}

// configFilePath returns the YAML config file location.
func configFilePath() string {
	if path := os.Getenv("KPI_CONFIG_FILE"); path != "" {
		return path
	}
	return "config.yaml"
}
