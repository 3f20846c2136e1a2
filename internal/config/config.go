package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Source  SourceConfig  `yaml:"source" envconfig:"SOURCE"`
	Output  OutputConfig  `yaml:"output" envconfig:"OUTPUT"`
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// SourceConfig tells the pipeline where to fetch the three raw datasets from.
// BaseLocation is either an http(s) URL prefix or a filesystem directory.
type SourceConfig struct {
	BaseLocation string        `yaml:"base_location" envconfig:"BASE_LOCATION" validate:"required"`
	Timeout      time.Duration `yaml:"timeout" envconfig:"TIMEOUT" validate:"gt=0"`
}

// OutputConfig controls where summary reports are written.
type OutputConfig struct {
	Dir        string `yaml:"dir" envconfig:"DIR" validate:"required"`
	WriteCSV   bool   `yaml:"write_csv" envconfig:"WRITE_CSV"`
	WriteExcel bool   `yaml:"write_excel" envconfig:"WRITE_EXCEL"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// configFileEnv names the env var pointing at an optional YAML config file.
const configFileEnv = "BANKFACTS_CONFIG_FILE"

// defaultSourceLocation is where the original published datasets live.
const defaultSourceLocation = "https://raw.githubusercontent.com/NNielsen1995/Temp/refs/heads/main"

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			BaseLocation: defaultSourceLocation,
			Timeout:      30 * time.Second,
		},
		Output: OutputConfig{
			Dir:      "data/reports",
			WriteCSV: true,
		},
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/bankfacts.log",
		},
	}
}

// Load builds the configuration with defaults < YAML file < environment
// precedence, then validates the result.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv(configFileEnv); path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process("BANKFACTS", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays configuration from a YAML file
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}
