// Package config loads the YAML configuration of the lssstools command.
package config

import (
	"fmt"
	"os"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Output formats for flattened tables.
const (
	FormatCSV    = "csv"
	FormatJSON   = "json"
	FormatXLSX   = "xlsx"
	FormatSQLite = "sqlite"
)

type LogConfig struct {
	Level string `yaml:"level"`
}

type OutputConfig struct {
	Format string `yaml:"format"`
	Pretty bool   `yaml:"pretty"`
	Sheet  string `yaml:"sheet"`
}

type SQLiteConfig struct {
	Table string `yaml:"table"`
}

type NetCDFConfig struct {
	Overwrite bool `yaml:"overwrite"`
	// Workers bounds the number of grid files written concurrently.
	Workers int `yaml:"workers"`
}

type FrequencyConfig struct {
	// Strict rejects TS targets whose tsc length differs from numFrequencies.
	Strict bool `yaml:"strict"`
}

// Config is the top-level structure of lssstools.yaml.
type Config struct {
	Log         LogConfig       `yaml:"log"`
	Output      OutputConfig    `yaml:"output"`
	SQLite      SQLiteConfig    `yaml:"sqlite"`
	NetCDF      NetCDFConfig    `yaml:"netcdf"`
	Frequency   FrequencyConfig `yaml:"frequency"`
	TimeLayouts []string        `yaml:"time_layouts"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log:       LogConfig{Level: "info"},
		Output:    OutputConfig{Format: FormatCSV, Sheet: "Sheet1"},
		SQLite:    SQLiteConfig{Table: "samples"},
		NetCDF:    NetCDFConfig{Workers: 4},
		Frequency: FrequencyConfig{Strict: true},
	}
}

// Load reads path on top of Default and validates the result.
// Keys absent from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case FormatCSV, FormatJSON, FormatXLSX, FormatSQLite:
	default:
		return fmt.Errorf("output.format must be csv, json, xlsx or sqlite, got %q", c.Output.Format)
	}
	if c.SQLite.Table == "" {
		return fmt.Errorf("sqlite.table must not be empty")
	}
	if c.NetCDF.Workers < 1 {
		return fmt.Errorf("netcdf.workers must be at least 1, got %d", c.NetCDF.Workers)
	}
	if _, err := c.ZapLevel(); err != nil {
		return err
	}
	return nil
}

// ZapLevel parses log.level.
func (c *Config) ZapLevel() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return lvl, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}
