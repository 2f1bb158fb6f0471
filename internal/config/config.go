//-------------------------------------------------------------------------
//
// visitmetrics
//
// Copyright (c) 2025 - 2026, the visitmetrics authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for visitmetrics.
// Configuration is loaded from config files and CLI flags (no environment variables).
// CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for visitmetrics.
type Config struct {
	// Source is the dataset source type: csv, postgres, or sqlite.
	Source string `mapstructure:"source"`

	// Connection is the PostgreSQL connection string or SQLite file path,
	// depending on Source.
	Connection string `mapstructure:"connection"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// CSV holds file paths for the csv source.
	CSV CSVConfig `mapstructure:"csv"`

	// Report holds default parameters for the run subcommand.
	Report ReportConfig `mapstructure:"report"`

	// Seed holds configuration for the seed subcommand.
	Seed SeedConfig `mapstructure:"seed"`
}

// CSVConfig holds the three input files for the csv source.
type CSVConfig struct {
	// VisitsFile is the reservation/visit fact file.
	VisitsFile string `mapstructure:"visits_file"`

	// CalendarFile is the date dimension file.
	CalendarFile string `mapstructure:"calendar_file"`

	// StoresFile is the store dimension file.
	StoresFile string `mapstructure:"stores_file"`
}

// ReportConfig holds default report parameters. Every value here can be
// overridden per invocation; reports never read process-global state.
type ReportConfig struct {
	// TopN is the upper bound of the rank window for ranking reports.
	TopN int `mapstructure:"top_n"`

	// MinWeek is the minimum ISO week retained by weekly trend reports.
	// The filter is applied after lag computation.
	MinWeek int `mapstructure:"min_week"`

	// Genre restricts genre-partitioned reports to a single genre ("" = all).
	Genre string `mapstructure:"genre"`

	// RadiusKm is the search radius for the nearby-stores report.
	RadiusKm float64 `mapstructure:"radius_km"`
}

// SeedConfig holds configuration for synthetic dataset generation.
type SeedConfig struct {
	// Stores is the number of stores to generate.
	Stores int `mapstructure:"stores"`

	// Days is the length of the generated calendar in days.
	Days int `mapstructure:"days"`

	// Seed is the RNG seed (0 = time-based).
	Seed uint64 `mapstructure:"seed"`

	// OutDir is the directory for generated CSV files (csv source only).
	OutDir string `mapstructure:"out_dir"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Source:   "csv",
		LogLevel: "info",
		CSV: CSVConfig{
			VisitsFile:   "air_reserve.csv",
			CalendarFile: "date_info.csv",
			StoresFile:   "air_store_info.csv",
		},
		Report: ReportConfig{
			TopN:     5,
			MinWeek:  0,
			RadiusKm: 5,
		},
		Seed: SeedConfig{
			Stores: 120,
			Days:   180,
			OutDir: ".",
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./visitmetrics.yaml
// 3. ~/.config/visitmetrics/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("visitmetrics")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "visitmetrics"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	switch c.Source {
	case "csv":
		if c.CSV.VisitsFile == "" || c.CSV.CalendarFile == "" || c.CSV.StoresFile == "" {
			return fmt.Errorf("csv source requires visits_file, calendar_file and stores_file")
		}
	case "postgres":
		if c.Connection == "" {
			return fmt.Errorf("postgres source requires a connection string")
		}
	case "sqlite":
		if c.Connection == "" {
			return fmt.Errorf("sqlite source requires a database file path")
		}
	default:
		return fmt.Errorf("unknown source: %s (expected csv, postgres or sqlite)", c.Source)
	}
	return nil
}

// ValidateRun checks configuration required for the run command.
func (c *Config) ValidateRun() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Report.TopN < 1 {
		return fmt.Errorf("top_n must be at least 1")
	}
	if c.Report.MinWeek < 0 || c.Report.MinWeek > 53 {
		return fmt.Errorf("min_week must be between 0 and 53")
	}
	if c.Report.RadiusKm <= 0 {
		return fmt.Errorf("radius_km must be positive")
	}
	return nil
}

// ValidateSeed checks configuration required for the seed command.
func (c *Config) ValidateSeed() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Seed.Stores < 1 {
		return fmt.Errorf("stores must be at least 1")
	}
	if c.Seed.Days < 1 {
		return fmt.Errorf("days must be at least 1")
	}
	if c.Source == "csv" && c.Seed.OutDir == "" {
		return fmt.Errorf("out_dir is required for the csv source")
	}
	return nil
}
