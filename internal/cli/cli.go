//-------------------------------------------------------------------------
//
// visitmetrics
//
// Copyright (c) 2025 - 2026, the visitmetrics authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for visitmetrics.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/visitmetrics/visitmetrics/internal/config"
	"github.com/visitmetrics/visitmetrics/internal/logging"
	"github.com/visitmetrics/visitmetrics/internal/reports"
	"github.com/visitmetrics/visitmetrics/pkg/version"
)

var (
	// Global flags
	cfgFile    string
	sourceType string
	connection string
	logLevel   string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "visitmetrics",
		Short: "Restaurant reservation analytics over the air visit dataset",
		Long: `visitmetrics loads restaurant reservation data from CSV files,
PostgreSQL or SQLite, cleans it, and produces ranking and trend reports:
top stores on holidays, best weekday per genre, week-over-week visitor
totals and more.

The same pipeline runs against any source; re-running a report on
unchanged input always produces identical output.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./visitmetrics.yaml)")
	rootCmd.PersistentFlags().StringVar(&sourceType, "source", "",
		"dataset source (csv, postgres, sqlite)")
	rootCmd.PersistentFlags().StringVar(&connection, "connection", "",
		"PostgreSQL connection string or SQLite file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(reportsCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(seedCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if sourceType != "" {
		cfg.Source = sourceType
	}
	if connection != "" {
		cfg.Connection = connection
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List available reports",
	Long: `List all available reports. Each report runs the cleaning and
aggregation pipeline over the configured source and prints a table.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Available reports:")
		cmd.Println()
		for _, r := range reports.All() {
			cmd.Printf("  %-20s %s\n", r.Name(), r.Description())
		}
		cmd.Println()
		cmd.Println("Use 'visitmetrics run <report>' to run one, or 'visitmetrics run' for all.")
	},
}
