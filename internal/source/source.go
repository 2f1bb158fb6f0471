//-------------------------------------------------------------------------
//
// visitmetrics
//
// Copyright (c) 2025 - 2026, the visitmetrics authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package source loads the three base tables (visits, calendar, stores)
// into a dataset from CSV files, PostgreSQL, or SQLite. Sources only read
// and materialize; all analytical semantics live in the pipeline package.
package source

import (
	"context"
	"fmt"
	"time"

	"github.com/visitmetrics/visitmetrics/internal/config"
	"github.com/visitmetrics/visitmetrics/internal/dataset"
)

// Source loads a dataset from an external store.
type Source interface {
	// Name identifies the source type.
	Name() string

	// Load reads all three base tables and returns the materialized dataset.
	Load(ctx context.Context) (*dataset.Dataset, error)
}

// Writer persists a dataset back to the source's native format. Used by the
// seed command; the analytics pipeline itself never writes.
type Writer interface {
	Write(ctx context.Context, ds *dataset.Dataset) error
}

// FromConfig constructs the source selected by the configuration.
func FromConfig(cfg *config.Config) (Source, error) {
	switch cfg.Source {
	case "csv":
		return &CSV{
			VisitsPath:   cfg.CSV.VisitsFile,
			CalendarPath: cfg.CSV.CalendarFile,
			StoresPath:   cfg.CSV.StoresFile,
		}, nil
	case "postgres":
		return &Postgres{ConnString: cfg.Connection}, nil
	case "sqlite":
		return &SQLite{Path: cfg.Connection}, nil
	default:
		return nil, fmt.Errorf("unknown source: %s", cfg.Source)
	}
}

// Timestamp and date layouts used by the CSV and SQLite representations.
const (
	timestampLayout = "2006-01-02 15:04:05"
	dateLayout      = "2006-01-02"
)

var weekdays = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}

// parseWeekday maps a day-of-week label to time.Weekday.
func parseWeekday(s string) (time.Weekday, error) {
	if d, ok := weekdays[s]; ok {
		return d, nil
	}
	return 0, fmt.Errorf("unknown day of week: %q", s)
}
