//-------------------------------------------------------------------------
//
// visitmetrics
//
// Copyright (c) 2025 - 2026, the visitmetrics authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package reports defines the named reporting views over a loaded dataset.
// Each report is a pure function from (dataset, params) to a table; every
// run parameter is explicit — there is no shared report configuration.
package reports

import (
	"fmt"
	"strconv"

	"github.com/visitmetrics/visitmetrics/internal/dataset"
)

// Params carries the caller-specified report parameters.
type Params struct {
	// TopN is the upper bound of the rank window for ranking reports.
	// Ties at the boundary are included, so more than TopN rows can come back.
	TopN int

	// MinWeek drops ISO weeks below this number from weekly reports,
	// after the week-over-week lag has been computed.
	MinWeek int

	// Genre restricts genre-partitioned reports to one genre ("" = all).
	Genre string

	// Lat, Lng and RadiusKm define the search circle for nearby-stores.
	Lat      float64
	Lng      float64
	RadiusKm float64
}

// Table is a rendered tabular result.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Report is a named reporting view.
type Report interface {
	// Name returns the report identifier.
	Name() string

	// Description returns a human-readable description.
	Description() string

	// Run executes the report over the dataset.
	Run(ds *dataset.Dataset, p Params) (*Table, error)
}

// Cell formatting. Averages of visitor counts round to whole visitors,
// day-of-week comparisons keep one decimal, and undefined values render as
// empty cells — rounding happens here and nowhere earlier in the pipeline.

func formatCount(mean float64) string {
	return fmt.Sprintf("%.0f", mean)
}

func formatDayMean(mean float64) string {
	return fmt.Sprintf("%.1f", mean)
}

func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}

func formatNullInt(n dataset.NullInt) string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatInt(n.Int64, 10)
}

func formatPct(f dataset.NullFloat) string {
	if !f.Valid {
		return ""
	}
	return fmt.Sprintf("%.1f%%", f.Float64*100)
}
