//-------------------------------------------------------------------------
//
// visitmetrics
//
// Copyright (c) 2025 - 2026, the visitmetrics authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package reports

import (
	"github.com/visitmetrics/visitmetrics/internal/dataset"
	"github.com/visitmetrics/visitmetrics/internal/pipeline"
)

// WeeklyTotals reports ISO-week visitor totals with week-over-week change
// across all stores.
type WeeklyTotals struct{}

// Name returns the report identifier.
func (WeeklyTotals) Name() string { return "weekly-totals" }

// Description returns a human-readable description.
func (WeeklyTotals) Description() string {
	return "ISO-week reserved visitor totals with week-over-week change"
}

// Run executes the report.
func (WeeklyTotals) Run(ds *dataset.Dataset, p Params) (*Table, error) {
	facts, _ := pipeline.Clean(ds.Visits)
	aggs := pipeline.Aggregate(ds, facts, pipeline.ByDate, nil)
	rows := pipeline.FilterMinWeek(
		pipeline.WeekOverWeek(pipeline.BucketWeekly(aggs, nil)),
		p.MinWeek,
	)

	t := &Table{Columns: []string{"iso_year", "iso_week", "total_visitors", "prior_week", "pct_change"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			formatInt(int64(r.ISOYear)),
			formatInt(int64(r.ISOWeek)),
			formatInt(r.Total),
			formatNullInt(r.Prior),
			formatPct(r.PctChange),
		})
	}
	return t, nil
}

// WeeklyByGenre reports week-over-week totals partitioned by genre. The lag
// never crosses a genre boundary, and the min-week filter applies after the
// lag computation.
type WeeklyByGenre struct{}

// Name returns the report identifier.
func (WeeklyByGenre) Name() string { return "weekly-by-genre" }

// Description returns a human-readable description.
func (WeeklyByGenre) Description() string {
	return "Week-over-week reserved visitor totals partitioned by genre"
}

// Run executes the report.
func (WeeklyByGenre) Run(ds *dataset.Dataset, p Params) (*Table, error) {
	facts, _ := pipeline.Clean(ds.Visits)
	aggs := pipeline.Aggregate(ds, facts, pipeline.ByGenre, nil)
	rows := pipeline.FilterMinWeek(
		pipeline.WeekOverWeek(pipeline.BucketWeekly(aggs,
			func(a pipeline.DailyAggregate) string { return a.Key.Genre })),
		p.MinWeek,
	)

	t := &Table{Columns: []string{"genre", "iso_year", "iso_week", "total_visitors", "prior_week", "pct_change"}}
	for _, r := range rows {
		if p.Genre != "" && r.Partition != p.Genre {
			continue
		}
		t.Rows = append(t.Rows, []string{
			r.Partition,
			formatInt(int64(r.ISOYear)),
			formatInt(int64(r.ISOWeek)),
			formatInt(r.Total),
			formatNullInt(r.Prior),
			formatPct(r.PctChange),
		})
	}
	return t, nil
}

func init() {
	Register(WeeklyTotals{})
	Register(WeeklyByGenre{})
}
