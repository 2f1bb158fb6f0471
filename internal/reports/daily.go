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

// DailyTrend emits the per-date visitor series — the cleaned input a
// downstream forecasting model would consume.
type DailyTrend struct{}

// Name returns the report identifier.
func (DailyTrend) Name() string { return "daily-trend" }

// Description returns a human-readable description.
func (DailyTrend) Description() string {
	return "Total reserved visitors per date, with calendar attributes"
}

// Run executes the report.
func (DailyTrend) Run(ds *dataset.Dataset, p Params) (*Table, error) {
	facts, _ := pipeline.Clean(ds.Visits)
	aggs := pipeline.Aggregate(ds, facts, pipeline.ByDate, nil)

	t := &Table{Columns: []string{"date", "day_of_week", "holiday", "total_visitors"}}
	for _, a := range aggs {
		dow, holiday := "", ""
		if day, ok := ds.Calendar[a.Date]; ok {
			dow = day.DayOfWeek.String()
			if day.Holiday {
				holiday = "1"
			} else {
				holiday = "0"
			}
		}
		t.Rows = append(t.Rows, []string{
			a.Date.Format("2006-01-02"),
			dow,
			holiday,
			formatInt(a.Total),
		})
	}
	return t, nil
}

func init() {
	Register(DailyTrend{})
}
