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
	"sort"

	"github.com/visitmetrics/visitmetrics/internal/dataset"
	"github.com/visitmetrics/visitmetrics/internal/pipeline"
)

// BestDay compares days of the week by mean daily reserved visitors across
// all stores.
type BestDay struct{}

// Name returns the report identifier.
func (BestDay) Name() string { return "best-day" }

// Description returns a human-readable description.
func (BestDay) Description() string {
	return "Days of the week compared by mean daily reserved visitors"
}

// Run executes the report.
func (BestDay) Run(ds *dataset.Dataset, p Params) (*Table, error) {
	facts, _ := pipeline.Clean(ds.Visits)
	aggs := pipeline.Aggregate(ds, facts, pipeline.ByWeekday, nil)
	metrics := pipeline.MeanByEntity(aggs)

	sort.Slice(metrics, func(i, j int) bool {
		if metrics[i].Mean != metrics[j].Mean {
			return metrics[i].Mean > metrics[j].Mean
		}
		return metrics[i].Key.Weekday < metrics[j].Key.Weekday
	})

	t := &Table{Columns: []string{"day_of_week", "avg_daily_visitors", "days"}}
	for _, m := range metrics {
		t.Rows = append(t.Rows, []string{
			m.Key.Weekday,
			formatDayMean(m.Mean),
			formatInt(int64(m.Days)),
		})
	}
	return t, nil
}

// BestDayByGenre finds each genre's strongest day of the week. Daily totals
// are collapsed to one row per (genre, date) before averaging by weekday, so
// a genre's many stores do not double-count into the weekday mean.
type BestDayByGenre struct{}

// Name returns the report identifier.
func (BestDayByGenre) Name() string { return "best-day-by-genre" }

// Description returns a human-readable description.
func (BestDayByGenre) Description() string {
	return "Each genre's strongest day of the week by mean daily visitors"
}

// Run executes the report.
func (BestDayByGenre) Run(ds *dataset.Dataset, p Params) (*Table, error) {
	facts, _ := pipeline.Clean(ds.Visits)
	aggs := pipeline.Aggregate(ds, facts, pipeline.ByGenreWeekday, nil)
	metrics := pipeline.MeanByEntity(aggs)

	// Pick the best weekday per genre: highest mean, weekday name as the
	// deterministic tie-break.
	best := make(map[string]pipeline.EntityMetric)
	for _, m := range metrics {
		if p.Genre != "" && m.Key.Genre != p.Genre {
			continue
		}
		cur, ok := best[m.Key.Genre]
		if !ok || m.Mean > cur.Mean ||
			(m.Mean == cur.Mean && m.Key.Weekday < cur.Key.Weekday) {
			best[m.Key.Genre] = m
		}
	}

	genres := make([]string, 0, len(best))
	for g := range best {
		genres = append(genres, g)
	}
	sort.Strings(genres)

	t := &Table{Columns: []string{"genre", "best_day", "avg_daily_visitors"}}
	for _, g := range genres {
		m := best[g]
		t.Rows = append(t.Rows, []string{
			g,
			m.Key.Weekday,
			formatDayMean(m.Mean),
		})
	}
	return t, nil
}

func init() {
	Register(BestDay{})
	Register(BestDayByGenre{})
}
