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

// TopHolidayStores ranks stores by their mean daily reserved visitors on
// holidays and returns the rank window 1..TopN.
type TopHolidayStores struct{}

// Name returns the report identifier.
func (TopHolidayStores) Name() string { return "top-holiday-stores" }

// Description returns a human-readable description.
func (TopHolidayStores) Description() string {
	return "Stores ranked by mean daily reserved visitors on holidays"
}

// Run executes the report.
func (TopHolidayStores) Run(ds *dataset.Dataset, p Params) (*Table, error) {
	facts, _ := pipeline.Clean(ds.Visits)
	aggs := pipeline.Aggregate(ds, facts, pipeline.ByStore, pipeline.HolidayOnly)
	metrics := pipeline.MeanByEntity(aggs)

	ranked := make([]pipeline.Ranked, 0, len(metrics))
	for _, m := range metrics {
		ranked = append(ranked, pipeline.Ranked{Entity: m.Key.Store, Metric: m.Mean})
	}
	window := pipeline.Window(pipeline.DenseRank(ranked), 1, p.TopN)

	days := make(map[string]int, len(metrics))
	for _, m := range metrics {
		days[m.Key.Store] = m.Days
	}

	t := &Table{Columns: []string{"rank", "store_id", "genre", "avg_holiday_visitors", "holidays"}}
	for _, r := range window {
		genre := ""
		if s, ok := ds.StoreByID(r.Entity); ok {
			genre = s.Genre
		}
		t.Rows = append(t.Rows, []string{
			formatInt(int64(r.Rank)),
			r.Entity,
			genre,
			formatCount(r.Metric),
			formatInt(int64(days[r.Entity])),
		})
	}
	return t, nil
}

// GenreRanking ranks genres by their mean daily reserved visitors.
type GenreRanking struct{}

// Name returns the report identifier.
func (GenreRanking) Name() string { return "genre-ranking" }

// Description returns a human-readable description.
func (GenreRanking) Description() string {
	return "Genres ranked by mean daily reserved visitors"
}

// Run executes the report.
func (GenreRanking) Run(ds *dataset.Dataset, p Params) (*Table, error) {
	facts, _ := pipeline.Clean(ds.Visits)
	aggs := pipeline.Aggregate(ds, facts, pipeline.ByGenre, nil)
	metrics := pipeline.MeanByEntity(aggs)

	ranked := make([]pipeline.Ranked, 0, len(metrics))
	for _, m := range metrics {
		ranked = append(ranked, pipeline.Ranked{Entity: m.Key.Genre, Metric: m.Mean})
	}
	window := pipeline.Window(pipeline.DenseRank(ranked), 1, p.TopN)

	t := &Table{Columns: []string{"rank", "genre", "avg_daily_visitors"}}
	for _, r := range window {
		t.Rows = append(t.Rows, []string{
			formatInt(int64(r.Rank)),
			r.Entity,
			formatCount(r.Metric),
		})
	}
	return t, nil
}

func init() {
	Register(TopHolidayStores{})
	Register(GenreRanking{})
}
