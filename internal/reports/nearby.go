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
	"fmt"
	"sort"

	"github.com/visitmetrics/visitmetrics/internal/dataset"
	"github.com/visitmetrics/visitmetrics/internal/pipeline"
)

// NearbyStores lists stores within a radius of a point together with their
// mean daily reserved visitors.
type NearbyStores struct{}

// Name returns the report identifier.
func (NearbyStores) Name() string { return "nearby-stores" }

// Description returns a human-readable description.
func (NearbyStores) Description() string {
	return "Stores within a radius of a point, with mean daily visitors"
}

// Run executes the report.
func (NearbyStores) Run(ds *dataset.Dataset, p Params) (*Table, error) {
	if p.Lat == 0 && p.Lng == 0 {
		return nil, fmt.Errorf("nearby-stores requires --lat and --lng")
	}
	if p.RadiusKm <= 0 {
		return nil, fmt.Errorf("nearby-stores requires a positive radius")
	}

	stores := ds.Nearby(p.Lat, p.Lng, p.RadiusKm*1000)

	facts, _ := pipeline.Clean(ds.Visits)
	metrics := pipeline.MeanByEntity(pipeline.Aggregate(ds, facts, pipeline.ByStore, nil))
	means := make(map[string]float64, len(metrics))
	for _, m := range metrics {
		means[m.Key.Store] = m.Mean
	}

	type row struct {
		store    dataset.Store
		distance float64
	}
	rows := make([]row, 0, len(stores))
	for _, s := range stores {
		rows = append(rows, row{
			store:    s,
			distance: dataset.Distance(p.Lat, p.Lng, s.Latitude, s.Longitude),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].distance != rows[j].distance {
			return rows[i].distance < rows[j].distance
		}
		return rows[i].store.ID < rows[j].store.ID
	})

	t := &Table{Columns: []string{"store_id", "genre", "area", "distance_km", "avg_daily_visitors"}}
	for _, r := range rows {
		avg := ""
		if mean, ok := means[r.store.ID]; ok {
			avg = formatCount(mean)
		}
		t.Rows = append(t.Rows, []string{
			r.store.ID,
			r.store.Genre,
			r.store.Area,
			fmt.Sprintf("%.2f", r.distance/1000),
			avg,
		})
	}
	return t, nil
}

func init() {
	Register(NearbyStores{})
}
