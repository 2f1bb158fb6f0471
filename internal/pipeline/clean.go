//-------------------------------------------------------------------------
//
// visitmetrics
//
// Copyright (c) 2025 - 2026, the visitmetrics authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package pipeline implements the analytical stages over a loaded dataset:
// cleaning, daily aggregation, dense ranking and week-over-week trends.
// Every stage is a pure function of its inputs; re-running a stage on the
// same data yields identical output.
package pipeline

import (
	"github.com/visitmetrics/visitmetrics/internal/dataset"
)

// QualityReport counts missing required fields in the raw visit records.
// Missing values are reported, never repaired or silently dropped.
type QualityReport struct {
	Rows               int
	MissingStoreID     int
	MissingVisitTime   int
	MissingReserveTime int
	MissingVisitors    int
}

// Dirty reports whether any required field was missing.
func (q QualityReport) Dirty() bool {
	return q.MissingStoreID > 0 || q.MissingVisitTime > 0 ||
		q.MissingReserveTime > 0 || q.MissingVisitors > 0
}

// Validate counts missing values per column over the raw records.
func Validate(visits []dataset.VisitRecord) QualityReport {
	q := QualityReport{Rows: len(visits)}
	for _, v := range visits {
		if v.StoreID == "" {
			q.MissingStoreID++
		}
		if !v.VisitTime.Valid {
			q.MissingVisitTime++
		}
		if !v.ReserveTime.Valid {
			q.MissingReserveTime++
		}
		if !v.Visitors.Valid {
			q.MissingVisitors++
		}
	}
	return q
}

// Clean derives VisitDate for every record by truncating VisitTime to its
// calendar date. No rows are dropped: a record with a missing timestamp is
// carried through with an invalid VisitDate, which keeps it out of
// date-keyed aggregates only. Input order is preserved.
func Clean(visits []dataset.VisitRecord) ([]dataset.VisitRecord, QualityReport) {
	out := make([]dataset.VisitRecord, len(visits))
	copy(out, visits)
	for i := range out {
		if out[i].VisitTime.Valid {
			out[i].VisitDate = dataset.Timestamp(dataset.DateKey(out[i].VisitTime.Time))
		} else {
			out[i].VisitDate = dataset.NullTime{}
		}
	}
	return out, Validate(visits)
}
