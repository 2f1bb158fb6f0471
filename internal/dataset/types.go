//-------------------------------------------------------------------------
//
// visitmetrics
//
// Copyright (c) 2025 - 2026, the visitmetrics authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package dataset defines the in-memory data model for the analytics
// pipeline: the visit fact records, the calendar and store dimensions,
// and the nullable scalar types that carry SQL-style missing values
// through computations.
package dataset

import "time"

// VisitRecord is one raw reservation row. VisitDate is derived by the
// cleaning stage from VisitTime; it stays invalid when VisitTime is missing.
type VisitRecord struct {
	StoreID     string
	VisitTime   NullTime
	ReserveTime NullTime
	Visitors    NullInt
	VisitDate   NullTime
}

// CalendarDay is one row of the date dimension, unique by Date.
type CalendarDay struct {
	Date      time.Time
	DayOfWeek time.Weekday
	Holiday   bool
}

// Store is one row of the store dimension, unique by ID.
type Store struct {
	ID        string
	Genre     string
	Area      string
	Latitude  float64
	Longitude float64
}

// Dataset is the loaded corpus every pipeline stage reads. Stages treat it
// as immutable; derived results are always fresh slices.
type Dataset struct {
	Visits   []VisitRecord
	Calendar map[time.Time]CalendarDay
	Stores   map[string]Store
}

// New returns an empty dataset with initialized dimension maps.
func New() *Dataset {
	return &Dataset{
		Calendar: make(map[time.Time]CalendarDay),
		Stores:   make(map[string]Store),
	}
}

// DateKey truncates a timestamp to its calendar date in UTC. All map lookups
// into Calendar use this normal form.
func DateKey(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Day looks up the calendar row for a timestamp's date.
func (d *Dataset) Day(t time.Time) (CalendarDay, bool) {
	day, ok := d.Calendar[DateKey(t)]
	return day, ok
}

// StoreByID looks up a store dimension row.
func (d *Dataset) StoreByID(id string) (Store, bool) {
	s, ok := d.Stores[id]
	return s, ok
}
