//-------------------------------------------------------------------------
//
// visitmetrics
//
// Copyright (c) 2025 - 2026, the visitmetrics authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package pipeline

import (
	"sort"
	"time"

	"github.com/visitmetrics/visitmetrics/internal/dataset"
)

// GroupKey selects the entity dimension of a daily aggregation. Every
// aggregate is computed at (entity, date) grain; coarser per-entity metrics
// come from MeanByEntity over the daily rows, never from raw sub-daily rows.
type GroupKey int

const (
	// ByStore groups per (store id, date).
	ByStore GroupKey = iota

	// ByGenre groups per (genre, date). Requires the store dimension;
	// facts with no matching store row are excluded from this key only.
	ByGenre

	// ByDate groups per date across all stores.
	ByDate

	// ByWeekday groups per (day-of-week, date). The weekday label comes
	// from the calendar dimension, so facts with no calendar row are
	// excluded from this key only.
	ByWeekday

	// ByGenreWeekday groups per (genre, day-of-week, date).
	ByGenreWeekday
)

// Key identifies an aggregation entity. Unused fields stay empty.
type Key struct {
	Store   string
	Genre   string
	Weekday string
}

// DailyAggregate is the sum of reserved visitors for one (entity, date).
type DailyAggregate struct {
	Key   Key
	Date  time.Time
	Total int64
}

// Row is the left-joined view of a fact handed to filters: dimension
// pointers are nil when the lookup found no match.
type Row struct {
	Fact  dataset.VisitRecord
	Day   *dataset.CalendarDay
	Store *dataset.Store
}

// Filter restricts which joined rows contribute to an aggregation.
type Filter func(Row) bool

// HolidayOnly keeps rows whose date falls on a holiday. Facts without a
// calendar match fail the predicate, matching left-join-then-filter SQL.
func HolidayOnly(r Row) bool {
	return r.Day != nil && r.Day.Holiday
}

// Aggregate sums reserved visitor counts per (entity, date) over the cleaned
// facts. Joins to the calendar and store dimensions are outer with respect to
// the facts: a record missing a dimension still contributes to every key that
// does not need it. Records without a derivable visit date or visitor count
// contribute nothing, mirroring SQL SUM over NULL. Output is sorted by
// (key, date) so equal inputs always produce identical output.
func Aggregate(ds *dataset.Dataset, facts []dataset.VisitRecord, key GroupKey, filter Filter) []DailyAggregate {
	type bucket struct {
		k    Key
		date time.Time
	}
	sums := make(map[bucket]int64)

	for _, f := range facts {
		if !f.VisitDate.Valid || !f.Visitors.Valid {
			continue
		}
		date := dataset.DateKey(f.VisitDate.Time)

		row := Row{Fact: f}
		if day, ok := ds.Calendar[date]; ok {
			row.Day = &day
		}
		if st, ok := ds.Stores[f.StoreID]; ok {
			row.Store = &st
		}
		if filter != nil && !filter(row) {
			continue
		}

		var k Key
		switch key {
		case ByStore:
			if f.StoreID == "" {
				continue
			}
			k.Store = f.StoreID
		case ByGenre:
			if row.Store == nil {
				continue
			}
			k.Genre = row.Store.Genre
		case ByDate:
			// date-only: no entity fields
		case ByWeekday:
			if row.Day == nil {
				continue
			}
			k.Weekday = row.Day.DayOfWeek.String()
		case ByGenreWeekday:
			if row.Store == nil || row.Day == nil {
				continue
			}
			k.Genre = row.Store.Genre
			k.Weekday = row.Day.DayOfWeek.String()
		}

		sums[bucket{k: k, date: date}] += f.Visitors.Int64
	}

	out := make([]DailyAggregate, 0, len(sums))
	for b, total := range sums {
		out = append(out, DailyAggregate{Key: b.k, Date: b.date, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key != out[j].Key {
			return lessKey(out[i].Key, out[j].Key)
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

func lessKey(a, b Key) bool {
	if a.Store != b.Store {
		return a.Store < b.Store
	}
	if a.Genre != b.Genre {
		return a.Genre < b.Genre
	}
	return a.Weekday < b.Weekday
}

// EntityMetric is the mean of an entity's daily totals over the days it
// appears. The mean is exact at this point; rounding happens only at
// presentation.
type EntityMetric struct {
	Key  Key
	Mean float64
	Days int
}

// MeanByEntity averages daily totals per entity. Input must already be at
// daily grain; averaging raw sub-daily rows would bias toward entities with
// more intraday reservation entries.
func MeanByEntity(aggs []DailyAggregate) []EntityMetric {
	type acc struct {
		sum  int64
		days int
	}
	byKey := make(map[Key]acc)
	for _, a := range aggs {
		c := byKey[a.Key]
		c.sum += a.Total
		c.days++
		byKey[a.Key] = c
	}

	out := make([]EntityMetric, 0, len(byKey))
	for k, c := range byKey {
		out = append(out, EntityMetric{
			Key:  k,
			Mean: float64(c.sum) / float64(c.days),
			Days: c.days,
		})
	}
	sort.Slice(out, func(i, j int) bool { return lessKey(out[i].Key, out[j].Key) })
	return out
}
