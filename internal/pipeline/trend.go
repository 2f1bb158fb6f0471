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

	"github.com/visitmetrics/visitmetrics/internal/dataset"
)

// WeeklyTotal is one (partition, ISO week) with its visitor total and, after
// WeekOverWeek, the lagged prior total and percentage change.
type WeeklyTotal struct {
	Partition string
	ISOYear   int
	ISOWeek   int
	Total     int64
	Prior     dataset.NullInt
	PctChange dataset.NullFloat
}

// BucketWeekly folds daily aggregates into ISO-week totals, optionally
// partitioned (partition may be nil for a single global series). Output is
// sorted by (partition, year, week) — the order WeekOverWeek depends on.
func BucketWeekly(aggs []DailyAggregate, partition func(DailyAggregate) string) []WeeklyTotal {
	type wk struct {
		part string
		year int
		week int
	}
	sums := make(map[wk]int64)
	for _, a := range aggs {
		year, week := a.Date.ISOWeek()
		k := wk{year: year, week: week}
		if partition != nil {
			k.part = partition(a)
		}
		sums[k] += a.Total
	}

	out := make([]WeeklyTotal, 0, len(sums))
	for k, total := range sums {
		out = append(out, WeeklyTotal{
			Partition: k.part,
			ISOYear:   k.year,
			ISOWeek:   k.week,
			Total:     total,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Partition != out[j].Partition {
			return out[i].Partition < out[j].Partition
		}
		if out[i].ISOYear != out[j].ISOYear {
			return out[i].ISOYear < out[j].ISOYear
		}
		return out[i].ISOWeek < out[j].ISOWeek
	})
	return out
}

// WeekOverWeek performs the lag scan: each row's Prior becomes the
// immediately preceding row's total within the same (partition, ISO year).
// The first week of a partition or year has no prior — there is no
// wraparound. PctChange is current/prior - 1, undefined (invalid, not zero
// or an error) when the prior is missing or zero. Input must be sorted as
// produced by BucketWeekly; the input slice is not modified.
func WeekOverWeek(rows []WeeklyTotal) []WeeklyTotal {
	out := make([]WeeklyTotal, len(rows))
	copy(out, rows)

	for i := range out {
		out[i].Prior = dataset.NullInt{}
		if i > 0 &&
			out[i-1].Partition == out[i].Partition &&
			out[i-1].ISOYear == out[i].ISOYear {
			out[i].Prior = dataset.Int(out[i-1].Total)
		}
		out[i].PctChange = dataset.PctChange(out[i].Total, out[i].Prior)
	}
	return out
}

// FilterMinWeek drops rows with ISOWeek < minWeek. It must run after
// WeekOverWeek: filtering before the lag scan would corrupt the prior
// reference of the first retained week. minWeek <= 1 keeps everything.
func FilterMinWeek(rows []WeeklyTotal, minWeek int) []WeeklyTotal {
	if minWeek <= 1 {
		return rows
	}
	var out []WeeklyTotal
	for _, r := range rows {
		if r.ISOWeek >= minWeek {
			out = append(out, r)
		}
	}
	return out
}
