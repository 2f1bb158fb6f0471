//-------------------------------------------------------------------------
//
// visitmetrics
//
// Copyright (c) 2025 - 2026, the visitmetrics authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package pipeline

import "sort"

// Ranked is one entity with its scalar metric and assigned dense rank.
type Ranked struct {
	Entity string
	Metric float64
	Rank   int
}

// DenseRank orders entities by metric descending and assigns dense ranks:
// equal metrics share a rank and the next distinct metric continues without
// a gap (1,1,2 — not 1,1,3). Output is sorted rank ascending with ties
// broken by entity ID ascending. The input slice is not modified.
func DenseRank(items []Ranked) []Ranked {
	out := make([]Ranked, len(items))
	copy(out, items)

	sort.Slice(out, func(i, j int) bool {
		if out[i].Metric != out[j].Metric {
			return out[i].Metric > out[j].Metric
		}
		return out[i].Entity < out[j].Entity
	})

	rank := 0
	for i := range out {
		if i == 0 || out[i].Metric != out[i-1].Metric {
			rank++
		}
		out[i].Rank = rank
	}
	return out
}

// Window keeps rows whose rank falls in [lo, hi]. Ties at the boundary are
// included in full: a tie for rank hi yields more than hi-lo+1 rows. That is
// part of the ranking contract, not an artifact.
func Window(items []Ranked, lo, hi int) []Ranked {
	var out []Ranked
	for _, r := range items {
		if r.Rank >= lo && r.Rank <= hi {
			out = append(out, r)
		}
	}
	return out
}
