//-------------------------------------------------------------------------
//
// visitmetrics
//
// Copyright (c) 2025 - 2026, the visitmetrics authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package dataset

import (
	"sort"

	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is the mean earth radius used for distance conversion.
const EarthRadiusMeters = 6371000.0

// Distance returns the great-circle distance in meters between two
// coordinate pairs.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lng1)
	p2 := s2.LatLngFromDegrees(lat2, lng2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// Nearby returns the stores within radiusMeters of the given point, sorted
// by store ID for deterministic output.
func (d *Dataset) Nearby(lat, lng, radiusMeters float64) []Store {
	var out []Store
	for _, s := range d.Stores {
		if Distance(lat, lng, s.Latitude, s.Longitude) <= radiusMeters {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
