//-------------------------------------------------------------------------
//
// visitmetrics
//
// Copyright (c) 2025 - 2026, the visitmetrics authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package dataset

import "time"

// NullInt is an integer that may be missing. Arithmetic over missing values
// stays missing; it is never coerced to zero.
type NullInt struct {
	Int64 int64
	Valid bool
}

// Int returns a valid NullInt.
func Int(v int64) NullInt {
	return NullInt{Int64: v, Valid: true}
}

// NullFloat is a float that may be missing.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// Float returns a valid NullFloat.
func Float(v float64) NullFloat {
	return NullFloat{Float64: v, Valid: true}
}

// NullTime is a timestamp that may be missing.
type NullTime struct {
	Time  time.Time
	Valid bool
}

// Timestamp returns a valid NullTime.
func Timestamp(t time.Time) NullTime {
	return NullTime{Time: t, Valid: true}
}

// PctChange returns current/prior - 1. The result is invalid when prior is
// missing or zero; the undefined ratio propagates instead of failing.
func PctChange(current int64, prior NullInt) NullFloat {
	if !prior.Valid || prior.Int64 == 0 {
		return NullFloat{}
	}
	return Float(float64(current)/float64(prior.Int64) - 1)
}
