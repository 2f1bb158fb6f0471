package dataset

import (
	"testing"
	"time"
)

func TestPctChange(t *testing.T) {
	tests := []struct {
		name      string
		current   int64
		prior     NullInt
		wantValid bool
		want      float64
	}{
		{
			name:      "fifty percent growth",
			current:   150,
			prior:     Int(100),
			wantValid: true,
			want:      0.5,
		},
		{
			name:      "decline",
			current:   50,
			prior:     Int(100),
			wantValid: true,
			want:      -0.5,
		},
		{
			name:      "zero prior is undefined",
			current:   50,
			prior:     Int(0),
			wantValid: false,
		},
		{
			name:      "missing prior is undefined",
			current:   50,
			prior:     NullInt{},
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PctChange(tt.current, tt.prior)
			if got.Valid != tt.wantValid {
				t.Fatalf("PctChange valid = %v, want %v", got.Valid, tt.wantValid)
			}
			if tt.wantValid && got.Float64 != tt.want {
				t.Errorf("PctChange = %f, want %f", got.Float64, tt.want)
			}
		})
	}
}

func TestDateKey(t *testing.T) {
	ts := time.Date(2017, 3, 15, 19, 30, 0, 0, time.UTC)
	want := time.Date(2017, 3, 15, 0, 0, 0, 0, time.UTC)
	if got := DateKey(ts); !got.Equal(want) {
		t.Errorf("DateKey = %v, want %v", got, want)
	}

	// Midnight maps to itself
	if got := DateKey(want); !got.Equal(want) {
		t.Errorf("DateKey(midnight) = %v, want %v", got, want)
	}
}

func TestDatasetLookups(t *testing.T) {
	ds := New()
	date := time.Date(2017, 1, 2, 0, 0, 0, 0, time.UTC)
	ds.Calendar[date] = CalendarDay{Date: date, DayOfWeek: time.Monday, Holiday: true}
	ds.Stores["air_001"] = Store{ID: "air_001", Genre: "Izakaya"}

	day, ok := ds.Day(time.Date(2017, 1, 2, 18, 45, 0, 0, time.UTC))
	if !ok {
		t.Fatal("Day lookup failed for timestamp on a known date")
	}
	if !day.Holiday {
		t.Error("Expected holiday flag set")
	}

	if _, ok := ds.Day(time.Date(2017, 1, 3, 0, 0, 0, 0, time.UTC)); ok {
		t.Error("Day lookup should miss for unknown date")
	}

	s, ok := ds.StoreByID("air_001")
	if !ok || s.Genre != "Izakaya" {
		t.Errorf("StoreByID = %+v, ok=%v", s, ok)
	}
}
