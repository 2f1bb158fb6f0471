package pipeline

import (
	"testing"
	"time"

	"github.com/visitmetrics/visitmetrics/internal/dataset"
)

func ts(y int, m time.Month, d, hh int) dataset.NullTime {
	return dataset.Timestamp(time.Date(y, m, d, hh, 0, 0, 0, time.UTC))
}

func TestCleanDerivesVisitDate(t *testing.T) {
	visits := []dataset.VisitRecord{
		{StoreID: "air_a", VisitTime: ts(2017, 1, 2, 19), ReserveTime: ts(2017, 1, 1, 12), Visitors: dataset.Int(4)},
		{StoreID: "air_b", VisitTime: ts(2017, 1, 2, 23), ReserveTime: ts(2017, 1, 2, 9), Visitors: dataset.Int(2)},
	}

	cleaned, q := Clean(visits)
	if len(cleaned) != 2 {
		t.Fatalf("Clean returned %d rows, want 2", len(cleaned))
	}
	if q.Dirty() {
		t.Errorf("Quality report unexpectedly dirty: %+v", q)
	}

	want := time.Date(2017, 1, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range cleaned {
		if !c.VisitDate.Valid {
			t.Fatalf("row %d: VisitDate not derived", i)
		}
		if !c.VisitDate.Time.Equal(want) {
			t.Errorf("row %d: VisitDate = %v, want %v", i, c.VisitDate.Time, want)
		}
	}
}

func TestCleanKeepsRowsWithMissingTimestamp(t *testing.T) {
	visits := []dataset.VisitRecord{
		{StoreID: "air_a", VisitTime: ts(2017, 1, 2, 19), ReserveTime: ts(2017, 1, 1, 12), Visitors: dataset.Int(4)},
		{StoreID: "air_b", Visitors: dataset.Int(2)}, // no timestamps at all
	}

	cleaned, q := Clean(visits)
	if len(cleaned) != 2 {
		t.Fatalf("Clean dropped rows: got %d, want 2", len(cleaned))
	}
	if cleaned[1].VisitDate.Valid {
		t.Error("VisitDate should stay invalid when VisitTime is missing")
	}
	if q.MissingVisitTime != 1 {
		t.Errorf("MissingVisitTime = %d, want 1", q.MissingVisitTime)
	}
	if q.MissingReserveTime != 1 {
		t.Errorf("MissingReserveTime = %d, want 1", q.MissingReserveTime)
	}
	if !q.Dirty() {
		t.Error("Quality report should be dirty")
	}
}

func TestCleanDoesNotMutateInput(t *testing.T) {
	visits := []dataset.VisitRecord{
		{StoreID: "air_a", VisitTime: ts(2017, 1, 2, 19), Visitors: dataset.Int(4)},
	}

	_, _ = Clean(visits)
	if visits[0].VisitDate.Valid {
		t.Error("Clean mutated its input slice")
	}
}

func TestValidateCounts(t *testing.T) {
	visits := []dataset.VisitRecord{
		{StoreID: "air_a", VisitTime: ts(2017, 1, 2, 19), ReserveTime: ts(2017, 1, 1, 12), Visitors: dataset.Int(4)},
		{VisitTime: ts(2017, 1, 3, 19), ReserveTime: ts(2017, 1, 2, 12), Visitors: dataset.Int(1)},
		{StoreID: "air_c", ReserveTime: ts(2017, 1, 2, 12)},
	}

	q := Validate(visits)
	if q.Rows != 3 {
		t.Errorf("Rows = %d, want 3", q.Rows)
	}
	if q.MissingStoreID != 1 {
		t.Errorf("MissingStoreID = %d, want 1", q.MissingStoreID)
	}
	if q.MissingVisitTime != 1 {
		t.Errorf("MissingVisitTime = %d, want 1", q.MissingVisitTime)
	}
	if q.MissingVisitors != 1 {
		t.Errorf("MissingVisitors = %d, want 1", q.MissingVisitors)
	}
	if q.MissingReserveTime != 0 {
		t.Errorf("MissingReserveTime = %d, want 0", q.MissingReserveTime)
	}
}
