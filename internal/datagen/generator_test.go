package datagen

import (
	"reflect"
	"testing"
	"time"
)

func TestGenerateShape(t *testing.T) {
	g := NewGenerator(42)
	ds := g.Generate(Config{Stores: 10, Days: 14})

	if len(ds.Stores) != 10 {
		t.Errorf("stores = %d, want 10", len(ds.Stores))
	}
	if len(ds.Calendar) != 14 {
		t.Errorf("calendar days = %d, want 14", len(ds.Calendar))
	}
	if len(ds.Visits) == 0 {
		t.Fatal("no visits generated")
	}

	start := time.Date(2017, 1, 2, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 14)
	for _, v := range ds.Visits {
		if v.StoreID == "" {
			t.Fatal("generated visit without store id")
		}
		if _, ok := ds.Stores[v.StoreID]; !ok {
			t.Fatalf("visit references unknown store %s", v.StoreID)
		}
		if !v.VisitTime.Valid || !v.ReserveTime.Valid || !v.Visitors.Valid {
			t.Fatalf("generated visit with missing fields: %+v", v)
		}
		if v.VisitTime.Time.Before(start) || !v.VisitTime.Time.Before(end) {
			t.Fatalf("visit time %v outside generated calendar", v.VisitTime.Time)
		}
		if !v.ReserveTime.Time.Before(v.VisitTime.Time) {
			t.Fatalf("reservation %v not before visit %v", v.ReserveTime.Time, v.VisitTime.Time)
		}
		if v.Visitors.Int64 < 1 || v.Visitors.Int64 > 8 {
			t.Fatalf("visitor count %d out of range", v.Visitors.Int64)
		}
	}

	for _, s := range ds.Stores {
		if s.Genre == "" || s.Area == "" {
			t.Fatalf("store with missing dimension values: %+v", s)
		}
		if s.Latitude == 0 || s.Longitude == 0 {
			t.Fatalf("store without coordinates: %+v", s)
		}
	}
}

func TestGenerateDeterministicUnderSeed(t *testing.T) {
	a := NewGenerator(7).Generate(Config{Stores: 5, Days: 7})
	b := NewGenerator(7).Generate(Config{Stores: 5, Days: 7})

	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different datasets")
	}

	c := NewGenerator(8).Generate(Config{Stores: 5, Days: 7})
	if reflect.DeepEqual(a.Visits, c.Visits) {
		t.Error("different seeds produced identical visit records")
	}
}

func TestGenerateCustomStart(t *testing.T) {
	start := time.Date(2016, 7, 1, 0, 0, 0, 0, time.UTC)
	ds := NewGenerator(1).Generate(Config{Stores: 2, Days: 3, Start: start})

	for i := 0; i < 3; i++ {
		date := start.AddDate(0, 0, i)
		day, ok := ds.Calendar[date]
		if !ok {
			t.Fatalf("missing calendar day %v", date)
		}
		if day.DayOfWeek != date.Weekday() {
			t.Errorf("day of week for %v = %v, want %v", date, day.DayOfWeek, date.Weekday())
		}
	}
}

func TestChooseWeighted(t *testing.T) {
	f := NewFakerWithSeed(1)
	items := []string{"a", "b"}

	// All weight on one item: always chosen.
	for i := 0; i < 50; i++ {
		if got := ChooseWeighted(f, items, []int{1, 0}); got != "a" {
			t.Fatalf("ChooseWeighted returned %q with zero weight", got)
		}
	}

	if got := ChooseWeighted[string](f, nil, nil); got != "" {
		t.Errorf("ChooseWeighted on empty input = %q, want zero value", got)
	}
}
