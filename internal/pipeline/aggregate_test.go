package pipeline

import (
	"reflect"
	"testing"
	"time"

	"github.com/visitmetrics/visitmetrics/internal/dataset"
)

// fixture builds a small dataset: two known stores, one unknown store id in
// the facts, three calendar days (one holiday), and one record per line.
func fixture() (*dataset.Dataset, []dataset.VisitRecord) {
	ds := dataset.New()

	d1 := time.Date(2017, 1, 2, 0, 0, 0, 0, time.UTC) // Monday, holiday
	d2 := time.Date(2017, 1, 3, 0, 0, 0, 0, time.UTC) // Tuesday
	d3 := time.Date(2017, 1, 4, 0, 0, 0, 0, time.UTC) // Wednesday
	ds.Calendar[d1] = dataset.CalendarDay{Date: d1, DayOfWeek: time.Monday, Holiday: true}
	ds.Calendar[d2] = dataset.CalendarDay{Date: d2, DayOfWeek: time.Tuesday}
	ds.Calendar[d3] = dataset.CalendarDay{Date: d3, DayOfWeek: time.Wednesday}

	ds.Stores["air_a"] = dataset.Store{ID: "air_a", Genre: "Izakaya", Area: "Tokyo"}
	ds.Stores["air_b"] = dataset.Store{ID: "air_b", Genre: "Cafe", Area: "Osaka"}

	visits := []dataset.VisitRecord{
		// Two intraday rows for air_a on d1: must collapse to one daily row.
		{StoreID: "air_a", VisitTime: ts(2017, 1, 2, 18), Visitors: dataset.Int(3)},
		{StoreID: "air_a", VisitTime: ts(2017, 1, 2, 20), Visitors: dataset.Int(5)},
		{StoreID: "air_a", VisitTime: ts(2017, 1, 3, 19), Visitors: dataset.Int(4)},
		{StoreID: "air_b", VisitTime: ts(2017, 1, 2, 19), Visitors: dataset.Int(2)},
		// Store id with no dimension row: date aggregates keep it, genre drops it.
		{StoreID: "air_zz", VisitTime: ts(2017, 1, 3, 19), Visitors: dataset.Int(10)},
		// Date outside the calendar dimension: weekday/holiday keys drop it.
		{StoreID: "air_b", VisitTime: ts(2017, 2, 1, 19), Visitors: dataset.Int(7)},
	}

	cleaned, _ := Clean(visits)
	return ds, cleaned
}

func TestAggregateConservationOfTotals(t *testing.T) {
	ds, facts := fixture()

	var input int64
	for _, f := range facts {
		if f.Visitors.Valid && f.VisitDate.Valid {
			input += f.Visitors.Int64
		}
	}

	var output int64
	for _, a := range Aggregate(ds, facts, ByDate, nil) {
		output += a.Total
	}

	if input != output {
		t.Errorf("Date aggregation total = %d, want %d (conservation of totals)", output, input)
	}
}

func TestAggregateByStoreCollapsesIntraday(t *testing.T) {
	ds, facts := fixture()
	aggs := Aggregate(ds, facts, ByStore, nil)

	d1 := time.Date(2017, 1, 2, 0, 0, 0, 0, time.UTC)
	found := false
	for _, a := range aggs {
		if a.Key.Store == "air_a" && a.Date.Equal(d1) {
			found = true
			if a.Total != 8 {
				t.Errorf("air_a on 2017-01-02 total = %d, want 8 (3+5)", a.Total)
			}
		}
	}
	if !found {
		t.Fatal("missing daily row for air_a on 2017-01-02")
	}
}

func TestAggregateOuterJoinRobustness(t *testing.T) {
	ds, facts := fixture()

	// Unknown store must contribute to date-only aggregates...
	d2 := time.Date(2017, 1, 3, 0, 0, 0, 0, time.UTC)
	for _, a := range Aggregate(ds, facts, ByDate, nil) {
		if a.Date.Equal(d2) && a.Total != 14 { // 4 (air_a) + 10 (air_zz)
			t.Errorf("date total on 2017-01-03 = %d, want 14", a.Total)
		}
	}

	// ...but be absent from genre-keyed aggregates.
	for _, a := range Aggregate(ds, facts, ByGenre, nil) {
		if a.Key.Genre == "" {
			t.Errorf("genre aggregation produced an empty-genre row: %+v", a)
		}
		if a.Date.Equal(d2) && a.Key.Genre == "Izakaya" && a.Total != 4 {
			t.Errorf("Izakaya total on 2017-01-03 = %d, want 4", a.Total)
		}
	}
}

func TestAggregateUnmatchedCalendar(t *testing.T) {
	ds, facts := fixture()

	// The 2017-02-01 fact has no calendar row: date aggregation keeps it,
	// weekday aggregation excludes it.
	feb := time.Date(2017, 2, 1, 0, 0, 0, 0, time.UTC)

	var sawFebByDate bool
	for _, a := range Aggregate(ds, facts, ByDate, nil) {
		if a.Date.Equal(feb) {
			sawFebByDate = true
		}
	}
	if !sawFebByDate {
		t.Error("date aggregation dropped a fact with no calendar match")
	}

	for _, a := range Aggregate(ds, facts, ByWeekday, nil) {
		if a.Date.Equal(feb) {
			t.Error("weekday aggregation included a fact with no calendar match")
		}
	}
}

func TestAggregateHolidayFilter(t *testing.T) {
	ds, facts := fixture()
	aggs := Aggregate(ds, facts, ByStore, HolidayOnly)

	d1 := time.Date(2017, 1, 2, 0, 0, 0, 0, time.UTC)
	for _, a := range aggs {
		if !a.Date.Equal(d1) {
			t.Errorf("holiday filter kept non-holiday row: %+v", a)
		}
	}
	if len(aggs) != 2 { // air_a and air_b both visited on the holiday
		t.Errorf("holiday aggregation rows = %d, want 2", len(aggs))
	}
}

func TestAggregateSkipsMissingVisitors(t *testing.T) {
	ds := dataset.New()
	facts, _ := Clean([]dataset.VisitRecord{
		{StoreID: "air_a", VisitTime: ts(2017, 1, 2, 18), Visitors: dataset.Int(3)},
		{StoreID: "air_a", VisitTime: ts(2017, 1, 2, 20)}, // missing count
	})

	aggs := Aggregate(ds, facts, ByStore, nil)
	if len(aggs) != 1 {
		t.Fatalf("rows = %d, want 1", len(aggs))
	}
	if aggs[0].Total != 3 {
		t.Errorf("total = %d, want 3 (missing count contributes nothing)", aggs[0].Total)
	}
}

func TestAggregateIdempotent(t *testing.T) {
	ds, facts := fixture()

	first := Aggregate(ds, facts, ByGenreWeekday, nil)
	second := Aggregate(ds, facts, ByGenreWeekday, nil)
	if !reflect.DeepEqual(first, second) {
		t.Error("re-running aggregation on unchanged input produced different output")
	}
}

func TestMeanByEntity(t *testing.T) {
	d1 := time.Date(2017, 1, 2, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2017, 1, 3, 0, 0, 0, 0, time.UTC)
	aggs := []DailyAggregate{
		{Key: Key{Store: "air_a"}, Date: d1, Total: 8},
		{Key: Key{Store: "air_a"}, Date: d2, Total: 4},
		{Key: Key{Store: "air_b"}, Date: d1, Total: 2},
	}

	metrics := MeanByEntity(aggs)
	if len(metrics) != 2 {
		t.Fatalf("entities = %d, want 2", len(metrics))
	}
	if metrics[0].Key.Store != "air_a" || metrics[0].Mean != 6 || metrics[0].Days != 2 {
		t.Errorf("air_a metric = %+v, want mean 6 over 2 days", metrics[0])
	}
	if metrics[1].Key.Store != "air_b" || metrics[1].Mean != 2 || metrics[1].Days != 1 {
		t.Errorf("air_b metric = %+v, want mean 2 over 1 day", metrics[1])
	}
}
