package source

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/visitmetrics/visitmetrics/internal/dataset"
)

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()

	ds := dataset.New()
	monday := time.Date(2017, 1, 2, 0, 0, 0, 0, time.UTC)
	tuesday := time.Date(2017, 1, 3, 0, 0, 0, 0, time.UTC)
	ds.Calendar[monday] = dataset.CalendarDay{Date: monday, DayOfWeek: time.Monday, Holiday: true}
	ds.Calendar[tuesday] = dataset.CalendarDay{Date: tuesday, DayOfWeek: time.Tuesday}
	ds.Stores["air_a"] = dataset.Store{ID: "air_a", Genre: "Izakaya", Area: "Tokyo", Latitude: 35.6812, Longitude: 139.7671}
	ds.Visits = []dataset.VisitRecord{
		{
			StoreID:     "air_a",
			VisitTime:   dataset.Timestamp(time.Date(2017, 1, 2, 19, 0, 0, 0, time.UTC)),
			ReserveTime: dataset.Timestamp(time.Date(2017, 1, 1, 12, 0, 0, 0, time.UTC)),
			Visitors:    dataset.Int(4),
		},
		// Missing fields must survive the round trip as missing.
		{StoreID: "air_a", Visitors: dataset.Int(2)},
		{VisitTime: dataset.Timestamp(time.Date(2017, 1, 3, 20, 0, 0, 0, time.UTC))},
	}

	s := &SQLite{Path: filepath.Join(t.TempDir(), "visits.db")}
	if err := s.Write(ctx, ds); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !reflect.DeepEqual(got.Visits, ds.Visits) {
		t.Errorf("visits changed across round trip:\n got %+v\nwant %+v", got.Visits, ds.Visits)
	}
	if !reflect.DeepEqual(got.Calendar, ds.Calendar) {
		t.Errorf("calendar changed across round trip:\n got %+v\nwant %+v", got.Calendar, ds.Calendar)
	}
	if !reflect.DeepEqual(got.Stores, ds.Stores) {
		t.Errorf("stores changed across round trip:\n got %+v\nwant %+v", got.Stores, ds.Stores)
	}
}

func TestSQLiteLoadMissingTables(t *testing.T) {
	s := &SQLite{Path: filepath.Join(t.TempDir(), "empty.db")}
	if _, err := s.Load(context.Background()); err == nil {
		t.Error("Load should fail when tables are absent")
	}
}
