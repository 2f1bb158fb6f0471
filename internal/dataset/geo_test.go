package dataset

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	// Tokyo station to Shinjuku station, roughly 6.3km
	d := Distance(35.6812, 139.7671, 35.6896, 139.7006)
	if d < 5500 || d > 7000 {
		t.Errorf("Distance Tokyo-Shinjuku = %f m, expected roughly 6.3km", d)
	}

	// Same point
	if d := Distance(35.0, 139.0, 35.0, 139.0); math.Abs(d) > 0.001 {
		t.Errorf("Distance to self = %f, want 0", d)
	}
}

func TestNearby(t *testing.T) {
	ds := New()
	ds.Stores["air_b"] = Store{ID: "air_b", Latitude: 35.6812, Longitude: 139.7671}
	ds.Stores["air_a"] = Store{ID: "air_a", Latitude: 35.6813, Longitude: 139.7672}
	ds.Stores["air_far"] = Store{ID: "air_far", Latitude: 43.0642, Longitude: 141.3469} // Sapporo

	got := ds.Nearby(35.6812, 139.7671, 5000)
	if len(got) != 2 {
		t.Fatalf("Nearby returned %d stores, want 2", len(got))
	}
	// Sorted by ID for determinism
	if got[0].ID != "air_a" || got[1].ID != "air_b" {
		t.Errorf("Nearby order = [%s, %s], want [air_a, air_b]", got[0].ID, got[1].ID)
	}
}
