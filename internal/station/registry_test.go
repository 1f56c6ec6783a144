package station

import (
	"errors"
	"math"
	"sort"
	"testing"
)

func testStations() []Station {
	return []Station{
		{ID: "M5023", Coordinate: Coordinate{Latitude: -0.3798, Longitude: -78.1959}, Kind: KindMeteorological, ModelAvailable: true},
		{ID: "M5025", Coordinate: Coordinate{Latitude: -0.3337, Longitude: -78.1985}, Kind: KindMeteorological, ModelAvailable: true},
		{ID: "P34", Coordinate: Coordinate{Latitude: -0.3809, Longitude: -78.1411}, Kind: KindPluviometric, ModelAvailable: true},
		{ID: "P63", Coordinate: Coordinate{Latitude: -0.3206, Longitude: -78.1917}, Kind: KindPluviometric, ModelAvailable: true},
	}
}

func TestNearestReturnsMinimumDistance(t *testing.T) {
	reg := NewRegistry(testStations())
	point := Coordinate{Latitude: -0.38, Longitude: -78.19}

	nearest, ranked, err := reg.Nearest(point)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ranked) != 4 {
		t.Fatalf("expected 4 ranked entries, got %d", len(ranked))
	}

	if !sort.SliceIsSorted(ranked, func(i, j int) bool {
		return ranked[i].DistanceKM < ranked[j].DistanceKM
	}) {
		t.Fatalf("ranked table is not sorted ascending: %v", ranked)
	}

	// The nearest station's distance must not exceed any other entry's.
	for _, e := range ranked {
		if HaversineKM(point, nearest.Coordinate) > e.DistanceKM+1e-9 {
			t.Fatalf("station %s is closer than selected %s", e.StationID, nearest.ID)
		}
	}
}

func TestNearestSkipsUnavailableButKeepsRanked(t *testing.T) {
	stations := testStations()
	// M5023 is the closest to the query point; disable its model.
	stations[0].ModelAvailable = false
	reg := NewRegistry(stations)

	point := Coordinate{Latitude: -0.3798, Longitude: -78.1959}
	nearest, ranked, err := reg.Nearest(point)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if nearest.ID == "M5023" {
		t.Fatalf("selected a station without an available model")
	}
	if ranked[0].StationID != "M5023" {
		t.Fatalf("unavailable closer station missing from head of ranked table, got %s", ranked[0].StationID)
	}
}

func TestNearestTieBreaksOnLexicalID(t *testing.T) {
	// Two stations symmetric about the equator are equidistant from (0, 0).
	stations := []Station{
		{ID: "ZZ9", Coordinate: Coordinate{Latitude: 1, Longitude: 0}, ModelAvailable: true},
		{ID: "AA1", Coordinate: Coordinate{Latitude: -1, Longitude: 0}, ModelAvailable: true},
	}
	reg := NewRegistry(stations)

	for range 10 {
		nearest, _, err := reg.Nearest(Coordinate{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if nearest.ID != "AA1" {
			t.Fatalf("tie-break not deterministic: got %s, want AA1", nearest.ID)
		}
	}
}

func TestNearestNoAvailableStation(t *testing.T) {
	stations := testStations()
	for i := range stations {
		stations[i].ModelAvailable = false
	}
	reg := NewRegistry(stations)

	_, ranked, err := reg.Nearest(Coordinate{Latitude: -0.38, Longitude: -78.19})
	if !errors.Is(err, ErrNoAvailableStation) {
		t.Fatalf("expected ErrNoAvailableStation, got %v", err)
	}
	if len(ranked) != 4 {
		t.Fatalf("ranked table should still cover all stations, got %d entries", len(ranked))
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// Quito to Guayaquil is roughly 270 km.
	quito := Coordinate{Latitude: -0.1807, Longitude: -78.4678}
	guayaquil := Coordinate{Latitude: -2.1709, Longitude: -79.9224}

	d := HaversineKM(quito, guayaquil)
	if math.Abs(d-271) > 10 {
		t.Fatalf("unexpected distance: %f km", d)
	}

	if HaversineKM(quito, quito) != 0 {
		t.Fatalf("distance to self should be zero")
	}
}
