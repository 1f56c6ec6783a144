package station

import (
	"errors"
	"sort"
)

// ErrNoAvailableStation is returned when no registered station has a loaded model.
var ErrNoAvailableStation = errors.New("no station with an available model")

// Registry is the immutable set of known stations. It is built once at
// startup and shared read-only across requests.
type Registry struct {
	stations []Station
	byID     map[string]Station
}

// NewRegistry creates a Registry from the given stations. The input slice
// is copied; stations are kept sorted by id.
func NewRegistry(stations []Station) *Registry {
	list := make([]Station, len(stations))
	copy(list, stations)
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	byID := make(map[string]Station, len(list))
	for _, s := range list {
		byID[s.ID] = s
	}

	return &Registry{stations: list, byID: byID}
}

// Stations returns a copy of all registered stations, ordered by id.
func (r *Registry) Stations() []Station {
	out := make([]Station, len(r.stations))
	copy(out, r.stations)
	return out
}

// Get looks up a station by id.
func (r *Registry) Get(id string) (Station, bool) {
	s, ok := r.byID[id]
	return s, ok
}

// Available returns the ids of stations with a loaded model, ordered by id.
func (r *Registry) Available() []string {
	var ids []string
	for _, s := range r.stations {
		if s.ModelAvailable {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// Nearest resolves the closest station with an available model to the
// given point. The ranked table covers every registered station in
// ascending distance order, so closer-but-unavailable stations remain
// visible to callers. Distance ties break on the lexically smaller id.
func (r *Registry) Nearest(point Coordinate) (Station, []DistanceEntry, error) {
	ranked := make([]DistanceEntry, 0, len(r.stations))
	for _, s := range r.stations {
		ranked = append(ranked, DistanceEntry{
			StationID:  s.ID,
			DistanceKM: HaversineKM(point, s.Coordinate),
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].DistanceKM == ranked[j].DistanceKM {
			return ranked[i].StationID < ranked[j].StationID
		}
		return ranked[i].DistanceKM < ranked[j].DistanceKM
	})

	for _, e := range ranked {
		s := r.byID[e.StationID]
		if s.ModelAvailable {
			return s, ranked, nil
		}
	}

	return Station{}, ranked, ErrNoAvailableStation
}
