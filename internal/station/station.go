package station

import "math"

// Kind classifies what a station measures.
type Kind string

const (
	KindMeteorological Kind = "meteorological"
	KindPluviometric   Kind = "pluviometric"
)

// Coordinate is a geographic point. Latitude and longitude are in
// decimal degrees; validity is checked once at ingress.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinate is within geographic bounds.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// Station is a fixed measurement point with an optional predictive model.
// Stations are created once at startup and never mutated.
type Station struct {
	ID             string     `json:"id"`
	Coordinate     Coordinate `json:"coordinates"`
	Kind           Kind       `json:"kind"`
	ModelAvailable bool       `json:"model_available"`
}

// DistanceEntry pairs a station with its distance from a query point.
type DistanceEntry struct {
	StationID  string  `json:"station_id"`
	DistanceKM float64 `json:"distance_km"`
}

const earthRadiusKM = 6371

// HaversineKM returns the great-circle distance between two points in kilometers.
func HaversineKM(a, b Coordinate) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return earthRadiusKM * 2 * math.Asin(math.Sqrt(h))
}
