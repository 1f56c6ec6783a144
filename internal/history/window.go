package history

import (
	"time"

	"github.com/agroclima/prediction-service/internal/station"
)

// Point is one daily observation.
type Point struct {
	Date          string  `json:"date"` // YYYY-MM-DD
	Temperature   float64 `json:"temperature_c"`
	Precipitation float64 `json:"precipitation_mm"`
	Humidity      float64 `json:"humidity_pct"`
}

// Window is a fixed span of past daily observations for a coordinate.
// Partial marks a window the provider returned shorter than requested;
// partial history is still usable context downstream.
type Window struct {
	Coordinate station.Coordinate `json:"coordinates"`
	StartDate  string             `json:"start_date"`
	EndDate    string             `json:"end_date"`
	Series     []Point            `json:"series"`
	Partial    bool               `json:"partial,omitempty"`
}

const dateLayout = "2006-01-02"

// windowRange computes the inclusive [start, end] span ending at the
// reference date and reaching windowDays into the past.
func windowRange(ref time.Time, windowDays int) (start, end time.Time) {
	end = ref
	start = ref.AddDate(0, 0, -windowDays)
	return start, end
}

// expectedPoints is the minimum daily point count for a window to be
// considered complete. Shorter series are marked partial, not rejected.
func expectedPoints(windowDays int) int {
	return windowDays
}
