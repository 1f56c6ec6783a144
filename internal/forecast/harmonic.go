package forecast

import (
	"context"
	"hash/fnv"
	"math"
	"time"
)

// HarmonicPredictor is the built-in station model: a deterministic
// climatology approximation composed of daily and annual harmonics with
// station-specific offsets derived from the station id. Identical
// inputs always produce identical output, which keeps Predict calls
// idempotent.
type HarmonicPredictor struct {
	stationID    string
	horizonHours int

	baseTemp   float64
	baseHum    float64
	rainFactor float64
}

// NewHarmonicPredictor builds a predictor for the given station id and
// horizon. The station hash perturbs the climatology so co-located
// stations still produce distinguishable series.
func NewHarmonicPredictor(stationID string, horizonHours int) *HarmonicPredictor {
	h := fnv.New32a()
	h.Write([]byte(stationID))
	seed := float64(h.Sum32()%1000) / 1000

	return &HarmonicPredictor{
		stationID:    stationID,
		horizonHours: horizonHours,
		baseTemp:     13.5 + 3*seed,
		baseHum:      72 + 12*seed,
		rainFactor:   0.8 + 1.4*seed,
	}
}

// Predict produces the fixed-length hourly series starting the hour
// after the reference date.
func (p *HarmonicPredictor) Predict(_ context.Context, ref time.Time) ([]Point, error) {
	start := ref.Truncate(time.Hour).Add(time.Hour)
	points := make([]Point, 0, p.horizonHours)

	for h := 0; h < p.horizonHours; h++ {
		ts := start.Add(time.Duration(h) * time.Hour)

		hourOfDay := float64(ts.Hour())
		dayOfYear := float64(ts.YearDay())

		// Diurnal cycle peaking mid-afternoon, annual cycle peaking in
		// the wet season.
		diurnal := math.Sin((hourOfDay - 9) / 24 * 2 * math.Pi)
		annual := math.Sin((dayOfYear - 80) / 365 * 2 * math.Pi)

		temp := p.baseTemp + 4.5*diurnal + 1.5*annual
		hum := p.baseHum - 10*diurnal + 4*annual
		if hum > 100 {
			hum = 100
		}
		if hum < 0 {
			hum = 0
		}

		rain := p.rainFactor * (0.5 + 0.5*annual) * math.Max(0, -diurnal)

		points = append(points, Point{
			Timestamp: ts,
			Variables: map[string]float64{
				VarPrecipitation: rain,
				VarTemperature:   temp,
				VarHumidity:      hum,
			},
		})
	}

	return points, nil
}
