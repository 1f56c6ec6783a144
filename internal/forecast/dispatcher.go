package forecast

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/agroclima/prediction-service/internal/station"
)

var (
	// ErrModelUnavailable is returned when no predictor is loaded for
	// the resolved station.
	ErrModelUnavailable = errors.New("model not available for station")

	// ErrInference is returned when a predictor fails or produces a
	// malformed series. Inference is deterministic for given inputs,
	// so no retry is attempted.
	ErrInference = errors.New("model inference failed")
)

// Sanity bounds for predicted temperature.
const (
	minPlausibleTemp = -50
	maxPlausibleTemp = 60
)

// Predictor is the capability bound to a single station: a stateless
// function from a reference date to a fixed-length time series. Model
// loading is a process-lifecycle concern, not a per-request one.
type Predictor interface {
	Predict(ctx context.Context, ref time.Time) ([]Point, error)
}

// Dispatcher routes forecast requests to the predictor loaded for each
// station. The predictor set is populated once at startup.
type Dispatcher struct {
	horizonHours int
	predictors   map[string]Predictor
}

// NewDispatcher validates the horizon and builds a Dispatcher over the
// given station-id to predictor mapping.
func NewDispatcher(horizonHours int, predictors map[string]Predictor) (*Dispatcher, error) {
	if horizonHours <= 0 {
		return nil, fmt.Errorf("horizon must be positive, got %d", horizonHours)
	}
	m := make(map[string]Predictor, len(predictors))
	for id, p := range predictors {
		m[id] = p
	}
	return &Dispatcher{horizonHours: horizonHours, predictors: m}, nil
}

// HorizonHours returns the configured forecast horizon.
func (d *Dispatcher) HorizonHours() int {
	return d.horizonHours
}

// Loaded reports whether a predictor is loaded for the station id.
func (d *Dispatcher) Loaded(stationID string) bool {
	_, ok := d.predictors[stationID]
	return ok
}

// Forecast invokes the station's predictor over the fixed horizon and
// validates the output. Malformed numeric output (NaN, infinities,
// implausible temperatures) is rejected, never passed downstream.
func (d *Dispatcher) Forecast(ctx context.Context, st station.Station, ref time.Time) (Series, error) {
	p, ok := d.predictors[st.ID]
	if !ok {
		return Series{}, fmt.Errorf("%w: %s", ErrModelUnavailable, st.ID)
	}

	points, err := p.Predict(ctx, ref)
	if err != nil {
		return Series{}, fmt.Errorf("%w: station %s: %v", ErrInference, st.ID, err)
	}

	if len(points) != d.horizonHours {
		return Series{}, fmt.Errorf("%w: station %s: expected %d points, got %d",
			ErrInference, st.ID, d.horizonHours, len(points))
	}

	for i, pt := range points {
		for name, v := range pt.Variables {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return Series{}, fmt.Errorf("%w: station %s: non-finite %s at point %d",
					ErrInference, st.ID, name, i)
			}
		}
		if t, ok := pt.Variables[VarTemperature]; ok && (t < minPlausibleTemp || t > maxPlausibleTemp) {
			return Series{}, fmt.Errorf("%w: station %s: temperature %.1f out of plausible range at point %d",
				ErrInference, st.ID, t, i)
		}
	}

	return Series{
		StationID:    st.ID,
		HorizonHours: d.horizonHours,
		Points:       points,
	}, nil
}
