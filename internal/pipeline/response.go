package pipeline

import (
	"time"

	"github.com/agroclima/prediction-service/internal/analysis"
	"github.com/agroclima/prediction-service/internal/forecast"
	"github.com/agroclima/prediction-service/internal/history"
	"github.com/agroclima/prediction-service/internal/station"
)

// PredictionResponse is the unified result of one pipeline run.
// Assembled once, read-only afterward.
type PredictionResponse struct {
	RequestID        string                  `json:"request_id"`
	RequestedDate    string                  `json:"requested_date"`
	InputCoordinate  station.Coordinate      `json:"input_coordinates"`
	Station          station.Station         `json:"station"`
	DistanceKM       float64                 `json:"distance_to_station_km"`
	RankedStations   []station.DistanceEntry `json:"ranked_stations"`
	Forecast         forecast.Series         `json:"forecast"`
	ForecastStats    forecast.Stats          `json:"forecast_stats"`
	History          history.Window          `json:"historical_data"`
	Analysis         []analysis.Result       `json:"analysis"`
	AnalysisIncluded bool                    `json:"analysis_included"`
	GeneratedAt      time.Time               `json:"generated_at"`
}

// StationsSummary reports registry contents and model load state.
type StationsSummary struct {
	Stations          []station.Station `json:"stations"`
	TotalStations     int               `json:"total_stations"`
	LoadedStations    int               `json:"loaded_stations"`
	AvailableStations []string          `json:"available_stations"`
	FailedStations    []string          `json:"failed_stations,omitempty"`
}

// AnalysisOptions lists categories plus analyzer availability.
type AnalysisOptions struct {
	Options            []analysis.Option `json:"options"`
	AnalyzerConfigured bool              `json:"analyzer_configured"`
}

// assemble is a pure merge of the pipeline stage outputs. Skipped
// stages produce empty sections, never errors.
func assemble(
	req PredictRequest,
	nearest station.Station,
	ranked []station.DistanceEntry,
	series forecast.Series,
	stats forecast.Stats,
	win history.Window,
	results []analysis.Result,
) *PredictionResponse {
	var distance float64
	for _, e := range ranked {
		if e.StationID == nearest.ID {
			distance = e.DistanceKM
			break
		}
	}

	if results == nil {
		results = []analysis.Result{}
	}

	return &PredictionResponse{
		RequestID:        newRequestID(),
		RequestedDate:    req.Date.Format("2006-01-02"),
		InputCoordinate:  req.Coordinate,
		Station:          nearest,
		DistanceKM:       distance,
		RankedStations:   ranked,
		Forecast:         series,
		ForecastStats:    stats,
		History:          win,
		Analysis:         results,
		AnalysisIncluded: req.IncludeAnalysis && len(results) > 0,
		GeneratedAt:      time.Now().UTC(),
	}
}
