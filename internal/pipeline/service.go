package pipeline

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/agroclima/prediction-service/internal/analysis"
	"github.com/agroclima/prediction-service/internal/forecast"
	"github.com/agroclima/prediction-service/internal/history"
	"github.com/agroclima/prediction-service/internal/station"
)

// HistorySource retrieves a past observation window for a coordinate.
type HistorySource interface {
	Fetch(ctx context.Context, point station.Coordinate, ref time.Time) (history.Window, error)
}

// Forecaster dispatches a fixed-horizon prediction for a station.
type Forecaster interface {
	Forecast(ctx context.Context, st station.Station, ref time.Time) (forecast.Series, error)
}

// Analyzer fans requested categories out to the reasoning service.
type Analyzer interface {
	Analyze(ctx context.Context, categories []string, actx analysis.Context) ([]analysis.Result, error)
	Configured() bool
}

// Service orchestrates the prediction pipeline: station resolution and
// historical retrieval run concurrently, the forecast waits only on the
// resolved station, and the analysis fan-out waits on both.
type Service struct {
	registry   *station.Registry
	history    HistorySource
	forecaster Forecaster
	analyzer   Analyzer
}

// NewService wires the pipeline stages together.
func NewService(registry *station.Registry, hist HistorySource, fc Forecaster, an Analyzer) *Service {
	return &Service{
		registry:   registry,
		history:    hist,
		forecaster: fc,
		analyzer:   an,
	}
}

// PredictRequest is a validated prediction query.
type PredictRequest struct {
	Date            time.Time
	Coordinate      station.Coordinate
	IncludeAnalysis bool
	AnalysisTypes   []string
}

// Predict runs the full pipeline for one request.
func (s *Service) Predict(ctx context.Context, req PredictRequest) (*PredictionResponse, error) {
	// Unknown categories are a caller error; fail before any external call.
	if req.IncludeAnalysis {
		if _, err := analysis.NormalizeCategories(req.AnalysisTypes); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type histResult struct {
		win history.Window
		err error
	}
	histCh := make(chan histResult, 1)
	go func() {
		win, err := s.history.Fetch(ctx, req.Coordinate, req.Date)
		histCh <- histResult{win: win, err: err}
	}()

	nearest, ranked, err := s.registry.Nearest(req.Coordinate)
	if err != nil {
		return nil, err
	}
	log.Printf("INFO: using model of station %s (%.2f km away)", nearest.ID,
		station.HaversineKM(req.Coordinate, nearest.Coordinate))

	series, err := s.forecaster.Forecast(ctx, nearest, req.Date)
	if err != nil {
		return nil, err
	}

	hist := <-histCh
	if hist.err != nil {
		// Missing core history undermines the result; fail closed.
		return nil, hist.err
	}

	stats := forecast.Summarize(series)

	var results []analysis.Result
	if req.IncludeAnalysis {
		results, err = s.analyzer.Analyze(ctx, req.AnalysisTypes, analysis.Context{
			Coordinate:    req.Coordinate,
			ReferenceDate: req.Date,
			StationID:     nearest.ID,
			Forecast:      stats,
			History:       &hist.win,
		})
		if err != nil {
			return nil, err
		}
	}

	return assemble(req, nearest, ranked, series, stats, hist.win, results), nil
}

// History retrieves the historical window for a coordinate and date.
func (s *Service) History(ctx context.Context, point station.Coordinate, ref time.Time) (history.Window, error) {
	return s.history.Fetch(ctx, point, ref)
}

// NearestStation resolves the closest station with an available model.
func (s *Service) NearestStation(point station.Coordinate) (station.Station, []station.DistanceEntry, error) {
	return s.registry.Nearest(point)
}

// Stations returns the registry contents with a load summary.
func (s *Service) Stations() StationsSummary {
	stations := s.registry.Stations()

	summary := StationsSummary{
		Stations:      stations,
		TotalStations: len(stations),
	}
	for _, st := range stations {
		if st.ModelAvailable {
			summary.AvailableStations = append(summary.AvailableStations, st.ID)
		} else {
			summary.FailedStations = append(summary.FailedStations, st.ID)
		}
	}
	summary.LoadedStations = len(summary.AvailableStations)
	return summary
}

// AnalysisOptions lists the analysis categories and whether the
// reasoning service is configured.
func (s *Service) AnalysisOptions() AnalysisOptions {
	return AnalysisOptions{
		Options:            analysis.Options(),
		AnalyzerConfigured: s.analyzer.Configured(),
	}
}

func newRequestID() string {
	return uuid.NewString()
}
