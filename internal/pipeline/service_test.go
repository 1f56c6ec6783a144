package pipeline

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroclima/prediction-service/internal/analysis"
	"github.com/agroclima/prediction-service/internal/forecast"
	"github.com/agroclima/prediction-service/internal/history"
	"github.com/agroclima/prediction-service/internal/station"
)

type fakeHistory struct {
	calls int32
	win   history.Window
	err   error
}

func (f *fakeHistory) Fetch(_ context.Context, point station.Coordinate, _ time.Time) (history.Window, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return history.Window{}, f.err
	}
	win := f.win
	win.Coordinate = point
	return win, nil
}

type fakeForecaster struct {
	calls int32
	err   error
}

func (f *fakeForecaster) Forecast(_ context.Context, st station.Station, ref time.Time) (forecast.Series, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return forecast.Series{}, f.err
	}
	pts := make([]forecast.Point, 24)
	for i := range pts {
		pts[i] = forecast.Point{
			Timestamp: ref.Add(time.Duration(i+1) * time.Hour),
			Variables: map[string]float64{
				forecast.VarPrecipitation: 1.5,
				forecast.VarTemperature:   14,
				forecast.VarHumidity:      78,
			},
		}
	}
	return forecast.Series{StationID: st.ID, HorizonHours: 24, Points: pts}, nil
}

type fakeAnalyzer struct {
	calls      int32
	configured bool
	failFor    map[analysis.Category]string
}

func (f *fakeAnalyzer) Analyze(_ context.Context, raw []string, _ analysis.Context) ([]analysis.Result, error) {
	atomic.AddInt32(&f.calls, 1)
	cats, err := analysis.NormalizeCategories(raw)
	if err != nil {
		return nil, err
	}
	results := make([]analysis.Result, len(cats))
	for i, c := range cats {
		if reason, ok := f.failFor[c]; ok {
			results[i] = analysis.Result{Category: c, Status: analysis.StatusFailed, ErrorReason: reason}
			continue
		}
		results[i] = analysis.Result{Category: c, Status: analysis.StatusOK, Text: "ok"}
	}
	return results, nil
}

func (f *fakeAnalyzer) Configured() bool { return f.configured }

func testWindow() history.Window {
	series := make([]history.Point, 31)
	for i := range series {
		series[i] = history.Point{Date: "2024-05-02", Temperature: 14, Precipitation: 2, Humidity: 80}
	}
	return history.Window{StartDate: "2024-05-02", EndDate: "2024-06-01", Series: series}
}

func testService(hist *fakeHistory, fc *fakeForecaster, an Analyzer) *Service {
	reg := station.NewRegistry([]station.Station{
		{ID: "M5023", Coordinate: station.Coordinate{Latitude: -0.3798, Longitude: -78.1959}, ModelAvailable: true},
		{ID: "P63", Coordinate: station.Coordinate{Latitude: -0.3206, Longitude: -78.1917}, ModelAvailable: true},
	})
	return NewService(reg, hist, fc, an)
}

func testRequest() PredictRequest {
	return PredictRequest{
		Date:            time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Coordinate:      station.Coordinate{Latitude: -0.38, Longitude: -78.19},
		IncludeAnalysis: true,
		AnalysisTypes:   []string{"general", "riego"},
	}
}

func TestPredictFullPipeline(t *testing.T) {
	hist := &fakeHistory{win: testWindow()}
	fc := &fakeForecaster{}
	an := &fakeAnalyzer{configured: true}
	svc := testService(hist, fc, an)

	resp, err := svc.Predict(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, "M5023", resp.Station.ID)
	assert.Len(t, resp.RankedStations, 2)
	assert.NotEmpty(t, resp.RequestID)
	assert.Equal(t, "2024-06-01", resp.RequestedDate)
	assert.Len(t, resp.Forecast.Points, 24)
	assert.Equal(t, 24, resp.ForecastStats.TotalPoints)
	assert.Len(t, resp.History.Series, 31)
	assert.True(t, resp.AnalysisIncluded)
	require.Len(t, resp.Analysis, 2)
	assert.Equal(t, analysis.CategoryGeneral, resp.Analysis[0].Category)
	assert.Equal(t, analysis.CategoryRiego, resp.Analysis[1].Category)
}

func TestPredictIdempotentStationSelection(t *testing.T) {
	hist := &fakeHistory{win: testWindow()}
	fc := &fakeForecaster{}
	svc := testService(hist, fc, &fakeAnalyzer{configured: true})

	a, err := svc.Predict(context.Background(), testRequest())
	require.NoError(t, err)
	b, err := svc.Predict(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, a.Station.ID, b.Station.ID)
	assert.Equal(t, a.Forecast.Points, b.Forecast.Points)
	assert.Equal(t, a.RankedStations, b.RankedStations)
}

func TestPredictUnknownCategoryBeforeExternalCalls(t *testing.T) {
	hist := &fakeHistory{win: testWindow()}
	fc := &fakeForecaster{}
	an := &fakeAnalyzer{configured: true}
	svc := testService(hist, fc, an)

	req := testRequest()
	req.AnalysisTypes = []string{"general", "bogus"}

	_, err := svc.Predict(context.Background(), req)
	require.ErrorIs(t, err, analysis.ErrUnknownCategory)

	assert.Zero(t, atomic.LoadInt32(&hist.calls))
	assert.Zero(t, atomic.LoadInt32(&fc.calls))
	assert.Zero(t, atomic.LoadInt32(&an.calls))
}

func TestPredictHistoryFailureAbortsRequest(t *testing.T) {
	hist := &fakeHistory{err: history.ErrUnavailable}
	svc := testService(hist, &fakeForecaster{}, &fakeAnalyzer{configured: true})

	_, err := svc.Predict(context.Background(), testRequest())
	require.ErrorIs(t, err, history.ErrUnavailable)
}

func TestPredictForecastFailureAbortsRequest(t *testing.T) {
	fc := &fakeForecaster{err: forecast.ErrInference}
	an := &fakeAnalyzer{configured: true}
	svc := testService(&fakeHistory{win: testWindow()}, fc, an)

	_, err := svc.Predict(context.Background(), testRequest())
	require.ErrorIs(t, err, forecast.ErrInference)
	assert.Zero(t, atomic.LoadInt32(&an.calls), "analysis must not run without a forecast")
}

func TestPredictNoAvailableStation(t *testing.T) {
	reg := station.NewRegistry([]station.Station{
		{ID: "M5023", ModelAvailable: false},
	})
	svc := NewService(reg, &fakeHistory{win: testWindow()}, &fakeForecaster{}, &fakeAnalyzer{})

	_, err := svc.Predict(context.Background(), testRequest())
	require.ErrorIs(t, err, station.ErrNoAvailableStation)
}

func TestPredictAnalysisFailuresDoNotAbort(t *testing.T) {
	an := &fakeAnalyzer{
		configured: true,
		failFor:    map[analysis.Category]string{analysis.CategoryRiego: "provider timeout"},
	}
	svc := testService(&fakeHistory{win: testWindow()}, &fakeForecaster{}, an)

	req := testRequest()
	req.AnalysisTypes = []string{"general", "cultivos", "riego"}

	resp, err := svc.Predict(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Analysis, 3)
	assert.Equal(t, analysis.StatusOK, resp.Analysis[0].Status)
	assert.Equal(t, analysis.StatusOK, resp.Analysis[1].Status)
	assert.Equal(t, analysis.StatusFailed, resp.Analysis[2].Status)
}

func TestPredictWithoutAnalysis(t *testing.T) {
	an := &fakeAnalyzer{configured: true}
	svc := testService(&fakeHistory{win: testWindow()}, &fakeForecaster{}, an)

	req := testRequest()
	req.IncludeAnalysis = false

	resp, err := svc.Predict(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, resp.Analysis)
	assert.False(t, resp.AnalysisIncluded)
	assert.Zero(t, atomic.LoadInt32(&an.calls))
	assert.Len(t, resp.Forecast.Points, 24)
}

func TestStationsSummary(t *testing.T) {
	reg := station.NewRegistry([]station.Station{
		{ID: "M5023", ModelAvailable: true},
		{ID: "P34", ModelAvailable: false},
	})
	svc := NewService(reg, &fakeHistory{}, &fakeForecaster{}, &fakeAnalyzer{})

	sum := svc.Stations()
	assert.Equal(t, 2, sum.TotalStations)
	assert.Equal(t, 1, sum.LoadedStations)
	assert.Equal(t, []string{"M5023"}, sum.AvailableStations)
	assert.Equal(t, []string{"P34"}, sum.FailedStations)
}

func TestAnalysisOptionsListing(t *testing.T) {
	svc := testService(&fakeHistory{}, &fakeForecaster{}, &fakeAnalyzer{configured: false})

	opts := svc.AnalysisOptions()
	assert.False(t, opts.AnalyzerConfigured)
	assert.Len(t, opts.Options, 7)
	assert.Equal(t, analysis.CategoryGeneral, opts.Options[0].Category)
}

func TestPredictUnconfiguredAnalyzerDegradedMode(t *testing.T) {
	// Real orchestrator with no generator: categories come back failed
	// with service_unconfigured while forecast data stays intact.
	orch := analysis.NewOrchestrator(nil, 3, time.Second)
	svc := testService(&fakeHistory{win: testWindow()}, &fakeForecaster{}, orch)

	req := testRequest()
	req.AnalysisTypes = []string{"general", "alertas"}

	resp, err := svc.Predict(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Analysis, 2)
	for _, r := range resp.Analysis {
		assert.Equal(t, analysis.StatusFailed, r.Status)
		assert.Equal(t, analysis.ReasonServiceUnconfigured, r.ErrorReason)
	}
	assert.Len(t, resp.Forecast.Points, 24)
	assert.Equal(t, "M5023", resp.Station.ID)
}
