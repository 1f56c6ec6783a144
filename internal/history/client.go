package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/agroclima/prediction-service/internal/station"
)

// ErrUnavailable is returned when the historical provider could not be
// reached within the retry budget, or returned an empty series.
var ErrUnavailable = errors.New("historical data unavailable")

const defaultBaseURL = "https://archive-api.open-meteo.com/v1/archive"

// Client fetches past daily observations from the Open-Meteo archive API.
type Client struct {
	name       string
	baseURL    string
	httpCfg    HTTPClientConfig
	circuit    *gobreaker.CircuitBreaker
	windowDays int
}

// NewClient creates a Client with the default archive endpoint and
// resilience settings.
func NewClient(httpClient *http.Client, windowDays int) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo-archive",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		name:    "openmeteo-archive",
		baseURL: defaultBaseURL,
		httpCfg: HTTPClientConfig{
			Client: httpClient,
			Backoff: BackoffConfig{
				MaxRetries:      3,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
				Jitter:          0.2,
			},
		},
		circuit:    cb,
		windowDays: windowDays,
	}
}

// WithBaseURL overrides the archive endpoint. Used by tests.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

// WithBackoff overrides the retry policy. Used by tests.
func (c *Client) WithBackoff(b BackoffConfig) *Client {
	c.httpCfg.Backoff = b
	return c
}

// Fetch retrieves the daily observation window ending at ref for the
// given coordinate. On provider exhaustion it returns ErrUnavailable;
// a series shorter than the configured window is marked partial instead
// of failing.
func (c *Client) Fetch(ctx context.Context, point station.Coordinate, ref time.Time) (Window, error) {
	start, end := windowRange(ref, c.windowDays)
	startStr := start.Format(dateLayout)
	endStr := end.Format(dateLayout)

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", point.Latitude))
		values.Set("longitude", fmt.Sprintf("%f", point.Longitude))
		values.Set("start_date", startStr)
		values.Set("end_date", endStr)
		values.Set("daily", "temperature_2m_mean,precipitation_sum,relative_humidity_2m_mean")
		values.Set("temperature_unit", "celsius")
		values.Set("precipitation_unit", "mm")
		values.Set("timezone", "UTC")

		u := fmt.Sprintf("%s?%s", c.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return Window{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var payload struct {
		Daily struct {
			Time          []string   `json:"time"`
			Temperature   []*float64 `json:"temperature_2m_mean"`
			Precipitation []*float64 `json:"precipitation_sum"`
			Humidity      []*float64 `json:"relative_humidity_2m_mean"`
		} `json:"daily"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Window{}, fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}

	if len(payload.Daily.Time) == 0 {
		return Window{}, fmt.Errorf("%w: provider returned no daily data", ErrUnavailable)
	}

	series := make([]Point, 0, len(payload.Daily.Time))
	for i, date := range payload.Daily.Time {
		series = append(series, Point{
			Date:          date,
			Temperature:   cleanValue(payload.Daily.Temperature, i),
			Precipitation: cleanValue(payload.Daily.Precipitation, i),
			Humidity:      cleanValue(payload.Daily.Humidity, i),
		})
	}

	return Window{
		Coordinate: point,
		StartDate:  startStr,
		EndDate:    endStr,
		Series:     series,
		Partial:    len(series) < expectedPoints(c.windowDays),
	}, nil
}

// cleanValue replaces provider nulls and missing entries with 0.0 so a
// sparse series keeps its alignment with the date axis.
func cleanValue(values []*float64, i int) float64 {
	if i >= len(values) || values[i] == nil {
		return 0.0
	}
	return *values[i]
}
