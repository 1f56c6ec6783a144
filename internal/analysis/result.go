package analysis

import (
	"time"

	"github.com/agroclima/prediction-service/internal/forecast"
	"github.com/agroclima/prediction-service/internal/history"
	"github.com/agroclima/prediction-service/internal/station"
)

// Status of a single category's analysis.
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// Failure reasons reported on degraded results.
const (
	ReasonServiceUnconfigured = "service_unconfigured"
)

// Result is the outcome of one category's analysis. Each requested
// category gets exactly one Result; a failed category never invalidates
// the others.
type Result struct {
	Category    Category `json:"category"`
	Status      Status   `json:"status"`
	Text        string   `json:"text,omitempty"`
	ErrorReason string   `json:"error_reason,omitempty"`
}

// Context carries the summarized forecast and history handed to the
// reasoning service with every category call.
type Context struct {
	Coordinate    station.Coordinate
	ReferenceDate time.Time
	StationID     string
	Forecast      forecast.Stats
	History       *history.Window
}
