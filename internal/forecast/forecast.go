package forecast

import (
	"math"
	"time"
)

// Variable names used across predicted series.
const (
	VarPrecipitation = "precipitation_mm"
	VarTemperature   = "temperature_c"
	VarHumidity      = "humidity_pct"
)

// Point is one predicted hourly step.
type Point struct {
	Timestamp time.Time          `json:"timestamp"`
	Variables map[string]float64 `json:"variables"`
}

// Series is the fixed-horizon prediction produced by exactly one model
// invocation. It is immutable after creation.
type Series struct {
	StationID    string  `json:"station_id"`
	HorizonHours int     `json:"horizon_hours"`
	Points       []Point `json:"points"`
}

// Stats summarizes a predicted series for response payloads and
// analysis prompts.
type Stats struct {
	TotalPoints      int     `json:"total_points"`
	AvgPrecipitation float64 `json:"avg_precipitation_mm"`
	MinPrecipitation float64 `json:"min_precipitation_mm"`
	MaxPrecipitation float64 `json:"max_precipitation_mm"`
	AvgTemperature   float64 `json:"avg_temperature_c"`
	MinTemperature   float64 `json:"min_temperature_c"`
	MaxTemperature   float64 `json:"max_temperature_c"`
	AvgHumidity      float64 `json:"avg_humidity_pct"`
	MinHumidity      float64 `json:"min_humidity_pct"`
	MaxHumidity      float64 `json:"max_humidity_pct"`
}

// Summarize computes aggregate statistics over a series.
func Summarize(s Series) Stats {
	stats := Stats{TotalPoints: len(s.Points)}
	if len(s.Points) == 0 {
		return stats
	}

	stats.MinPrecipitation = math.Inf(1)
	stats.MinTemperature = math.Inf(1)
	stats.MinHumidity = math.Inf(1)
	stats.MaxPrecipitation = math.Inf(-1)
	stats.MaxTemperature = math.Inf(-1)
	stats.MaxHumidity = math.Inf(-1)

	var sumP, sumT, sumH float64
	for _, p := range s.Points {
		precip := p.Variables[VarPrecipitation]
		temp := p.Variables[VarTemperature]
		hum := p.Variables[VarHumidity]

		sumP += precip
		sumT += temp
		sumH += hum

		stats.MinPrecipitation = math.Min(stats.MinPrecipitation, precip)
		stats.MaxPrecipitation = math.Max(stats.MaxPrecipitation, precip)
		stats.MinTemperature = math.Min(stats.MinTemperature, temp)
		stats.MaxTemperature = math.Max(stats.MaxTemperature, temp)
		stats.MinHumidity = math.Min(stats.MinHumidity, hum)
		stats.MaxHumidity = math.Max(stats.MaxHumidity, hum)
	}

	n := float64(len(s.Points))
	stats.AvgPrecipitation = sumP / n
	stats.AvgTemperature = sumT / n
	stats.AvgHumidity = sumH / n
	return stats
}
