package httpapi

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/agroclima/prediction-service/internal/analysis"
	"github.com/agroclima/prediction-service/internal/forecast"
	"github.com/agroclima/prediction-service/internal/history"
	"github.com/agroclima/prediction-service/internal/pipeline"
	"github.com/agroclima/prediction-service/internal/station"
)

var validate = validator.New()

const dateLayout = "2006-01-02"

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *pipeline.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/stations", func(c *fiber.Ctx) error {
		return c.JSON(service.Stations())
	})

	v1.Get("/analysis-options", func(c *fiber.Ctx) error {
		return c.JSON(service.AnalysisOptions())
	})

	v1.Post("/stations/nearest", func(c *fiber.Ctx) error {
		var req coordinateBody
		if err := bindAndValidate(c, &req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		nearest, ranked, err := service.NearestStation(req.toCoordinate())
		if err != nil {
			return mapPipelineError(err)
		}

		return c.JSON(fiber.Map{
			"nearest_station": nearest,
			"ranked":          ranked,
		})
	})

	v1.Post("/weather/history", func(c *fiber.Ctx) error {
		var req historyBody
		if err := bindAndValidate(c, &req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		ref, err := req.parseDate()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		win, err := service.History(c.Context(), req.toCoordinate(), ref)
		if err != nil {
			return mapPipelineError(err)
		}
		return c.JSON(win)
	})

	v1.Post("/predict", func(c *fiber.Ctx) error {
		var req predictBody
		if err := bindAndValidate(c, &req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		ref, err := req.parseDate()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		resp, err := service.Predict(c.Context(), pipeline.PredictRequest{
			Date:            ref,
			Coordinate:      req.toCoordinate(),
			IncludeAnalysis: req.includeAnalysis(),
			AnalysisTypes:   req.AnalysisTypes,
		})
		if err != nil {
			return mapPipelineError(err)
		}
		return c.JSON(resp)
	})
}

// coordinateBody holds a coordinate pair. Pointers distinguish a missing
// field from a legitimate zero value.
type coordinateBody struct {
	Latitude  *float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitude" validate:"required,min=-180,max=180"`
}

func (b coordinateBody) toCoordinate() station.Coordinate {
	return station.Coordinate{Latitude: *b.Latitude, Longitude: *b.Longitude}
}

type historyBody struct {
	coordinateBody
	Date string `json:"date" validate:"required"`
}

func (b historyBody) parseDate() (time.Time, error) {
	t, err := time.Parse(dateLayout, b.Date)
	if err != nil {
		return time.Time{}, errors.New("invalid date format; use YYYY-MM-DD")
	}
	return t.UTC(), nil
}

type predictBody struct {
	historyBody
	IncludeAnalysis *bool    `json:"include_analysis"`
	AnalysisTypes   []string `json:"analysis_types"`
}

// includeAnalysis defaults to true when the field is omitted.
func (b predictBody) includeAnalysis() bool {
	return b.IncludeAnalysis == nil || *b.IncludeAnalysis
}

func bindAndValidate(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return errors.New("invalid JSON body")
	}
	return validate.Struct(out)
}

// mapPipelineError translates pipeline error classes to HTTP statuses.
// Client errors are handled before this point.
func mapPipelineError(err error) error {
	switch {
	case errors.Is(err, analysis.ErrUnknownCategory):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, station.ErrNoAvailableStation):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	case errors.Is(err, forecast.ErrModelUnavailable):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	case errors.Is(err, history.ErrUnavailable):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	case errors.Is(err, forecast.ErrInference):
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
}
