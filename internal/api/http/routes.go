package httpapi

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/forecast-history/internal/forecast"
	"github.com/i474232898/forecast-history/internal/weather"
)

var validate = validator.New()

// ResultSource exposes the latest published aggregation result.
type ResultSource interface {
	Latest() *forecast.Result
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, loc weather.Location, source ResultSource) {
	v1 := app.Group("/api/v1/forecast")

	// Every handler below needs a result; before the first refresh
	// finished there is nothing to serve.
	v1.Use(func(c *fiber.Ctx) error {
		res := source.Latest()
		if res == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "forecast history not aggregated yet")
		}
		c.Locals("result", res)
		return c.Next()
	})

	v1.Get("/reference", func(c *fiber.Ctx) error {
		res := result(c)
		return c.JSON(fiber.Map{
			"location": loc,
			"runId":    res.RunID,
			"points":   toPoints(res.Reference),
		})
	})

	v1.Get("/curves", func(c *fiber.Ctx) error {
		res := result(c)
		curves := make([]curveResponse, len(res.Curves))
		for i, cv := range res.Curves {
			curves[i] = curveResponse{AsOf: forecast.FormatDate(cv.AsOf), Points: toPoints(cv.Points)}
		}
		return c.JSON(fiber.Map{
			"location": loc,
			"runId":    res.RunID,
			"curves":   curves,
		})
	})

	v1.Get("/bands/calendar", func(c *fiber.Ctx) error {
		level, err := parseLevel(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		res := result(c)
		return c.JSON(fiber.Map{
			"location": loc,
			"runId":    res.RunID,
			"level":    level,
			"points":   toPoints(res.CalendarBand(level)),
		})
	})

	v1.Get("/bands/lead", func(c *fiber.Ctx) error {
		level, err := parseLevel(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		res := result(c)
		band := res.LeadBand(level)
		points := make([]leadPointResponse, len(band))
		for i, p := range band {
			points[i] = leadPointResponse{LeadDays: p.Days(), Value: p.Value}
		}
		return c.JSON(fiber.Map{
			"location": loc,
			"runId":    res.RunID,
			"level":    level,
			"points":   points,
		})
	})

	v1.Get("/stats", func(c *fiber.Ctx) error {
		res := result(c)
		return c.JSON(fiber.Map{
			"location":  loc,
			"runId":     res.RunID,
			"createdAt": res.CreatedAt.Format(time.RFC3339),
			"stats":     res.Stats,
		})
	})
}

func result(c *fiber.Ctx) *forecast.Result {
	return c.Locals("result").(*forecast.Result)
}

// levelQuery holds the percentile level of the band endpoints.
type levelQuery struct {
	Level int `query:"level" validate:"required,oneof=20 40 60 80"`
}

func parseLevel(c *fiber.Ctx) (int, error) {
	var q levelQuery
	if err := c.QueryParser(&q); err != nil {
		return 0, err
	}
	if err := validate.Struct(q); err != nil {
		return 0, err
	}
	return q.Level, nil
}

type pointResponse struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type curveResponse struct {
	AsOf   string          `json:"asOf"`
	Points []pointResponse `json:"points"`
}

type leadPointResponse struct {
	LeadDays int     `json:"leadDays"`
	Value    float64 `json:"value"`
}

func toPoints(points []forecast.Point) []pointResponse {
	out := make([]pointResponse, len(points))
	for i, p := range points {
		out[i] = pointResponse{Date: forecast.FormatDate(p.Date), Value: p.Value}
	}
	return out
}
