package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/forecast-history/internal/forecast"
	"github.com/i474232898/forecast-history/internal/weather"
)

type staticSource struct {
	res *forecast.Result
}

func (s staticSource) Latest() *forecast.Result { return s.res }

var testLocation = weather.Location{CountryCode: "CH", Zip: "8001"}

// sixDayHistory builds six daily curves of 16 points, curve k starting on
// its own as-of date with value 10+k+i.
func sixDayHistory() *forecast.Result {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	var curves []forecast.Curve
	for k := 0; k < 6; k++ {
		asOf := start.AddDate(0, 0, k)
		c := forecast.Curve{AsOf: asOf}
		for i := 0; i < 16; i++ {
			c.Points = append(c.Points, forecast.Point{Date: asOf.AddDate(0, 0, i), Value: float64(10 + k + i)})
		}
		curves = append(curves, c)
	}
	return forecast.Aggregate(curves, forecast.Options{})
}

func newApp(res *forecast.Result) *fiber.App {
	app := fiber.New()
	RegisterRoutes(app, testLocation, staticSource{res: res})
	return app
}

func get(t *testing.T, app *fiber.App, target string) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)
	return resp
}

func TestUnavailableBeforeFirstRun(t *testing.T) {
	app := newApp(nil)
	for _, target := range []string{
		"/api/v1/forecast/reference",
		"/api/v1/forecast/curves",
		"/api/v1/forecast/bands/calendar?level=20",
		"/api/v1/forecast/bands/lead?level=20",
		"/api/v1/forecast/stats",
	} {
		resp := get(t, app, target)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, target)
	}
}

func TestLevelValidation(t *testing.T) {
	app := newApp(sixDayHistory())
	for _, target := range []string{
		"/api/v1/forecast/bands/calendar",
		"/api/v1/forecast/bands/calendar?level=50",
		"/api/v1/forecast/bands/lead?level=abc",
		"/api/v1/forecast/bands/lead?level=100",
	} {
		resp := get(t, app, target)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, target)
	}
}

func TestReference(t *testing.T) {
	app := newApp(sixDayHistory())
	resp := get(t, app, "/api/v1/forecast/reference")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		RunID  string          `json:"runId"`
		Points []pointResponse `json:"points"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.RunID)
	require.Len(t, body.Points, 6)
	assert.Equal(t, pointResponse{Date: "2024-03-01", Value: 10}, body.Points[0])
	assert.Equal(t, pointResponse{Date: "2024-03-06", Value: 15}, body.Points[5])
}

func TestCalendarBand(t *testing.T) {
	app := newApp(sixDayHistory())
	resp := get(t, app, "/api/v1/forecast/bands/calendar?level=80")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Level  int             `json:"level"`
		Points []pointResponse `json:"points"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 80, body.Level)
	// Only dates reached by at least five of the six curves: Mar 5 .. Mar 17.
	require.Len(t, body.Points, 13)
	assert.Equal(t, "2024-03-05", body.Points[0].Date)
	assert.Equal(t, "2024-03-17", body.Points[12].Date)
	// Every curve forecasts 14 for Mar 5; the bands collapse.
	assert.Equal(t, 14.0, body.Points[0].Value)
}

func TestLeadBand(t *testing.T) {
	app := newApp(sixDayHistory())
	resp := get(t, app, "/api/v1/forecast/bands/lead?level=40")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Points []leadPointResponse `json:"points"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	// Six curves contribute at lead 0, five at lead 1, fewer afterwards.
	require.Len(t, body.Points, 2)
	assert.Equal(t, leadPointResponse{LeadDays: 0, Value: 0}, body.Points[0])
	assert.Equal(t, leadPointResponse{LeadDays: 1, Value: 0}, body.Points[1])
}

func TestCurvesAndStats(t *testing.T) {
	app := newApp(sixDayHistory())

	resp := get(t, app, "/api/v1/forecast/curves")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var curves struct {
		Curves []curveResponse `json:"curves"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&curves))
	require.Len(t, curves.Curves, 6)
	assert.Equal(t, "2024-03-01", curves.Curves[0].AsOf)
	assert.Len(t, curves.Curves[0].Points, 16)

	resp = get(t, app, "/api/v1/forecast/stats")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats struct {
		Stats forecast.Stats `json:"stats"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, 6, stats.Stats.Curves)
	assert.Equal(t, 96, stats.Stats.Points)
}
