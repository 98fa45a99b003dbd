package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/rotisserie/eris"

	"github.com/i474232898/forecast-history/internal/forecast"
	"github.com/i474232898/forecast-history/internal/weather"
)

// WeatherAPIProvider implements the weather.Provider interface for WeatherAPI.com.
type WeatherAPIProvider struct {
	name   string
	apiKey string
	http   *client
}

func NewWeatherAPIProvider(cfg HTTPClientConfig, apiKey string) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:   "weatherapi",
		apiKey: apiKey,
		http:   newClient("weatherapi", cfg),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

func (p *WeatherAPIProvider) Fetch(ctx context.Context, loc weather.Location, asOf time.Time) (weather.Snapshot, error) {
	if p.apiKey == "" {
		return weather.Snapshot{}, eris.Wrap(ErrMissingAPIKey, "weatherapi")
	}

	values := url.Values{}
	values.Set("key", p.apiKey)
	values.Set("days", "14")
	// WeatherAPI uses "q" for location; it accepts "zip,country" or "lat,lon".
	if loc.Lat != nil && loc.Lon != nil {
		values.Set("q", fmt.Sprintf("%f,%f", *loc.Lat, *loc.Lon))
	} else {
		values.Set("q", fmt.Sprintf("%s,%s", loc.Zip, loc.CountryCode))
	}
	u := fmt.Sprintf("%s?%s", p.http.baseURL("https://api.weatherapi.com/v1/forecast.json"), values.Encode())

	body, err := p.http.getBody(ctx, u)
	if err != nil {
		return weather.Snapshot{}, eris.Wrap(err, "weatherapi: fetch forecast")
	}

	var payload struct {
		Forecast struct {
			ForecastDay []struct {
				Date string `json:"date"`
				Day  struct {
					MaxTempC    float64 `json:"maxtemp_c"`
					MinTempC    float64 `json:"mintemp_c"`
					AvgTempC    float64 `json:"avgtemp_c"`
					PrecipMm    float64 `json:"totalprecip_mm"`
					AvgHumidity float64 `json:"avghumidity"`
					MaxWindKph  float64 `json:"maxwind_kph"`
				} `json:"day"`
			} `json:"forecastday"`
		} `json:"forecast"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.Snapshot{}, eris.Wrap(err, "weatherapi: decode response")
	}

	days := make([]forecast.Day, 0, len(payload.Forecast.ForecastDay))
	for _, fd := range payload.Forecast.ForecastDay {
		days = append(days, forecast.Day{
			ValidDate: fd.Date,
			MaxTemp:   floatPtr(fd.Day.MaxTempC),
			MinTemp:   floatPtr(fd.Day.MinTempC),
			Temp:      floatPtr(fd.Day.AvgTempC),
			Precip:    floatPtr(fd.Day.PrecipMm),
			RH:        floatPtr(fd.Day.AvgHumidity),
			// Convert wind from kph to m/s (approx).
			WindSpd: floatPtr(fd.Day.MaxWindKph / 3.6),
		})
	}

	return snapshotFromDays(p.name, asOf, days)
}
