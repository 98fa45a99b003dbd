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

// OpenWeatherProvider implements the weather.Provider interface for the
// OpenWeatherMap 16 day daily forecast.
type OpenWeatherProvider struct {
	name   string
	apiKey string
	http   *client
}

func NewOpenWeatherProvider(cfg HTTPClientConfig, apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:   "openweathermap",
		apiKey: apiKey,
		http:   newClient("openweather", cfg),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) Fetch(ctx context.Context, loc weather.Location, asOf time.Time) (weather.Snapshot, error) {
	if p.apiKey == "" {
		return weather.Snapshot{}, eris.Wrap(ErrMissingAPIKey, "openweather")
	}

	values := url.Values{}
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")
	values.Set("cnt", "16")
	values.Set("zip", fmt.Sprintf("%s,%s", loc.Zip, loc.CountryCode))
	u := fmt.Sprintf("%s?%s", p.http.baseURL("https://api.openweathermap.org/data/2.5/forecast/daily"), values.Encode())

	body, err := p.http.getBody(ctx, u)
	if err != nil {
		return weather.Snapshot{}, eris.Wrap(err, "openweather: fetch forecast")
	}

	var payload struct {
		City struct {
			// Timezone is the location's offset from UTC in seconds.
			Timezone int `json:"timezone"`
		} `json:"city"`
		List []struct {
			Dt   int64 `json:"dt"`
			Temp struct {
				Day float64 `json:"day"`
				Min float64 `json:"min"`
				Max float64 `json:"max"`
			} `json:"temp"`
			Pressure float64 `json:"pressure"`
			Humidity float64 `json:"humidity"`
			Speed    float64 `json:"speed"`
			Rain     float64 `json:"rain"`
			Snow     float64 `json:"snow"`
		} `json:"list"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.Snapshot{}, eris.Wrap(err, "openweather: decode response")
	}

	zone := time.FixedZone("", payload.City.Timezone)
	days := make([]forecast.Day, 0, len(payload.List))
	for _, item := range payload.List {
		days = append(days, forecast.Day{
			ValidDate: time.Unix(item.Dt, 0).In(zone).Format(time.DateOnly),
			MaxTemp:   floatPtr(item.Temp.Max),
			MinTemp:   floatPtr(item.Temp.Min),
			Temp:      floatPtr(item.Temp.Day),
			Precip:    floatPtr(item.Rain + item.Snow),
			Pres:      floatPtr(item.Pressure),
			RH:        floatPtr(item.Humidity),
			WindSpd:   floatPtr(item.Speed),
		})
	}

	return snapshotFromDays(p.name, asOf, days)
}
