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

// WeatherbitProvider implements the weather.Provider interface for the
// Weatherbit daily forecast. Its "data" array is stored verbatim.
type WeatherbitProvider struct {
	name   string
	apiKey string
	http   *client
}

func NewWeatherbitProvider(cfg HTTPClientConfig, apiKey string) *WeatherbitProvider {
	return &WeatherbitProvider{
		name:   "weatherbit",
		apiKey: apiKey,
		http:   newClient("weatherbit", cfg),
	}
}

func (p *WeatherbitProvider) Name() string {
	return p.name
}

func (p *WeatherbitProvider) Fetch(ctx context.Context, loc weather.Location, asOf time.Time) (weather.Snapshot, error) {
	if p.apiKey == "" {
		return weather.Snapshot{}, eris.Wrap(ErrMissingAPIKey, "weatherbit")
	}

	values := url.Values{}
	values.Set("postal_code", loc.Zip)
	values.Set("country", loc.CountryCode)
	values.Set("key", p.apiKey)
	u := fmt.Sprintf("%s?%s", p.http.baseURL("https://api.weatherbit.io/v2.0/forecast/daily"), values.Encode())

	body, err := p.http.getBody(ctx, u)
	if err != nil {
		return weather.Snapshot{}, eris.Wrap(err, "weatherbit: fetch forecast")
	}

	var payload struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.Snapshot{}, eris.Wrap(err, "weatherbit: decode response")
	}
	if len(payload.Data) == 0 {
		return weather.Snapshot{}, eris.New("weatherbit: response has no data")
	}

	return weather.Snapshot{
		AsOf:     forecast.Truncate(asOf),
		Provider: p.name,
		Forecast: payload.Data,
	}, nil
}
