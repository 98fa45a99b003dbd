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

// OpenMeteoProvider implements the weather.Provider interface for Open-Meteo.
// It needs coordinates; when the location has none they are looked up
// through the geocoder.
type OpenMeteoProvider struct {
	name     string
	http     *client
	geocoder Geocoder
}

func NewOpenMeteoProvider(cfg HTTPClientConfig, geocoder Geocoder) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:     "openmeteo",
		http:     newClient("openmeteo", cfg),
		geocoder: geocoder,
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, loc weather.Location, asOf time.Time) (weather.Snapshot, error) {
	lat, lon, err := p.coordinates(ctx, loc)
	if err != nil {
		return weather.Snapshot{}, err
	}

	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", lat))
	values.Set("longitude", fmt.Sprintf("%f", lon))
	values.Set("daily", "temperature_2m_max,temperature_2m_min,temperature_2m_mean,precipitation_sum,wind_speed_10m_max")
	values.Set("timezone", "UTC")
	values.Set("forecast_days", "16")
	u := fmt.Sprintf("%s?%s", p.http.baseURL("https://api.open-meteo.com/v1/forecast"), values.Encode())

	body, err := p.http.getBody(ctx, u)
	if err != nil {
		return weather.Snapshot{}, eris.Wrap(err, "openmeteo: fetch forecast")
	}

	var payload struct {
		Daily struct {
			Time    []string   `json:"time"`
			MaxTemp []*float64 `json:"temperature_2m_max"`
			MinTemp []*float64 `json:"temperature_2m_min"`
			Mean    []*float64 `json:"temperature_2m_mean"`
			Precip  []*float64 `json:"precipitation_sum"`
			WindMax []*float64 `json:"wind_speed_10m_max"`
		} `json:"daily"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.Snapshot{}, eris.Wrap(err, "openmeteo: decode response")
	}

	daily := payload.Daily
	days := make([]forecast.Day, len(daily.Time))
	for i, date := range daily.Time {
		days[i] = forecast.Day{
			ValidDate: date,
			MaxTemp:   at(daily.MaxTemp, i),
			MinTemp:   at(daily.MinTemp, i),
			Temp:      at(daily.Mean, i),
			Precip:    at(daily.Precip, i),
			WindSpd:   kmhToMS(at(daily.WindMax, i)),
		}
	}

	return snapshotFromDays(p.name, asOf, days)
}

func (p *OpenMeteoProvider) coordinates(ctx context.Context, loc weather.Location) (float64, float64, error) {
	if loc.Lat != nil && loc.Lon != nil {
		return *loc.Lat, *loc.Lon, nil
	}
	if p.geocoder == nil {
		return 0, 0, eris.New("openmeteo requires latitude and longitude")
	}
	lat, lon, err := p.geocoder.Locate(ctx, loc)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "openmeteo: geocode %s", loc.Key())
	}
	return lat, lon, nil
}

// at returns vs[i], or nil when the provider sent a shorter array.
func at(vs []*float64, i int) *float64 {
	if i >= len(vs) {
		return nil
	}
	return vs[i]
}

func kmhToMS(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return floatPtr(*v / 3.6)
}

// snapshotFromDays stores days in the normalized document shape.
func snapshotFromDays(provider string, asOf time.Time, days []forecast.Day) (weather.Snapshot, error) {
	if len(days) == 0 {
		return weather.Snapshot{}, eris.Errorf("%s: response has no forecast days", provider)
	}
	raw, err := json.Marshal(days)
	if err != nil {
		return weather.Snapshot{}, eris.Wrapf(err, "%s: encode forecast", provider)
	}
	return weather.Snapshot{
		AsOf:     forecast.Truncate(asOf),
		Provider: provider,
		Forecast: raw,
	}, nil
}
