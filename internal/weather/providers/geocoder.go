package providers

import (
	"context"
	"sync"

	"github.com/kelvins/geocoder"
	"github.com/rotisserie/eris"

	"github.com/i474232898/forecast-history/internal/weather"
)

// Geocoder resolves a location to coordinates.
type Geocoder interface {
	Locate(ctx context.Context, loc weather.Location) (lat, lon float64, err error)
}

// geocoderMu guards the geocoder package's global API key.
var geocoderMu sync.Mutex

// GoogleGeocoder resolves postal codes through the Google Geocoding API.
type GoogleGeocoder struct {
	apiKey string
}

func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	return &GoogleGeocoder{apiKey: apiKey}
}

func (g *GoogleGeocoder) Locate(ctx context.Context, loc weather.Location) (float64, float64, error) {
	if g.apiKey == "" {
		return 0, 0, eris.Wrap(ErrMissingAPIKey, "geocoder")
	}
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	geocoderMu.Lock()
	defer geocoderMu.Unlock()

	geocoder.ApiKey = g.apiKey
	location, err := geocoder.Geocoding(geocoder.Address{
		PostalCode: loc.Zip,
		Country:    loc.CountryCode,
	})
	if err != nil {
		return 0, 0, eris.Wrap(err, "geocoding")
	}
	return location.Latitude, location.Longitude, nil
}
