package main

import (
	"net/http"
	"path/filepath"

	"github.com/i474232898/forecast-history/internal/config"
	"github.com/i474232898/forecast-history/internal/forecast"
	"github.com/i474232898/forecast-history/internal/plot"
	"github.com/i474232898/forecast-history/internal/store"
	"github.com/i474232898/forecast-history/internal/weather"
	"github.com/i474232898/forecast-history/internal/weather/providers"
)

func weatherLocation(cfg *config.Config) weather.Location {
	return weather.Location{
		CountryCode: cfg.Weather.CountryCode,
		Zip:         cfg.Weather.Zip,
		Lat:         cfg.Weather.Lat,
		Lon:         cfg.Weather.Lon,
	}
}

// newWeatherService wires the file store, the configured provider and the
// aggregation options.
func newWeatherService(cfg *config.Config) (*weather.Service, error) {
	field, err := forecast.FieldByName(cfg.Weather.Field)
	if err != nil {
		return nil, err
	}
	mode, err := forecast.ParseReferenceMode(cfg.Weather.Reference)
	if err != nil {
		return nil, err
	}

	httpCfg := providers.HTTPClientConfig{
		// Shared HTTP client for outbound provider calls.
		Client: &http.Client{Timeout: cfg.HTTP.Timeout},
		Backoff: providers.BackoffConfig{
			MaxRetries:      cfg.HTTP.MaxRetries,
			InitialInterval: cfg.HTTP.InitialInterval,
			MaxInterval:     cfg.HTTP.MaxInterval,
		},
		RateLimit: cfg.HTTP.RateLimit,
	}
	var geocoder providers.Geocoder
	if cfg.Weather.GeocoderAPIKey != "" {
		geocoder = providers.NewGoogleGeocoder(cfg.Weather.GeocoderAPIKey)
	}
	provider, err := providers.New(cfg.Weather.Provider, httpCfg, cfg.Weather.APIKey, geocoder)
	if err != nil {
		return nil, err
	}

	opts := forecast.Options{
		Reference: mode,
		Lead:      forecast.LeadOptions{KeepNegativeLeads: cfg.Weather.KeepNegativeLeads},
	}
	fs := store.NewFileStore(cfg.Storage.DataDir)
	return weather.NewService(fs, provider, weatherLocation(cfg), field, opts), nil
}

func weatherRenderer(cfg *config.Config) *plot.Renderer {
	loc := weatherLocation(cfg)
	return plot.NewRenderer(plot.Options{
		Dir:        filepath.Join(cfg.Plot.OutputDir, loc.Key()),
		Width:      cfg.Plot.Width,
		Height:     cfg.Plot.Height,
		FrameDelay: cfg.Plot.FrameDelay,
		Subject:    cfg.Weather.Field + " for " + loc.Key(),
	})
}
