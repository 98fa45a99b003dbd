package providers

import (
	"github.com/rotisserie/eris"

	"github.com/i474232898/forecast-history/internal/weather"
)

// Names lists the providers New understands.
var Names = []string{"weatherbit", "openmeteo", "openweather", "weatherapi"}

// New builds the named provider. geocoder is only used by openmeteo and may be nil.
func New(name string, cfg HTTPClientConfig, apiKey string, geocoder Geocoder) (weather.Provider, error) {
	switch name {
	case "weatherbit":
		return NewWeatherbitProvider(cfg, apiKey), nil
	case "openmeteo":
		return NewOpenMeteoProvider(cfg, geocoder), nil
	case "openweather":
		return NewOpenWeatherProvider(cfg, apiKey), nil
	case "weatherapi":
		return NewWeatherAPIProvider(cfg, apiKey), nil
	default:
		return nil, eris.Errorf("unknown weather provider %q", name)
	}
}
