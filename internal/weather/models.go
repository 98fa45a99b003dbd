package weather

import (
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"

	"github.com/i474232898/forecast-history/internal/forecast"
)

// Location is the fixed place forecasts are tracked for.
// CountryCode/Zip must be provided; Lat/Lon are optional and only used by
// providers that query by coordinates.
type Location struct {
	CountryCode string   `json:"countryCode"`
	Zip         string   `json:"zip"`
	Lat         *float64 `json:"lat,omitempty"`
	Lon         *float64 `json:"lon,omitempty"`
}

// Key returns the canonical key used for the location's data directory.
func (l Location) Key() string {
	return l.CountryCode + "__" + l.Zip
}

// Snapshot is one stored forecast document, as fetched on AsOf.
// Forecast holds the provider's daily forecast normalized to the
// weatherbit shape and is only decoded by the curve extractor.
type Snapshot struct {
	AsOf     time.Time       `json:"-"`
	Provider string          `json:"provider,omitempty"`
	Forecast json.RawMessage `json:"forecast"`
}

type snapshotDocument struct {
	AsOfDate string          `json:"asOfDate"`
	Provider string          `json:"provider,omitempty"`
	Forecast json.RawMessage `json:"forecast"`
}

// MarshalJSON writes the on-disk document.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshotDocument{
		AsOfDate: forecast.FormatDate(s.AsOf),
		Provider: s.Provider,
		Forecast: s.Forecast,
	})
}

// UnmarshalJSON reads the on-disk document, including legacy as-of dates.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var doc snapshotDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	asOf, err := forecast.ParseDate(doc.AsOfDate)
	if err != nil {
		return eris.Wrap(err, "snapshot: asOfDate")
	}
	s.AsOf = asOf
	s.Provider = doc.Provider
	s.Forecast = doc.Forecast
	return nil
}

// Sources converts snapshots into extractor input.
func Sources(snapshots []Snapshot) []forecast.Source {
	out := make([]forecast.Source, len(snapshots))
	for i, s := range snapshots {
		out[i] = forecast.Source{AsOf: s.AsOf, Payload: s.Forecast}
	}
	return out
}
