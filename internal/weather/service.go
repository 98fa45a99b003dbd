package weather

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/i474232898/forecast-history/internal/forecast"
)

// Service orchestrates fetching, persisting and aggregating forecast
// snapshots for one location.
type Service struct {
	store    Store
	provider Provider
	location Location
	field    forecast.Field
	options  forecast.Options
	now      func() time.Time
}

// NewService creates a new Service. field selects the charted value.
func NewService(store Store, provider Provider, location Location, field forecast.Field, options forecast.Options) *Service {
	return &Service{
		store:    store,
		provider: provider,
		location: location,
		field:    field,
		options:  options,
		now:      time.Now,
	}
}

// Location returns the tracked location.
func (s *Service) Location() Location {
	return s.location
}

// EnsureSnapshot fetches and stores the forecast for asOf unless one is
// stored already. It reports whether a new snapshot was written.
func (s *Service) EnsureSnapshot(ctx context.Context, asOf time.Time) (bool, error) {
	asOf = forecast.Truncate(asOf)
	date := forecast.FormatDate(asOf)

	exists, err := s.store.Exists(s.location, asOf)
	if err != nil {
		return false, err
	}
	if exists {
		zap.L().Debug("forecast snapshot already stored", zap.String("location", s.location.Key()), zap.String("as_of", date))
		return false, nil
	}
	if s.provider == nil {
		return false, eris.New("no weather provider configured")
	}

	zap.L().Info("requesting weather forecast",
		zap.String("provider", s.provider.Name()),
		zap.String("location", s.location.Key()),
		zap.String("as_of", date),
	)
	snapshot, err := s.provider.Fetch(ctx, s.location, asOf)
	if err != nil {
		return false, eris.Wrapf(err, "fetch forecast for %s", s.location.Key())
	}

	written, err := s.store.Save(s.location, snapshot)
	if err != nil {
		return false, eris.Wrap(err, "save forecast")
	}
	return written, nil
}

// EnsureToday is EnsureSnapshot for the current UTC date.
func (s *Service) EnsureToday(ctx context.Context) (bool, error) {
	return s.EnsureSnapshot(ctx, s.now())
}

// Curves loads every stored snapshot and extracts its curve. Snapshots
// that do not decode are dropped.
func (s *Service) Curves() ([]forecast.Curve, error) {
	snapshots, err := s.store.LoadAll(s.location)
	if err != nil {
		return nil, eris.Wrap(err, "load forecasts")
	}
	curves := forecast.ExtractAll(Sources(snapshots), s.field)
	zap.L().Info("loaded weather forecasts",
		zap.Int("snapshots", len(snapshots)),
		zap.Int("curves", len(curves)),
	)
	return curves, nil
}

// Aggregate loads the history and runs the aggregation engine on it.
func (s *Service) Aggregate() (*forecast.Result, error) {
	curves, err := s.Curves()
	if err != nil {
		return nil, err
	}
	res := forecast.Aggregate(curves, s.options)
	zap.L().Info("aggregated forecast history",
		zap.String("run_id", res.RunID),
		zap.Int("curves", res.Stats.Curves),
		zap.Int("reference_points", len(res.Reference)),
		zap.Int("beyond_reference", res.Stats.BeyondReference),
		zap.Int("negative_leads", res.Stats.NegativeLeads),
	)
	return res, nil
}

// Refresh makes sure today's snapshot exists and re-aggregates.
func (s *Service) Refresh(ctx context.Context) (*forecast.Result, error) {
	if _, err := s.EnsureToday(ctx); err != nil {
		return nil, err
	}
	return s.Aggregate()
}
