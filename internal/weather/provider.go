package weather

import (
	"context"
	"time"
)

// Provider abstracts a daily forecast source (e.g. Weatherbit, Open-Meteo).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, loc Location, asOf time.Time) (Snapshot, error)
}

// Store is the contract the file store (and the in-memory store) satisfy.
type Store interface {
	// LoadAll returns every snapshot of loc sorted by as-of date ascending.
	LoadAll(loc Location) ([]Snapshot, error)
	// Save stores snapshot unless one exists for its as-of date. It reports
	// whether anything was written.
	Save(loc Location, snapshot Snapshot) (bool, error)
	// Exists reports whether a snapshot for asOf is stored.
	Exists(loc Location, asOf time.Time) (bool, error)
}
