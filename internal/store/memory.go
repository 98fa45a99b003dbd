package store

import (
	"sort"
	"sync"
	"time"

	"github.com/i474232898/forecast-history/internal/forecast"
	"github.com/i474232898/forecast-history/internal/weather"
)

// SnapshotHistory holds the snapshots of one location keyed by as-of date.
type SnapshotHistory struct {
	Snapshots map[string]weather.Snapshot
}

// MemoryStore is a concurrency-safe in-memory implementation of weather.Store.
type MemoryStore struct {
	mu sync.RWMutex

	// key: location key, value: history
	data map[string]*SnapshotHistory
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]*SnapshotHistory),
	}
}

// Save stores the snapshot unless its as-of date is already present.
func (s *MemoryStore) Save(loc weather.Location, snapshot weather.Snapshot) (bool, error) {
	key := loc.Key()
	date := forecast.FormatDate(snapshot.AsOf)

	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[key]
	if !ok {
		history = &SnapshotHistory{Snapshots: make(map[string]weather.Snapshot)}
		s.data[key] = history
	}

	if _, exists := history.Snapshots[date]; exists {
		return false, nil
	}
	history.Snapshots[date] = snapshot
	return true, nil
}

// Exists reports whether a snapshot for asOf is stored.
func (s *MemoryStore) Exists(loc weather.Location, asOf time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[loc.Key()]
	if !ok {
		return false, nil
	}
	_, exists := history.Snapshots[forecast.FormatDate(asOf)]
	return exists, nil
}

// LoadAll returns all snapshots of a location, oldest first.
func (s *MemoryStore) LoadAll(loc weather.Location) ([]weather.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[loc.Key()]
	if !ok {
		return nil, nil
	}

	result := make([]weather.Snapshot, 0, len(history.Snapshots))
	for _, snap := range history.Snapshots {
		result = append(result, snap)
	}
	sortByAsOf(result)
	return result, nil
}

func sortByAsOf(snapshots []weather.Snapshot) {
	sort.SliceStable(snapshots, func(i, j int) bool {
		return snapshots[i].AsOf.Before(snapshots[j].AsOf)
	})
}
