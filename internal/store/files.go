package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/i474232898/forecast-history/internal/forecast"
	"github.com/i474232898/forecast-history/internal/weather"
)

// FileStore keeps one JSON document per as-of date under
// <root>/weather/<CC>__<zip>/<YYYY-MM-DD>.json.
type FileStore struct {
	root            string
	filePermissions os.FileMode
	dirPermissions  os.FileMode
}

// NewFileStore creates a FileStore rooted at dataDir.
func NewFileStore(dataDir string) *FileStore {
	return &FileStore{
		root:            dataDir,
		filePermissions: 0o644,
		dirPermissions:  0o755,
	}
}

// Dir returns the directory holding the snapshots of loc.
func (s *FileStore) Dir(loc weather.Location) string {
	return filepath.Join(s.root, "weather", loc.Key())
}

func (s *FileStore) path(loc weather.Location, asOf time.Time) string {
	return filepath.Join(s.Dir(loc), forecast.FormatDate(asOf)+".json")
}

// legacyPath is the file name older versions used ("2022-07-25UTC.json").
func (s *FileStore) legacyPath(loc weather.Location, asOf time.Time) string {
	return filepath.Join(s.Dir(loc), forecast.FormatDate(asOf)+"UTC.json")
}

// Exists reports whether a snapshot file for asOf exists under the
// current or the legacy name.
func (s *FileStore) Exists(loc weather.Location, asOf time.Time) (bool, error) {
	for _, path := range []string{s.path(loc, asOf), s.legacyPath(loc, asOf)} {
		_, err := os.Stat(path)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return false, eris.Wrap(err, "store: stat snapshot")
		}
	}
	return false, nil
}

// Save writes the snapshot unless the file for its as-of date exists
// already, in which case it is a no-op. Writes go through a temp file and
// a rename so a crash never leaves a half-written snapshot.
func (s *FileStore) Save(loc weather.Location, snapshot weather.Snapshot) (bool, error) {
	exists, err := s.Exists(loc, snapshot.AsOf)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	if err := os.MkdirAll(s.Dir(loc), s.dirPermissions); err != nil {
		return false, eris.Wrap(err, "store: create data directory")
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return false, eris.Wrap(err, "store: marshal snapshot")
	}

	target := s.path(loc, snapshot.AsOf)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, s.filePermissions); err != nil {
		return false, eris.Wrap(err, "store: write snapshot")
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return false, eris.Wrap(err, "store: rename snapshot")
	}

	zap.L().Info("saved forecast snapshot", zap.String("path", target))
	return true, nil
}

// LoadAll reads every snapshot of loc, oldest first, one per as-of date.
// Files that do not decode are logged and skipped, as are further files
// for a date already loaded; I/O errors abort the load. A location without
// a directory yet has no snapshots.
func (s *FileStore) LoadAll(loc weather.Location) ([]weather.Snapshot, error) {
	dir := s.Dir(loc)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "store: read dir %s", dir)
	}

	snapshots := make([]weather.Snapshot, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		zap.L().Debug("reading snapshot", zap.String("path", path))

		content, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "store: read %s", path)
		}

		var snap weather.Snapshot
		if err := json.Unmarshal(content, &snap); err != nil {
			zap.L().Warn("cannot deserialize snapshot file", zap.String("path", path), zap.Error(err))
			continue
		}
		snapshots = append(snapshots, snap)
	}

	sortByAsOf(snapshots)
	return dedupeByAsOf(snapshots), nil
}

// dedupeByAsOf keeps the first snapshot of every as-of date of a sorted
// slice. Directory order puts "<date>.json" before "<date>UTC.json".
func dedupeByAsOf(snapshots []weather.Snapshot) []weather.Snapshot {
	out := snapshots[:0]
	for _, snap := range snapshots {
		if n := len(out); n > 0 && out[n-1].AsOf.Equal(snap.AsOf) {
			zap.L().Warn("skipping duplicate snapshot", zap.String("as_of", forecast.FormatDate(snap.AsOf)))
			continue
		}
		out = append(out, snap)
	}
	return out
}
