package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/forecast-history/internal/forecast"
	"github.com/i474232898/forecast-history/internal/weather"
)

var zurich = weather.Location{CountryCode: "CH", Zip: "8001"}

func snapshot(t *testing.T, date string, maxTemp float64) weather.Snapshot {
	t.Helper()
	asOf, err := forecast.ParseDate(date)
	require.NoError(t, err)
	payload, err := json.Marshal([]map[string]any{{"valid_date": date, "max_temp": maxTemp}})
	require.NoError(t, err)
	return weather.Snapshot{AsOf: asOf, Provider: "weatherbit", Forecast: payload}
}

func TestFileStoreSaveIsIdempotent(t *testing.T) {
	fs := NewFileStore(t.TempDir())

	written, err := fs.Save(zurich, snapshot(t, "2022-07-25", 33.6))
	require.NoError(t, err)
	assert.True(t, written)

	path := filepath.Join(fs.Dir(zurich), "2022-07-25.json")
	before, err := os.ReadFile(path)
	require.NoError(t, err)
	infoBefore, err := os.Stat(path)
	require.NoError(t, err)

	// Make a rewrite observable through the mtime.
	time.Sleep(20 * time.Millisecond)

	written, err = fs.Save(zurich, snapshot(t, "2022-07-25", -5))
	require.NoError(t, err)
	assert.False(t, written)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	infoAfter, err := os.Stat(path)
	require.NoError(t, err)

	assert.Equal(t, before, after)
	assert.Equal(t, infoBefore.ModTime(), infoAfter.ModTime())
}

func TestFileStoreLoadAllSortedAndTolerant(t *testing.T) {
	fs := NewFileStore(t.TempDir())
	for _, d := range []string{"2022-07-27", "2022-07-25", "2022-07-26"} {
		_, err := fs.Save(zurich, snapshot(t, d, 20))
		require.NoError(t, err)
	}

	dir := fs.Dir(zurich)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2022-07-28.json"), []byte("{broken"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644))
	// Legacy document written by the first version of the tool.
	legacy := `{"asOfDate":"2022-07-24UTC","forecast":[{"valid_date":"2022-07-24","max_temp":29.5}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2022-07-24.json"), []byte(legacy), 0o644))

	snaps, err := fs.LoadAll(zurich)
	require.NoError(t, err)
	require.Len(t, snaps, 4)

	var dates []string
	for _, s := range snaps {
		dates = append(dates, forecast.FormatDate(s.AsOf))
	}
	assert.Equal(t, []string{"2022-07-24", "2022-07-25", "2022-07-26", "2022-07-27"}, dates)
	assert.Empty(t, snaps[0].Provider)
	assert.Equal(t, "weatherbit", snaps[1].Provider)
}

func TestFileStoreLoadAllMissingDir(t *testing.T) {
	fs := NewFileStore(t.TempDir())
	snaps, err := fs.LoadAll(zurich)
	require.NoError(t, err)
	assert.Empty(t, snaps)
}

func TestFileStoreLoadAllIOErrorIsFatal(t *testing.T) {
	fs := NewFileStore(t.TempDir())
	_, err := fs.Save(zurich, snapshot(t, "2022-07-25", 20))
	require.NoError(t, err)

	dangling := filepath.Join(fs.Dir(zurich), "2022-07-26.json")
	require.NoError(t, os.Symlink(filepath.Join(t.TempDir(), "gone.json"), dangling))

	_, err = fs.LoadAll(zurich)
	assert.Error(t, err)
}

func TestFileStoreExists(t *testing.T) {
	fs := NewFileStore(t.TempDir())
	snap := snapshot(t, "2022-07-25", 20)

	ok, err := fs.Exists(zurich, snap.AsOf)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = fs.Save(zurich, snap)
	require.NoError(t, err)

	ok, err = fs.Exists(zurich, snap.AsOf.Add(13*time.Hour))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFileStoreLegacyFileNameCountsAsStored(t *testing.T) {
	fs := NewFileStore(t.TempDir())
	dir := fs.Dir(zurich)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	legacy := `{"asOfDate":"2022-07-25UTC","forecast":[{"valid_date":"2022-07-25","max_temp":29.5}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2022-07-25UTC.json"), []byte(legacy), 0o644))

	snap := snapshot(t, "2022-07-25", 20)
	ok, err := fs.Exists(zurich, snap.AsOf)
	require.NoError(t, err)
	assert.True(t, ok)

	written, err := fs.Save(zurich, snap)
	require.NoError(t, err)
	assert.False(t, written)
	assert.NoFileExists(t, filepath.Join(dir, "2022-07-25.json"))

	snaps, err := fs.LoadAll(zurich)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.JSONEq(t, `[{"valid_date":"2022-07-25","max_temp":29.5}]`, string(snaps[0].Forecast))
}

func TestFileStoreLoadAllKeepsOneSnapshotPerDate(t *testing.T) {
	fs := NewFileStore(t.TempDir())
	_, err := fs.Save(zurich, snapshot(t, "2022-07-25", 20))
	require.NoError(t, err)
	_, err = fs.Save(zurich, snapshot(t, "2022-07-26", 21))
	require.NoError(t, err)

	// Both names present for the same date, e.g. copied in from an old data dir.
	legacy := `{"asOfDate":"2022-07-25UTC","forecast":[{"valid_date":"2022-07-25","max_temp":99}]}`
	require.NoError(t, os.WriteFile(filepath.Join(fs.Dir(zurich), "2022-07-25UTC.json"), []byte(legacy), 0o644))

	snaps, err := fs.LoadAll(zurich)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, "2022-07-25", forecast.FormatDate(snaps[0].AsOf))
	assert.Equal(t, "weatherbit", snaps[0].Provider, "the current file name wins")
	assert.Equal(t, "2022-07-26", forecast.FormatDate(snaps[1].AsOf))
}

func TestMemoryStore(t *testing.T) {
	ms := NewMemoryStore()

	snaps, err := ms.LoadAll(zurich)
	require.NoError(t, err)
	assert.Empty(t, snaps)

	for _, d := range []string{"2022-07-26", "2022-07-25"} {
		written, err := ms.Save(zurich, snapshot(t, d, 20))
		require.NoError(t, err)
		assert.True(t, written)
	}
	written, err := ms.Save(zurich, snapshot(t, "2022-07-25", 99))
	require.NoError(t, err)
	assert.False(t, written)

	snaps, err = ms.LoadAll(zurich)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, "2022-07-25", forecast.FormatDate(snaps[0].AsOf))
	assert.JSONEq(t, `[{"valid_date":"2022-07-25","max_temp":20}]`, string(snaps[0].Forecast))

	ok, err := ms.Exists(zurich, snaps[1].AsOf)
	require.NoError(t, err)
	assert.True(t, ok)
}
