package football

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Dir returns the directory holding the season files of a league.
func Dir(dataDir, country string) string {
	return filepath.Join(dataDir, "football", strings.ToLower(country))
}

// Load reads every season file in dir, sorted by season. Files that do
// not decode are logged and skipped.
func Load(dir string) ([]SeasonResults, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "football: read %s", dir)
	}

	var seasons []SeasonResults
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "football: read %s", path)
		}
		var s SeasonResults
		if err := json.Unmarshal(data, &s); err != nil {
			zap.L().Warn("skipping malformed season file", zap.String("path", path), zap.Error(err))
			continue
		}
		seasons = append(seasons, s)
	}
	sort.SliceStable(seasons, func(i, j int) bool { return seasons[i].Season < seasons[j].Season })

	zap.L().Info("loaded football seasons", zap.String("dir", dir), zap.Int("seasons", len(seasons)))
	return seasons, nil
}
