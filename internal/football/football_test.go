package football

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v int) *int { return &v }

func stats(goals, minutes, passes int, cards *Cards) []Statistics {
	return []Statistics{{
		Games:  &Games{Minutes: ptr(minutes)},
		Goals:  &Goals{Total: ptr(goals)},
		Passes: &Passes{Total: ptr(passes)},
		Cards:  cards,
	}}
}

func TestWeightedCards(t *testing.T) {
	assert.Equal(t, 0, WeightedCards(nil))
	assert.Equal(t, 3*1+2*2+5, WeightedCards(&Cards{Red: ptr(1), YellowRed: ptr(2), Yellow: ptr(5)}))
	assert.Equal(t, 4, WeightedCards(&Cards{Yellow: ptr(4)}))
}

func TestFlatten(t *testing.T) {
	rows := Flatten([]SeasonResults{{
		Season: 2015,
		PlayerResults: []PlayerResults{
			{Player: Player{ID: 154, Lastname: "Messi"}, Statistics: stats(30, 3000, 1500, &Cards{Yellow: ptr(3)})},
			{Player: Player{ID: 874, Lastname: "Ronaldo"}, Statistics: stats(0, 0, 0, nil)},
			{Player: Player{ID: 7}},
		},
	}})
	require.Len(t, rows, 3)

	assert.Equal(t, 2015, rows[0].Season)
	assert.Equal(t, 30, rows[0].Goals)
	assert.Equal(t, 3, rows[0].CardsWeighted)
	assert.InDelta(t, 0.01, rows[0].GoalsPerMinute, 1e-12)
	assert.InDelta(t, 0.5, rows[0].PassesPerMinute, 1e-12)
	assert.InDelta(t, 0.001, rows[0].FairnessPerMinute, 1e-12)

	// Zero minutes yields zero ratios, not NaN.
	assert.Zero(t, rows[1].GoalsPerMinute)
	assert.Zero(t, rows[1].PassesPerMinute)

	assert.Equal(t, Row{Season: 2015, PlayerID: 7}, rows[2])
}

func TestJoinBySeasonIsInner(t *testing.T) {
	left := []Row{{Season: 2014, PlayerID: 1}, {Season: 2015, PlayerID: 1}, {Season: 2016, PlayerID: 1}}
	right := []Row{{Season: 2016, PlayerID: 2}, {Season: 2015, PlayerID: 2}, {Season: 2017, PlayerID: 2}}

	pairs := JoinBySeason(left, right)
	require.Len(t, pairs, 2)
	assert.Equal(t, 2015, pairs[0].Season)
	assert.Equal(t, 2016, pairs[1].Season)
	assert.Equal(t, 2, pairs[1].Right.PlayerID)
}

func TestMetrics(t *testing.T) {
	pairs := []Pair{{
		Season: 2015,
		Left:   Row{Name: "Messi", GoalsPerMinute: 0.01, PassesPerMinute: 0.5},
		Right:  Row{PlayerID: 874, GoalsPerMinute: 0.02, PassesPerMinute: 0.3},
	}}
	seasons, metrics := Metrics(pairs)
	assert.Equal(t, []float64{2015}, seasons)
	require.Len(t, metrics, 4)
	assert.Equal(t, "Messi.GPM", metrics[0].Name)
	assert.InDelta(t, 1.0, metrics[0].Values[0], 1e-12)
	assert.Equal(t, "player874.GPM", metrics[1].Name)
	assert.InDelta(t, 2.0, metrics[1].Values[0], 1e-12)
	assert.Equal(t, "Messi.PPM", metrics[2].Name)
	assert.InDelta(t, 0.3, metrics[3].Values[0], 1e-12)

	seasons, metrics = Metrics(nil)
	assert.Nil(t, seasons)
	assert.Nil(t, metrics)
}

func TestLoadSortsBySeasonAndSkipsMalformed(t *testing.T) {
	dir := Dir(t.TempDir(), "Spain")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	files := map[string]string{
		"b.json":      `{"season": 2016, "playerResults": []}`,
		"a.json":      `{"season": 2015, "playerResults": [{"player": {"id": 154, "firstname": "Lionel", "lastname": "Messi"}, "statistics": [{"games": {"minutes": 900, "appearences": 10}, "goals": {"total": 9, "conceded": null}, "cards": {"yellow": 1, "yellowred": 0, "red": 0}, "duels": {"total": 50, "won": 30}, "passes": {"total": 400, "accuracy": 85}}]}]}`,
		"broken.json": `{"season": `,
		"notes.txt":   `ignored`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	seasons, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, seasons, 2)
	assert.Equal(t, 2015, seasons[0].Season)
	assert.Equal(t, 2016, seasons[1].Season)
	assert.Equal(t, "Messi", seasons[0].PlayerResults[0].Player.Lastname)
	assert.Equal(t, 9, *seasons[0].PlayerResults[0].Statistics[0].Goals.Total)
	assert.Nil(t, seasons[0].PlayerResults[0].Statistics[0].Goals.Conceded)
	assert.Contains(t, dir, filepath.Join("football", "spain"))
}

func TestLoadMissingDir(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
