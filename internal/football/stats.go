package football

import (
	"fmt"

	"github.com/i474232898/forecast-history/internal/plot"
)

// Row is the flattened statistics of one player in one season.
type Row struct {
	Season            int
	PlayerID          int
	Name              string
	Goals             int
	Minutes           int
	Passes            int
	CardsWeighted     int
	GoalsPerMinute    float64
	FairnessPerMinute float64
	PassesPerMinute   float64
}

// WeightedCards counts a red card three times and a second yellow twice.
func WeightedCards(c *Cards) int {
	if c == nil {
		return 0
	}
	return 3*value(c.Red) + 2*value(c.YellowRed) + value(c.Yellow)
}

func perMinute(v, minutes int) float64 {
	if minutes == 0 {
		return 0
	}
	return float64(v) / float64(minutes)
}

// Flatten turns season results into one row per player and season, in
// input order. A player without statistics gets a zero row.
func Flatten(seasons []SeasonResults) []Row {
	var rows []Row
	for _, s := range seasons {
		for _, pr := range s.PlayerResults {
			row := Row{
				Season:   s.Season,
				PlayerID: pr.Player.ID,
				Name:     pr.Player.Lastname,
			}
			if len(pr.Statistics) > 0 {
				st := pr.Statistics[0]
				if st.Goals != nil {
					row.Goals = value(st.Goals.Total)
				}
				if st.Games != nil {
					row.Minutes = value(st.Games.Minutes)
				}
				if st.Passes != nil {
					row.Passes = value(st.Passes.Total)
				}
				row.CardsWeighted = WeightedCards(st.Cards)
			}
			row.GoalsPerMinute = perMinute(row.Goals, row.Minutes)
			row.FairnessPerMinute = perMinute(row.CardsWeighted, row.Minutes)
			row.PassesPerMinute = perMinute(row.Passes, row.Minutes)
			rows = append(rows, row)
		}
	}
	return rows
}

// FilterPlayer keeps the rows of one player.
func FilterPlayer(rows []Row, playerID int) []Row {
	var out []Row
	for _, r := range rows {
		if r.PlayerID == playerID {
			out = append(out, r)
		}
	}
	return out
}

// Pair is the statistics of both players in one season.
type Pair struct {
	Season int
	Left   Row
	Right  Row
}

// JoinBySeason inner-joins two players' rows on the season, keeping the
// order of left.
func JoinBySeason(left, right []Row) []Pair {
	bySeason := make(map[int][]Row, len(right))
	for _, r := range right {
		bySeason[r.Season] = append(bySeason[r.Season], r)
	}
	var pairs []Pair
	for _, l := range left {
		for _, r := range bySeason[l.Season] {
			pairs = append(pairs, Pair{Season: l.Season, Left: l, Right: r})
		}
	}
	return pairs
}

// Metrics returns the seasons and the goals-per-minute (x100) and
// passes-per-minute curves of both players.
func Metrics(pairs []Pair) ([]float64, []plot.Metric) {
	if len(pairs) == 0 {
		return nil, nil
	}
	seasons := make([]float64, len(pairs))
	leftGPM := make([]float64, len(pairs))
	rightGPM := make([]float64, len(pairs))
	leftPPM := make([]float64, len(pairs))
	rightPPM := make([]float64, len(pairs))
	for i, p := range pairs {
		seasons[i] = float64(p.Season)
		leftGPM[i] = p.Left.GoalsPerMinute * 100
		rightGPM[i] = p.Right.GoalsPerMinute * 100
		leftPPM[i] = p.Left.PassesPerMinute
		rightPPM[i] = p.Right.PassesPerMinute
	}
	left, right := label(pairs[0].Left), label(pairs[0].Right)
	return seasons, []plot.Metric{
		{Name: left + ".GPM", Values: leftGPM},
		{Name: right + ".GPM", Values: rightGPM},
		{Name: left + ".PPM", Values: leftPPM},
		{Name: right + ".PPM", Values: rightPPM},
	}
}

func label(r Row) string {
	if r.Name != "" {
		return r.Name
	}
	return fmt.Sprintf("player%d", r.PlayerID)
}
