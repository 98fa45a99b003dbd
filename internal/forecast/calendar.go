package forecast

import "time"

// DateBand is one percentile level over calendar dates.
type DateBand struct {
	Level  int     `json:"level"`
	Points []Point `json:"points"`
}

// CalendarBands groups every point of every curve by calendar date and
// returns one band per level in Levels order, each sorted by date. Dates
// with fewer than MinSamples contributing curves are left out.
func CalendarBands(curves []Curve) []DateBand {
	groups := newSortedGroups[time.Time]()
	for _, c := range curves {
		for _, p := range c.Points {
			groups.add(p.Date, p.Value)
		}
	}
	groups.finish(func(a, b time.Time) bool { return a.Before(b) })

	bands := make([]DateBand, 0, len(Levels))
	for _, level := range Levels {
		band := DateBand{Level: level, Points: []Point{}}
		groups.level(level, func(d time.Time, v float64) {
			band.Points = append(band.Points, Point{Date: d, Value: v})
		})
		bands = append(bands, band)
	}
	return bands
}
