// Package forecast derives uncertainty bands from a history of overlapping
// forecast curves. It is pure: every function works on values handed to it
// and never touches the store, the network or shared state.
package forecast

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const dateLayout = "2006-01-02"

// Point is a single forecast value for one calendar date.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Curve is the ordered point sequence extracted from one snapshot.
// Points keep payload order.
type Curve struct {
	AsOf   time.Time `json:"asOf"`
	Points []Point   `json:"points"`
}

// ParseDate parses a calendar date into UTC midnight. Legacy snapshot files
// carry a "UTC" suffix ("2022-07-25UTC"), which is accepted.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "UTC"))
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "forecast: parse date %q", s)
	}
	return t, nil
}

// Truncate returns t's calendar date at UTC midnight.
func Truncate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a calendar date the way snapshot files are named.
func FormatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}
