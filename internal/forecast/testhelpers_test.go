package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

// makeCurve builds a contiguous daily curve starting at start.
func makeCurve(t *testing.T, asOf, start string, values ...float64) Curve {
	t.Helper()
	first := mustDate(t, start)
	points := make([]Point, len(values))
	for i, v := range values {
		points[i] = Point{Date: first.AddDate(0, 0, i), Value: v}
	}
	return Curve{AsOf: mustDate(t, asOf), Points: points}
}

func leads(band []LeadPoint) []int {
	out := make([]int, len(band))
	for i, p := range band {
		out[i] = p.Days()
	}
	return out
}
