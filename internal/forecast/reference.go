package forecast

import "github.com/rotisserie/eris"

// ReferenceMode selects how the zero-error baseline is built.
type ReferenceMode string

const (
	// ReferenceNowcast takes the first point of every curve in as-of order:
	// for each day, what the forecast issued that day said about that day.
	// It is the default. Unlike ReferenceEarliest it stitches the baseline
	// from many snapshots instead of taking the curve of a single one.
	ReferenceNowcast ReferenceMode = "nowcast"
	// ReferenceEarliest takes the complete curve of the earliest snapshot.
	ReferenceEarliest ReferenceMode = "earliest"
)

// ParseReferenceMode validates a configured mode; empty means nowcast.
func ParseReferenceMode(s string) (ReferenceMode, error) {
	switch ReferenceMode(s) {
	case "", ReferenceNowcast:
		return ReferenceNowcast, nil
	case ReferenceEarliest:
		return ReferenceEarliest, nil
	default:
		return "", eris.Errorf("forecast: unknown reference mode %q", s)
	}
}

// Reference resolves the reference curve from curves sorted by as-of date
// ascending. It never picks the most recent snapshot as baseline.
func Reference(curves []Curve, mode ReferenceMode) []Point {
	if mode == ReferenceEarliest {
		if len(curves) == 0 {
			return nil
		}
		ref := make([]Point, len(curves[0].Points))
		copy(ref, curves[0].Points)
		return ref
	}

	ref := make([]Point, 0, len(curves))
	for _, c := range curves {
		if len(c.Points) == 0 {
			continue
		}
		ref = append(ref, c.Points[0])
	}
	return ref
}
