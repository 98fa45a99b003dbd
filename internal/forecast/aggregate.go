package forecast

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Options configures one aggregation run.
type Options struct {
	Reference ReferenceMode
	Lead      LeadOptions
}

// Stats summarizes the inputs of a run.
type Stats struct {
	Curves int `json:"curves"`
	Points int `json:"points"`
	LeadStats
}

// Result is the output of one aggregation run. It is never modified after
// Aggregate returns and may be shared by any number of readers.
type Result struct {
	RunID         string              `json:"runId"`
	CreatedAt     time.Time           `json:"createdAt"`
	Curves        []Curve             `json:"curves"`
	Reference     []Point             `json:"reference"`
	CalendarBands []DateBand          `json:"calendarBands"`
	LeadBands     map[int][]LeadPoint `json:"leadBands"`
	Stats         Stats               `json:"stats"`
}

// Aggregate sorts a copy of curves by as-of date and derives the reference
// curve and both band families from it.
func Aggregate(curves []Curve, opts Options) *Result {
	sorted := make([]Curve, len(curves))
	copy(sorted, curves)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].AsOf.Before(sorted[j].AsOf) })

	mode := opts.Reference
	if mode == "" {
		mode = ReferenceNowcast
	}

	ref := Reference(sorted, mode)
	leadBands, leadStats := LeadTimeBands(ref, sorted, opts.Lead)

	stats := Stats{Curves: len(sorted), LeadStats: leadStats}
	for _, c := range sorted {
		stats.Points += len(c.Points)
	}

	return &Result{
		RunID:         uuid.NewString(),
		CreatedAt:     time.Now().UTC(),
		Curves:        sorted,
		Reference:     ref,
		CalendarBands: CalendarBands(sorted),
		LeadBands:     leadBands,
		Stats:         stats,
	}
}

// LeadBand returns the lead-time band for level, or nil.
func (r *Result) LeadBand(level int) []LeadPoint {
	return r.LeadBands[level]
}

// CalendarBand returns the calendar-date band for level, or nil.
func (r *Result) CalendarBand(level int) []Point {
	for _, b := range r.CalendarBands {
		if b.Level == level {
			return b.Points
		}
	}
	return nil
}

// ReferenceOn returns the reference value for date.
func (r *Result) ReferenceOn(date time.Time) (float64, bool) {
	date = Truncate(date)
	for _, p := range r.Reference {
		if p.Date.Equal(date) {
			return p.Value, true
		}
	}
	return 0, false
}
