package forecast

import "time"

// day is the lead-time unit used by charts and the API.
const day = 24 * time.Hour

// LeadPoint is the forecast error percentile for one lead time.
type LeadPoint struct {
	Lead  time.Duration `json:"lead"`
	Value float64       `json:"value"`
}

// Days returns the lead time in whole days.
func (p LeadPoint) Days() int {
	return int(p.Lead / day)
}

// LeadOptions controls the lead-time aggregation.
type LeadOptions struct {
	// KeepNegativeLeads keeps points dated before their curve's as-of date.
	// They are not forecasts, so by default they are dropped.
	KeepNegativeLeads bool
}

// LeadStats reports what the lead-time aggregation left out.
type LeadStats struct {
	BeyondReference int `json:"beyondReference"`
	NegativeLeads   int `json:"negativeLeads"`
}

// LeadTimeBands groups the error of every point against the reference
// value for the same date by lead time (date minus as-of date) and returns
// a per-level sequence sorted by lead. Points whose date the reference does
// not cover are excluded.
func LeadTimeBands(reference []Point, curves []Curve, opts LeadOptions) (map[int][]LeadPoint, LeadStats) {
	refByDate := make(map[time.Time]float64, len(reference))
	for _, p := range reference {
		refByDate[p.Date] = p.Value
	}

	var stats LeadStats
	groups := newSortedGroups[time.Duration]()
	for _, c := range curves {
		for _, p := range c.Points {
			ref, ok := refByDate[p.Date]
			if !ok {
				stats.BeyondReference++
				continue
			}
			lead := p.Date.Sub(c.AsOf)
			if lead < 0 && !opts.KeepNegativeLeads {
				stats.NegativeLeads++
				continue
			}
			groups.add(lead, p.Value-ref)
		}
	}
	groups.finish(func(a, b time.Duration) bool { return a < b })

	bands := make(map[int][]LeadPoint, len(Levels))
	for _, level := range Levels {
		curve := []LeadPoint{}
		groups.level(level, func(lead time.Duration, v float64) {
			curve = append(curve, LeadPoint{Lead: lead, Value: v})
		})
		bands[level] = curve
	}
	return bands, stats
}
