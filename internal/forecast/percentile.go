package forecast

import "sort"

// MinSamples is the number of independent curves that must contribute a
// value at a coordinate before any band point is emitted there.
const MinSamples = 5

// Levels are the percentile levels every band family is computed for.
var Levels = []int{20, 40, 60, 80}

// Percentile returns the nearest-rank value at level (0-100) of samples:
// the element at floor(n*level/100) of the ascending order. Fewer than
// MinSamples samples yield false. samples is not modified.
func Percentile(samples []float64, level int) (float64, bool) {
	if len(samples) < MinSamples {
		return 0, false
	}
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)
	return sorted[rank(len(sorted), level)], true
}

// rank is floor(n*level/100) in integer arithmetic; for level < 100 it is
// always below n.
func rank(n, level int) int {
	return n * level / 100
}

// sortedGroups holds per-coordinate samples, each already sorted, so that
// every level reads from the same ordering.
type sortedGroups[K comparable] struct {
	keys   []K
	values map[K][]float64
}

func newSortedGroups[K comparable]() *sortedGroups[K] {
	return &sortedGroups[K]{values: make(map[K][]float64)}
}

func (g *sortedGroups[K]) add(k K, v float64) {
	if _, ok := g.values[k]; !ok {
		g.keys = append(g.keys, k)
	}
	g.values[k] = append(g.values[k], v)
}

// finish sorts the samples of every key and orders keys with less.
func (g *sortedGroups[K]) finish(less func(a, b K) bool) {
	for _, vs := range g.values {
		sort.Float64s(vs)
	}
	sort.SliceStable(g.keys, func(i, j int) bool { return less(g.keys[i], g.keys[j]) })
}

// level calls emit for every key with enough samples, in key order.
func (g *sortedGroups[K]) level(level int, emit func(k K, v float64)) {
	for _, k := range g.keys {
		vs := g.values[k]
		if len(vs) < MinSamples {
			continue
		}
		emit(k, vs[rank(len(vs), level)])
	}
}
