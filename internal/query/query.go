// Package query answers analytical questions over an in-memory list of
// sightings.
//
// Every function is pure: inputs are never modified and every returned slice or
// map is freshly allocated. Functions that select a single record return a
// trailing ok bool that is false when nothing qualifies (empty input or nothing
// left after filtering). Limits n <= 0 and negative radii produce empty results.
//
// Where several candidates tie for a maximum the one encountered first in the
// input wins, unless a function documents a different tie-break.
package query

import (
	"slices"

	"github.com/couchcryptid/sighting-analytics/internal/domain"
)

// tally counts occurrences per key and remembers the order keys were first
// seen, which is what breaks ties.
type tally[K comparable] struct {
	counts map[K]int
	order  []K
}

func newTally[K comparable]() *tally[K] {
	return &tally[K]{counts: make(map[K]int)}
}

func (t *tally[K]) add(key K, n int) {
	if _, seen := t.counts[key]; !seen {
		t.order = append(t.order, key)
	}
	t.counts[key] += n
}

// top returns the key with the highest count; the earliest-seen key wins ties.
func (t *tally[K]) top() (K, int, bool) {
	var (
		best  K
		count int
		found bool
	)
	for _, k := range t.order {
		if c := t.counts[k]; !found || c > count {
			best, count, found = k, c, true
		}
	}
	return best, count, found
}

// ranked returns keys by descending count, earliest-seen first among equals.
func (t *tally[K]) ranked() []K {
	keys := slices.Clone(t.order)
	slices.SortStableFunc(keys, func(a, b K) int {
		return t.counts[b] - t.counts[a]
	})
	return keys
}

func groupBy[K comparable](sightings []domain.Sighting, key func(domain.Sighting) K) map[K][]domain.Sighting {
	groups := make(map[K][]domain.Sighting)
	for _, s := range sightings {
		k := key(s)
		groups[k] = append(groups[k], s)
	}
	return groups
}

func countBy[K comparable](sightings []domain.Sighting, key func(domain.Sighting) K) map[K]int {
	counts := make(map[K]int)
	for _, s := range sightings {
		counts[key(s)]++
	}
	return counts
}

func filter(sightings []domain.Sighting, keep func(domain.Sighting) bool) []domain.Sighting {
	out := make([]domain.Sighting, 0, len(sightings))
	for _, s := range sightings {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

// maxBy returns the first sighting with the greatest score.
func maxBy(sightings []domain.Sighting, score func(domain.Sighting) int) (domain.Sighting, bool) {
	if len(sightings) == 0 {
		return domain.Sighting{}, false
	}
	best := sightings[0]
	bestScore := score(best)
	for _, s := range sightings[1:] {
		if v := score(s); v > bestScore {
			best, bestScore = s, v
		}
	}
	return best, true
}
