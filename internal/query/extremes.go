package query

import (
	"cmp"
	"slices"
	"unicode/utf8"

	"github.com/couchcryptid/sighting-analytics/internal/domain"
	"github.com/couchcryptid/sighting-analytics/internal/geo"
)

// LongestOfShape returns the longest-lasting sighting of shape.
func LongestOfShape(sightings []domain.Sighting, shape string) (domain.Sighting, bool) {
	return maxBy(WithShape(sightings, shape), func(s domain.Sighting) int { return s.Duration })
}

// LongestNear returns the duration and comment of the longest sighting within
// radiusKm of at. Equal durations are broken by the lexically greater comment.
func LongestNear(sightings []domain.Sighting, at geo.Coordinates, radiusKm float64) (int, string, bool) {
	var (
		duration int
		comment  string
		found    bool
	)
	for _, s := range NearLocation(sightings, at, radiusKm) {
		if !found || s.Duration > duration || (s.Duration == duration && s.Comment > comment) {
			duration, comment, found = s.Duration, s.Comment, true
		}
	}
	return duration, comment, found
}

// LongestComment returns the sighting from year whose comment mentions word
// and is the longest, measured in characters.
func LongestComment(sightings []domain.Sighting, year int, word string) (domain.Sighting, bool) {
	return maxBy(Mentioning(InYear(sightings, year), word), func(s domain.Sighting) int {
		return utf8.RuneCountInString(s.Comment)
	})
}

// MeanDaysBetween returns the mean number of days between chronologically
// consecutive sightings. A non-zero year restricts the calculation to that
// year. At least two sightings are needed.
func MeanDaysBetween(sightings []domain.Sighting, year int) (float64, bool) {
	if year != 0 {
		sightings = InYear(sightings, year)
	}
	gaps := DayGaps(sightings)
	if len(gaps) == 0 {
		return 0, false
	}
	total := 0
	for _, g := range gaps {
		total += g
	}
	return float64(total) / float64(len(gaps)), true
}

// DayGaps returns the whole days elapsed between each pair of chronologically
// consecutive sightings.
func DayGaps(sightings []domain.Sighting) []int {
	if len(sightings) < 2 {
		return nil
	}
	sorted := slices.Clone(sightings)
	slices.SortFunc(sorted, domain.Compare)

	gaps := make([]int, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		gaps = append(gaps, sorted[i].Date().DaysSince(sorted[i-1].Date()))
	}
	return gaps
}

// Hotspot returns the rounded coordinates that collect the most sightings.
func Hotspot(sightings []domain.Sighting) (geo.Coordinates, bool) {
	t := newTally[geo.Coordinates]()
	for _, s := range sightings {
		t.add(geo.Round(s.Coordinates), 1)
	}
	c, _, ok := t.top()
	return c, ok
}

// PeakHour returns the hour of day, 0 to 23, with the most sightings.
func PeakHour(sightings []domain.Sighting) (int, bool) {
	t := newTally[int]()
	for _, s := range sightings {
		t.add(s.Timestamp.Hour(), 1)
	}
	h, _, ok := t.top()
	return h, ok
}

// PeakYearForShape returns the year with the most sightings of shape.
func PeakYearForShape(sightings []domain.Sighting, shape string) (int, bool) {
	t := newTally[int]()
	for _, s := range WithShape(sightings, shape) {
		t.add(s.Timestamp.Year(), 1)
	}
	y, _, ok := t.top()
	return y, ok
}

// Latest returns the most recent sighting; later fields of the natural order
// break timestamp ties.
func Latest(sightings []domain.Sighting) (domain.Sighting, bool) {
	if len(sightings) == 0 {
		return domain.Sighting{}, false
	}
	return slices.MaxFunc(sightings, domain.Compare), true
}

func byDurationDesc(a, b domain.Sighting) int {
	return cmp.Compare(b.Duration, a.Duration)
}
