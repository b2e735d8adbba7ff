package query

import (
	"slices"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/couchcryptid/sighting-analytics/internal/domain"
	"github.com/couchcryptid/sighting-analytics/internal/geo"
)

// CountOnDate returns how many sightings happened on date.
func CountOnDate(sightings []domain.Sighting, date civil.Date) int {
	n := 0
	for _, s := range sightings {
		if s.Date() == date {
			n++
		}
	}
	return n
}

// DistinctShapes returns the number of distinct shapes reported in any of the
// given regions.
func DistinctShapes(sightings []domain.Sighting, regions ...string) int {
	shapes := make(map[string]struct{})
	for _, s := range sightings {
		if slices.Contains(regions, s.Region) {
			shapes[s.Shape] = struct{}{}
		}
	}
	return len(shapes)
}

// TotalDuration returns the summed duration in seconds of the sightings in region.
func TotalDuration(sightings []domain.Sighting, region string) int {
	total := 0
	for _, s := range sightings {
		if s.Region == region {
			total += s.Duration
		}
	}
	return total
}

// NearLocation returns the sightings strictly closer than radiusKm to at, in
// input order.
func NearLocation(sightings []domain.Sighting, at geo.Coordinates, radiusKm float64) []domain.Sighting {
	return filter(sightings, func(s domain.Sighting) bool {
		return geo.Distance(s.Coordinates, at) < radiusKm
	})
}

// Between returns the sightings dated within [from, to], both inclusive, newest
// first. A zero bound leaves that side of the range open.
func Between(sightings []domain.Sighting, from, to civil.Date) []domain.Sighting {
	out := filter(sightings, func(s domain.Sighting) bool {
		d := s.Date()
		if !from.IsZero() && d.Before(from) {
			return false
		}
		if !to.IsZero() && d.After(to) {
			return false
		}
		return true
	})
	slices.SortFunc(out, func(a, b domain.Sighting) int {
		return domain.Compare(b, a)
	})
	return out
}

// WithShape returns the sightings of the given shape, in input order.
func WithShape(sightings []domain.Sighting, shape string) []domain.Sighting {
	return filter(sightings, func(s domain.Sighting) bool { return s.Shape == shape })
}

// InYear returns the sightings of the given year, in input order.
func InYear(sightings []domain.Sighting, year int) []domain.Sighting {
	return filter(sightings, func(s domain.Sighting) bool { return s.Timestamp.Year() == year })
}

// Mentioning returns the sightings whose comment contains word, case-sensitively.
func Mentioning(sightings []domain.Sighting, word string) []domain.Sighting {
	return filter(sightings, func(s domain.Sighting) bool { return strings.Contains(s.Comment, word) })
}
