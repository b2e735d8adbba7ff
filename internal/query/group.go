package query

import (
	"slices"
	"time"
	"unicode/utf8"

	"cloud.google.com/go/civil"
	"github.com/uber/h3-go/v4"

	"github.com/couchcryptid/sighting-analytics/internal/domain"
	"github.com/couchcryptid/sighting-analytics/internal/geo"
)

// RegionCount pairs a region with its number of sightings.
type RegionCount struct {
	Region string `json:"region"`
	Count  int    `json:"count"`
}

// ByDate partitions sightings by calendar day, keeping input order inside each day.
func ByDate(sightings []domain.Sighting) map[civil.Date][]domain.Sighting {
	return groupBy(sightings, domain.Sighting.Date)
}

// ByRegion partitions sightings by region, keeping input order inside each region.
func ByRegion(sightings []domain.Sighting) map[string][]domain.Sighting {
	return groupBy(sightings, func(s domain.Sighting) string { return s.Region })
}

// ShapesByMonth returns, for every month with sightings, the distinct shapes
// seen in it sorted alphabetically.
func ShapesByMonth(sightings []domain.Sighting) map[time.Month][]string {
	out := make(map[time.Month][]string)
	for month, group := range groupBy(sightings, func(s domain.Sighting) time.Month { return s.Timestamp.Month() }) {
		shapes := make([]string, 0, len(group))
		for _, s := range group {
			shapes = append(shapes, s.Shape)
		}
		slices.Sort(shapes)
		out[month] = slices.Compact(shapes)
	}
	return out
}

// CountByYear returns the number of sightings per year.
func CountByYear(sightings []domain.Sighting) map[int]int {
	return countBy(sightings, func(s domain.Sighting) int { return s.Timestamp.Year() })
}

// CountByMonth returns the number of sightings per month of the year.
func CountByMonth(sightings []domain.Sighting) map[time.Month]int {
	return countBy(sightings, func(s domain.Sighting) time.Month { return s.Timestamp.Month() })
}

// CountByCell returns the number of sightings per H3 cell at resolution.
func CountByCell(sightings []domain.Sighting, resolution int) (map[h3.Cell]int, error) {
	counts := make(map[h3.Cell]int)
	for _, s := range sightings {
		cell, err := geo.Cell(s.Coordinates, resolution)
		if err != nil {
			return nil, err
		}
		counts[cell]++
	}
	return counts, nil
}

// MeanCommentLengthByRegion returns the mean comment length, in characters, of
// the sightings in each region.
func MeanCommentLengthByRegion(sightings []domain.Sighting) map[string]float64 {
	out := make(map[string]float64)
	for region, group := range ByRegion(sightings) {
		total := 0
		for _, s := range group {
			total += utf8.RuneCountInString(s.Comment)
		}
		out[region] = float64(total) / float64(len(group))
	}
	return out
}

// ShapeShare returns the percentage (0–100) of all sightings each shape accounts for.
func ShapeShare(sightings []domain.Sighting) map[string]float64 {
	out := make(map[string]float64)
	if len(sightings) == 0 {
		return out
	}
	total := float64(len(sightings))
	for shape, n := range countBy(sightings, func(s domain.Sighting) string { return s.Shape }) {
		out[shape] = 100 * float64(n) / total
	}
	return out
}

// LongestByRegion returns up to n sightings per region, longest first. Equal
// durations keep input order.
func LongestByRegion(sightings []domain.Sighting, n int) map[string][]domain.Sighting {
	out := make(map[string][]domain.Sighting)
	if n <= 0 {
		return out
	}
	for region, group := range ByRegion(sightings) {
		slices.SortStableFunc(group, byDurationDesc)
		out[region] = group[:min(n, len(group))]
	}
	return out
}

// TopRegions returns the n regions with the most sightings, by descending
// count. Regions with equal counts keep the order they first appear in.
func TopRegions(sightings []domain.Sighting, n int) []RegionCount {
	if n <= 0 {
		return []RegionCount{}
	}
	t := newTally[string]()
	for _, s := range sightings {
		t.add(s.Region, 1)
	}
	ranked := t.ranked()
	out := make([]RegionCount, 0, min(n, len(ranked)))
	for _, region := range ranked[:min(n, len(ranked))] {
		out = append(out, RegionCount{Region: region, Count: t.counts[region]})
	}
	return out
}

// DurationByYear returns the summed duration per year of the sightings in region.
func DurationByYear(sightings []domain.Sighting, region string) map[int]int {
	out := make(map[int]int)
	for _, s := range sightings {
		if s.Region == region {
			out[s.Timestamp.Year()] += s.Duration
		}
	}
	return out
}

// LatestByRegion returns the timestamp of the most recent sighting in each region.
func LatestByRegion(sightings []domain.Sighting) map[string]time.Time {
	out := make(map[string]time.Time)
	for _, s := range sightings {
		if latest, ok := out[s.Region]; !ok || s.Timestamp.After(latest) {
			out[s.Region] = s.Timestamp
		}
	}
	return out
}
