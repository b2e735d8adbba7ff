package query_test

import (
	"time"

	"github.com/couchcryptid/sighting-analytics/internal/domain"
	"github.com/couchcryptid/sighting-analytics/internal/geo"
)

var andersonIN = geo.Coordinates{Lat: 40.1933333, Lon: -85.3863889}

func at(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

// fixture returns six sightings across four regions and two years. Indexes are
// referenced by the tests, so append only.
func fixture() []domain.Sighting {
	return []domain.Sighting{
		{
			Timestamp: at(2005, time.May, 1, 21, 0), City: "anderson", Region: "in", Shape: "light",
			Duration: 120, Comment: "Bright light hovering", Coordinates: andersonIN,
		},
		{
			Timestamp: at(2005, time.May, 1, 22, 30), City: "muncie", Region: "in", Shape: "circle",
			Duration: 300, Comment: "Circle of lights over the field", Coordinates: geo.Coordinates{Lat: 40.1933, Lon: -85.3864},
		},
		{
			Timestamp: at(2005, time.July, 14, 21, 15), City: "seattle", Region: "wa", Shape: "triangle",
			Duration: 60, Comment: "Triangle shaped craft", Coordinates: geo.Coordinates{Lat: 47.6063889, Lon: -122.3308333},
		},
		{
			Timestamp: at(2006, time.January, 20, 3, 0), City: "albuquerque", Region: "nm", Shape: "circle",
			Duration: 900, Comment: "Silent circle moving slowly", Coordinates: geo.Coordinates{Lat: 35.0844444, Lon: -106.6505556},
		},
		{
			Timestamp: at(2006, time.July, 4, 21, 45), City: "pittsburgh", Region: "pa", Shape: "light",
			Duration: 300, Comment: "Light during fireworks", Coordinates: geo.Coordinates{Lat: 40.4405556, Lon: -79.9961111},
		},
		{
			Timestamp: at(2006, time.December, 31, 23, 59), City: "spokane", Region: "wa", Shape: "circle",
			Duration: 900, Comment: "Circle at midnight light", Coordinates: geo.Coordinates{Lat: 47.6588889, Lon: -117.425},
		},
	}
}

func pick(all []domain.Sighting, idx ...int) []domain.Sighting {
	out := make([]domain.Sighting, 0, len(idx))
	for _, i := range idx {
		out = append(out, all[i])
	}
	return out
}
