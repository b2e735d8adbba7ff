package domain

import (
	"cmp"
	"time"

	"cloud.google.com/go/civil"

	"github.com/couchcryptid/sighting-analytics/internal/geo"
)

// Sighting is one recorded observation. It is a value type; queries copy it
// freely and never modify it.
type Sighting struct {
	Timestamp   time.Time       `json:"timestamp"`
	City        string          `json:"city"`
	Region      string          `json:"region"`
	Shape       string          `json:"shape"`
	Duration    int             `json:"duration"` // seconds
	Comment     string          `json:"comment,omitempty"`
	Coordinates geo.Coordinates `json:"coordinates"`
}

// Date returns the calendar day the sighting happened on.
func (s Sighting) Date() civil.Date {
	return civil.DateOf(s.Timestamp)
}

// Compare orders sightings by timestamp, then city, region, shape, duration,
// comment, latitude and longitude. It returns -1, 0 or +1.
func Compare(a, b Sighting) int {
	if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
		return c
	}
	if c := cmp.Compare(a.City, b.City); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Region, b.Region); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Shape, b.Shape); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Duration, b.Duration); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Comment, b.Comment); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Coordinates.Lat, b.Coordinates.Lat); c != 0 {
		return c
	}
	return cmp.Compare(a.Coordinates.Lon, b.Coordinates.Lon)
}
