// Package geo holds the coordinate type shared by sightings and the distance
// and bucketing helpers the query layer builds on.
package geo

import (
	"fmt"
	"math"

	"github.com/uber/h3-go/v4"
)

// EarthRadiusKm is the mean Earth radius used by Distance.
const EarthRadiusKm = 6371.0

// Coordinates is a WGS-84 latitude/longitude pair in degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (c Coordinates) String() string {
	return fmt.Sprintf("(%g, %g)", c.Lat, c.Lon)
}

// Distance returns the haversine great-circle distance between a and b in kilometers.
func Distance(a, b Coordinates) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	// Rounding can push h a hair past 1 for antipodal points.
	h = math.Min(1, h)

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// Round snaps each component to the nearest integer, ties to even, so nearby
// sightings share a one-degree regional bucket. Negative zero is normalised to 0.
func Round(c Coordinates) Coordinates {
	return Coordinates{
		Lat: math.RoundToEven(c.Lat) + 0,
		Lon: math.RoundToEven(c.Lon) + 0,
	}
}

// Cell returns the H3 hexagon containing c at the given resolution (0–15).
func Cell(c Coordinates, resolution int) (h3.Cell, error) {
	cell, err := h3.LatLngToCell(h3.NewLatLng(c.Lat, c.Lon), resolution)
	if err != nil {
		return 0, fmt.Errorf("h3 cell at res %d for %s: %w", resolution, c, err)
	}
	return cell, nil
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
