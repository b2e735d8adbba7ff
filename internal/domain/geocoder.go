package domain

import "context"

// GeocodingResult contains place data returned by a geocoding provider.
type GeocodingResult struct {
	Lat              float64
	Lon              float64
	FormattedAddress string
	PlaceName        string
	Confidence       float64 // 0.0–1.0 provider confidence score
}

// Geocoder labels coordinates with a human-readable place.
type Geocoder interface {
	// ReverseGeocode converts coordinates to place details. An empty result
	// with a nil error means the provider knows no place there.
	ReverseGeocode(ctx context.Context, lat, lon float64) (GeocodingResult, error)
}
