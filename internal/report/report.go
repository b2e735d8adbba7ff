// Package report assembles a dataset-wide summary from the query package.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/sighting-analytics/internal/domain"
	"github.com/couchcryptid/sighting-analytics/internal/geo"
	"github.com/couchcryptid/sighting-analytics/internal/query"
)

// Geo sources recorded on a hotspot.
const (
	GeoSourceReverse  = "reverse"
	GeoSourceOriginal = "original"
	GeoSourceFailed   = "failed"
)

// Options controls the size of ranked sections.
type Options struct {
	TopN         int // regions in TopRegions
	LongestN     int // sightings per region in LongestByRegion
	H3Resolution int // resolution for CellCounts
}

// DefaultOptions mirrors the config defaults.
func DefaultOptions() Options {
	return Options{TopN: 5, LongestN: 3, H3Resolution: 3}
}

// Hotspot is the one-degree cell with the most sightings, optionally labelled.
type Hotspot struct {
	Coordinates      geo.Coordinates `json:"coordinates"`
	PlaceName        string          `json:"place_name,omitempty"`
	FormattedAddress string          `json:"formatted_address,omitempty"`
	GeoSource        string          `json:"geo_source,omitempty"`
}

// Report summarizes a dataset. Optional sections are nil when the dataset is
// too small to answer them.
type Report struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
	Total       int       `json:"total"`

	CountByYear   map[int]int         `json:"count_by_year"`
	CountByMonth  map[string]int      `json:"count_by_month"`
	ShapesByMonth map[string][]string `json:"shapes_by_month"`
	ShapeShare    map[string]float64  `json:"shape_share"`
	CellCounts    map[string]int      `json:"cell_counts"`

	TopRegions        []query.RegionCount          `json:"top_regions"`
	LongestByRegion   map[string][]domain.Sighting `json:"longest_by_region"`
	LatestByRegion    map[string]time.Time         `json:"latest_by_region"`
	MeanCommentLength map[string]float64           `json:"mean_comment_length"`

	MeanDaysBetween *float64         `json:"mean_days_between,omitempty"`
	PeakHour        *int             `json:"peak_hour,omitempty"`
	Latest          *domain.Sighting `json:"latest,omitempty"`
	Hotspot         *Hotspot         `json:"hotspot,omitempty"`
}

// Build runs every dataset-wide query and assembles the result. A nil geocoder
// leaves the hotspot unlabelled.
func Build(ctx context.Context, sightings []domain.Sighting, opts Options, geocoder domain.Geocoder, logger *slog.Logger) (Report, error) {
	cells, err := query.CountByCell(sightings, opts.H3Resolution)
	if err != nil {
		return Report{}, fmt.Errorf("build report: %w", err)
	}

	r := Report{
		ID:                uuid.NewString(),
		GeneratedAt:       domain.Now(),
		Total:             len(sightings),
		CountByYear:       query.CountByYear(sightings),
		CountByMonth:      make(map[string]int),
		ShapesByMonth:     make(map[string][]string),
		ShapeShare:        query.ShapeShare(sightings),
		CellCounts:        make(map[string]int, len(cells)),
		TopRegions:        query.TopRegions(sightings, opts.TopN),
		LongestByRegion:   query.LongestByRegion(sightings, opts.LongestN),
		LatestByRegion:    query.LatestByRegion(sightings),
		MeanCommentLength: query.MeanCommentLengthByRegion(sightings),
	}

	for month, n := range query.CountByMonth(sightings) {
		r.CountByMonth[month.String()] = n
	}
	for month, shapes := range query.ShapesByMonth(sightings) {
		r.ShapesByMonth[month.String()] = shapes
	}
	for cell, n := range cells {
		r.CellCounts[cell.String()] = n
	}

	if mean, ok := query.MeanDaysBetween(sightings, 0); ok {
		r.MeanDaysBetween = &mean
	}
	if hour, ok := query.PeakHour(sightings); ok {
		r.PeakHour = &hour
	}
	if latest, ok := query.Latest(sightings); ok {
		r.Latest = &latest
	}
	if c, ok := query.Hotspot(sightings); ok {
		h := labelHotspot(ctx, c, geocoder, logger)
		r.Hotspot = &h
	}

	logger.Debug("report built", "report_id", r.ID, "total", r.Total)
	return r, nil
}

// labelHotspot reverse-geocodes the hotspot. Failures degrade to an unlabelled
// hotspot with GeoSource "failed".
func labelHotspot(ctx context.Context, c geo.Coordinates, geocoder domain.Geocoder, logger *slog.Logger) Hotspot {
	h := Hotspot{Coordinates: c}
	if geocoder == nil {
		return h
	}

	result, err := geocoder.ReverseGeocode(ctx, c.Lat, c.Lon)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"lat", c.Lat,
			"lon", c.Lon,
			"error", err,
		)
		h.GeoSource = GeoSourceFailed
		return h
	}
	if result.FormattedAddress == "" {
		h.GeoSource = GeoSourceOriginal
		return h
	}

	h.PlaceName = result.PlaceName
	h.FormattedAddress = result.FormattedAddress
	h.GeoSource = GeoSourceReverse
	return h
}
