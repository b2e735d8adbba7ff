package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/sighting-analytics/internal/adapter/csvfile"
	"github.com/couchcryptid/sighting-analytics/internal/adapter/mapbox"
	"github.com/couchcryptid/sighting-analytics/internal/config"
	"github.com/couchcryptid/sighting-analytics/internal/domain"
	"github.com/couchcryptid/sighting-analytics/internal/observability"
	"github.com/couchcryptid/sighting-analytics/internal/report"
)

// app carries the state shared by every subcommand.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	file   string
}

func newRootCmd(cfg *config.Config, logger *slog.Logger) *cobra.Command {
	a := &app{cfg: cfg, logger: logger}

	root := &cobra.Command{
		Use:   "sightings",
		Short: "Analytical queries over a dataset of recorded sightings",
		Long: `
sightings reads a CSV dataset of recorded sightings (date and time, city, region,
shape, duration, comments, latitude, longitude) and answers analytical queries
over it: date ranges, proximity searches, per-region and per-period aggregates.
`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&a.file, "file", "f", cfg.SightingsFile, "sightings CSV file (defaults to SIGHTINGS_FILE)")

	root.AddCommand(
		a.newReportCmd(),
		a.newServeCmd(),
		a.newBetweenCmd(),
		a.newNearCmd(),
	)
	return root
}

func (a *app) loader() (*csvfile.Loader, error) {
	if a.file == "" {
		return nil, errors.New("no sightings file: pass --file or set SIGHTINGS_FILE")
	}
	return csvfile.NewLoader(a.file, a.logger), nil
}

func (a *app) load(ctx context.Context) ([]domain.Sighting, error) {
	l, err := a.loader()
	if err != nil {
		return nil, err
	}
	return l.Load(ctx)
}

func (a *app) reportOptions() report.Options {
	return report.Options{
		TopN:         a.cfg.ReportTopN,
		LongestN:     a.cfg.ReportLongestN,
		H3Resolution: a.cfg.H3Resolution,
	}
}

// geocoder returns the hotspot geocoder, or nil when Mapbox is disabled.
func (a *app) geocoder(metrics *observability.Metrics) domain.Geocoder {
	if !a.cfg.MapboxEnabled {
		a.logger.Info("mapbox geocoding disabled")
		return nil
	}
	metrics.GeocodeEnabled.Set(1)
	client := mapbox.NewClient(a.cfg.MapboxToken, a.cfg.MapboxTimeout, metrics, a.logger)
	a.logger.Info("mapbox geocoding enabled",
		"cache_size", a.cfg.MapboxCacheSize,
		"cache_ttl", a.cfg.MapboxCacheTTL,
		"timeout", a.cfg.MapboxTimeout,
	)
	return mapbox.NewCachedGeocoder(client, a.cfg.MapboxCacheSize, a.cfg.MapboxCacheTTL, metrics)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
