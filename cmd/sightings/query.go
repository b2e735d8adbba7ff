package main

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/sighting-analytics/internal/geo"
	"github.com/couchcryptid/sighting-analytics/internal/query"
)

func (a *app) newBetweenCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "between",
		Short: "List sightings dated within a range, newest first",
		Example: `  sightings between --from 2005-01-01 --to 2005-12-31
  sightings between --to 1999-12-31`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fromDate, err := parseDateFlag("from", from)
			if err != nil {
				return err
			}
			toDate, err := parseDateFlag("to", to)
			if err != nil {
				return err
			}

			sightings, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), query.Between(sightings, fromDate, toDate))
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first date, YYYY-MM-DD (inclusive; empty is unbounded)")
	cmd.Flags().StringVar(&to, "to", "", "last date, YYYY-MM-DD (inclusive; empty is unbounded)")
	return cmd
}

func (a *app) newNearCmd() *cobra.Command {
	var lat, lon, radius float64

	cmd := &cobra.Command{
		Use:     "near",
		Short:   "List sightings within a radius (km) of a point",
		Example: `  sightings near --lat 40.1 --lon -85.68 --radius 50`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if radius < 0 {
				return fmt.Errorf("invalid --radius %g: must not be negative", radius)
			}

			sightings, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			at := geo.Coordinates{Lat: lat, Lon: lon}
			return writeJSON(cmd.OutOrStdout(), query.NearLocation(sightings, at, radius))
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in degrees")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude in degrees")
	cmd.Flags().Float64Var(&radius, "radius", 0, "radius in kilometres")
	for _, name := range []string{"lat", "lon", "radius"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func parseDateFlag(name, value string) (civil.Date, error) {
	if value == "" {
		return civil.Date{}, nil
	}
	d, err := civil.ParseDate(value)
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid --%s %q: want YYYY-MM-DD", name, value)
	}
	return d, nil
}
