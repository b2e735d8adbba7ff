// Command sightings loads a sighting dataset and answers analytical queries
// over it, either once from the command line or continuously over HTTP.
package main

import (
	"log/slog"
	"os"

	"github.com/couchcryptid/sighting-analytics/internal/config"
	"github.com/couchcryptid/sighting-analytics/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)

	if err := newRootCmd(cfg, logger).Execute(); err != nil {
		os.Exit(1)
	}
}
