// Package csvfile loads sightings from the CSV export format.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/sighting-analytics/internal/domain"
	"github.com/couchcryptid/sighting-analytics/internal/geo"
)

// TimestampLayout is the datetime format of the first column, e.g. "5/1/2005 21:00".
const TimestampLayout = "1/2/2006 15:04"

const columns = 8

// ErrMalformedRow is wrapped by every per-row parse failure.
var ErrMalformedRow = errors.New("malformed sighting row")

// Loader reads sightings from a CSV file on disk.
type Loader struct {
	path   string
	logger *slog.Logger
}

// NewLoader creates a Loader for the file at path.
func NewLoader(path string, logger *slog.Logger) *Loader {
	return &Loader{path: path, logger: logger}
}

// Load opens the file and parses every row. It honours ctx cancellation
// between rows.
func (l *Loader) Load(ctx context.Context) ([]domain.Sighting, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open sightings file: %w", err)
	}
	defer f.Close()

	start := time.Now()
	sightings, err := read(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", l.path, err)
	}

	l.logger.Info("sightings loaded",
		"path", l.path,
		"count", len(sightings),
		"duration", time.Since(start),
	)
	return sightings, nil
}

// Read parses CSV data with a header row into sightings.
func Read(r io.Reader) ([]domain.Sighting, error) {
	return read(context.Background(), r)
}

func read(ctx context.Context, r io.Reader) ([]domain.Sighting, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = columns

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return []domain.Sighting{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	var sightings []domain.Sighting
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		line, _ := reader.FieldPos(0)
		s, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		sightings = append(sightings, s)
	}

	if sightings == nil {
		sightings = []domain.Sighting{}
	}
	return sightings, nil
}

// parseRecord maps one CSV row to a Sighting.
func parseRecord(record []string) (domain.Sighting, error) {
	ts, err := time.Parse(TimestampLayout, strings.TrimSpace(record[0]))
	if err != nil {
		return domain.Sighting{}, fmt.Errorf("%w: datetime %q", ErrMalformedRow, record[0])
	}

	duration, err := strconv.Atoi(strings.TrimSpace(record[4]))
	if err != nil {
		return domain.Sighting{}, fmt.Errorf("%w: duration %q", ErrMalformedRow, record[4])
	}

	lat, err := parseDegrees("latitude", record[6])
	if err != nil {
		return domain.Sighting{}, err
	}

	lon, err := parseDegrees("longitude", record[7])
	if err != nil {
		return domain.Sighting{}, err
	}

	return domain.Sighting{
		Timestamp:   ts,
		City:        record[1],
		Region:      record[2],
		Shape:       record[3],
		Duration:    duration,
		Comment:     record[5],
		Coordinates: geo.Coordinates{Lat: lat, Lon: lon},
	}, nil
}

// parseDegrees parses a coordinate component. NaN and infinities are rejected.
func parseDegrees(name, field string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s %q", ErrMalformedRow, name, field)
	}
	return v, nil
}
