package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"

	"github.com/couchcryptid/sighting-analytics/internal/domain"
	"github.com/couchcryptid/sighting-analytics/internal/observability"
	"github.com/couchcryptid/sighting-analytics/internal/report"
)

const (
	initialBackoff     = 200 * time.Millisecond
	maxBackoff         = 5 * time.Second
	maxPublishAttempts = 3
)

// Loader produces the full sighting dataset.
type Loader interface {
	Load(ctx context.Context) ([]domain.Sighting, error)
}

// Publisher delivers a finished report downstream.
type Publisher interface {
	Publish(ctx context.Context, r report.Report) error
}

// Snapshot is an immutable loaded dataset together with its report.
type Snapshot struct {
	Sightings []domain.Sighting
	Report    report.Report
}

// Pipeline loads the dataset once, builds its report and publishes it.
type Pipeline struct {
	loader    Loader
	publisher Publisher
	geocoder  domain.Geocoder
	opts      report.Options
	logger    *slog.Logger
	metrics   *observability.Metrics
	snapshot  atomic.Pointer[Snapshot]
}

// New creates a Pipeline. publisher and geocoder may be nil to disable
// publishing and hotspot labelling.
func New(l Loader, pub Publisher, geocoder domain.Geocoder, opts report.Options, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		loader:    l,
		publisher: pub,
		geocoder:  geocoder,
		opts:      opts,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once a dataset snapshot is available.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.snapshot.Load() == nil {
		return errors.New("sightings have not been loaded yet")
	}
	return nil
}

// Snapshot returns the loaded dataset, or false before the first load completes.
func (p *Pipeline) Snapshot() (*Snapshot, bool) {
	s := p.snapshot.Load()
	return s, s != nil
}

// Run loads the dataset, retrying with backoff until it succeeds or ctx is
// cancelled, then builds and publishes the report. It returns nil on
// cancellation and an error when the report cannot be built or published.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started")
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	sightings, ok := p.loadWithRetry(ctx)
	if !ok {
		p.logger.Info("pipeline stopping", "reason", ctx.Err())
		return nil
	}

	r, err := report.Build(ctx, sightings, p.opts, p.geocoder, p.logger)
	if err != nil {
		return err
	}

	p.snapshot.Store(&Snapshot{Sightings: sightings, Report: r})
	p.metrics.SightingsLoaded.Set(float64(len(sightings)))
	p.logger.Info("dataset ready", "sightings", len(sightings), "report_id", r.ID)

	if p.publisher == nil {
		return nil
	}
	return p.publishWithRetry(ctx, r)
}

func (p *Pipeline) loadWithRetry(ctx context.Context) ([]domain.Sighting, bool) {
	backoff := initialBackoff
	for {
		sightings, err := p.loader.Load(ctx)
		if err == nil {
			return sightings, true
		}
		if ctx.Err() != nil {
			return nil, false
		}
		p.metrics.LoadErrors.Inc()
		p.logger.Error("load sightings failed", "error", err, "retry_in", backoff)
		if !retry.SleepWithContext(ctx, backoff) {
			return nil, false
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}
}

func (p *Pipeline) publishWithRetry(ctx context.Context, r report.Report) error {
	backoff := initialBackoff
	var err error
	for attempt := 1; attempt <= maxPublishAttempts; attempt++ {
		if err = p.publisher.Publish(ctx, r); err == nil {
			p.metrics.ReportsPublished.Inc()
			return nil
		}
		p.metrics.PublishErrors.Inc()
		if ctx.Err() != nil {
			return nil
		}
		p.logger.Warn("publish report failed", "error", err, "attempt", attempt, "report_id", r.ID)
		if attempt < maxPublishAttempts {
			if !retry.SleepWithContext(ctx, backoff) {
				return nil
			}
			backoff = retry.NextBackoff(backoff, maxBackoff)
		}
	}
	return fmt.Errorf("publish report %s after %d attempts: %w", r.ID, maxPublishAttempts, err)
}
