package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpadapter "github.com/couchcryptid/sighting-analytics/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/sighting-analytics/internal/adapter/kafka"
	"github.com/couchcryptid/sighting-analytics/internal/observability"
	"github.com/couchcryptid/sighting-analytics/internal/pipeline"
)

func (a *app) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Load the dataset and serve the query API on HTTP_ADDR",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(parent context.Context) error {
	ldr, err := a.loader()
	if err != nil {
		return err
	}

	logger := a.logger
	metrics := observability.NewMetrics()
	geocoder := a.geocoder(metrics)

	var (
		publisher pipeline.Publisher
		kafkaPub  *kafkaadapter.Publisher
	)
	if a.cfg.PublishEnabled() {
		kafkaPub = kafkaadapter.NewPublisher(a.cfg, logger)
		publisher = kafkaPub
	} else {
		logger.Info("report publishing disabled")
	}

	p := pipeline.New(ldr, publisher, geocoder, a.reportOptions(), logger, metrics)
	srv := httpadapter.NewServer(a.cfg.HTTPAddr, p, metrics, logger)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Load the dataset and publish its report.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPub != nil {
		if err := kafkaPub.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}
