package main

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	kafkaadapter "github.com/couchcryptid/sighting-analytics/internal/adapter/kafka"
	"github.com/couchcryptid/sighting-analytics/internal/observability"
	"github.com/couchcryptid/sighting-analytics/internal/report"
)

func (a *app) newReportCmd() *cobra.Command {
	var publish bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build the dataset report and print it as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if publish && !a.cfg.PublishEnabled() {
				return errors.New("--publish requires KAFKA_BROKERS")
			}

			ctx := cmd.Context()
			sightings, err := a.load(ctx)
			if err != nil {
				return err
			}

			metrics := observability.NewMetricsWith(prometheus.NewRegistry())
			r, err := report.Build(ctx, sightings, a.reportOptions(), a.geocoder(metrics), a.logger)
			if err != nil {
				return err
			}

			if publish {
				pub := kafkaadapter.NewPublisher(a.cfg, a.logger)
				defer func() {
					if err := pub.Close(); err != nil {
						a.logger.Error("kafka publisher close error", "error", err)
					}
				}()
				if err := pub.Publish(ctx, r); err != nil {
					return fmt.Errorf("publish report: %w", err)
				}
			}

			return writeJSON(cmd.OutOrStdout(), r)
		},
	}
	cmd.Flags().BoolVar(&publish, "publish", false, "also publish the report to KAFKA_REPORT_TOPIC")
	return cmd
}
