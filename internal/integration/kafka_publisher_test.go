//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/sighting-analytics/internal/adapter/csvfile"
	"github.com/couchcryptid/sighting-analytics/internal/adapter/kafka"
	"github.com/couchcryptid/sighting-analytics/internal/config"
	"github.com/couchcryptid/sighting-analytics/internal/observability"
	"github.com/couchcryptid/sighting-analytics/internal/pipeline"
	"github.com/couchcryptid/sighting-analytics/internal/report"
)

const testReportTopic = "test-sighting-reports"

const testCSV = `datetime,city,state,shape,duration,comments,latitude,longitude
5/1/2005 21:00,anderson,in,light,120,Bright light over the field,40.1,-85.68
7/4/2006 22:00,seattle,wa,circle,60,Round object,47.6,-122.33
8/9/2006 03:15,muncie,in,light,900,Hovering light,40.19,-85.39
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node KRaft broker and returns its bootstrap address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("sightings-test"))
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminate kafka container: %v", err)
		}
	})
	require.NoError(t, err, "start kafka container")

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

type publishedReport struct {
	Report  report.Report
	Key     string
	Headers map[string]string
}

func readReport(ctx context.Context, t *testing.T, broker string) publishedReport {
	t.Helper()

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testReportTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from report topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var r report.Report
	require.NoError(t, json.Unmarshal(msg.Value, &r), "unmarshal report message")

	return publishedReport{Report: r, Key: string(msg.Key), Headers: headers}
}

func testConfig(broker string) *config.Config {
	return &config.Config{
		KafkaBrokers:     []string{broker},
		KafkaReportTopic: testReportTopic,
	}
}

// TestPublisher_RoundTrip verifies a report written by kafka.Publisher can be
// read back with its key and headers intact.
func TestPublisher_RoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testReportTopic)

	pub := kafka.NewPublisher(testConfig(broker), discardLogger())
	t.Cleanup(func() { _ = pub.Close() })

	sent := report.Report{
		ID:          "3f1c9a52-2d8e-4c1b-9a57-0e6a4a1f2b10",
		GeneratedAt: time.Date(2024, time.April, 26, 12, 0, 0, 0, time.UTC),
		Total:       42,
		CountByYear: map[int]int{2005: 40, 2006: 2},
	}
	require.NoError(t, pub.Publish(ctx, sent))

	got := readReport(ctx, t, broker)
	assert.Equal(t, sent.ID, got.Key)
	assert.Equal(t, sent.ID, got.Headers["report_id"])
	assert.Equal(t, "2024-04-26T12:00:00Z", got.Headers["generated_at"])
	assert.Equal(t, sent.Total, got.Report.Total)
	assert.Equal(t, sent.CountByYear, got.Report.CountByYear)
}

// TestPipelineEndToEnd loads a CSV file, builds its report and publishes it to
// a real broker.
func TestPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testReportTopic)

	path := filepath.Join(t.TempDir(), "sightings.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0o600))

	pub := kafka.NewPublisher(testConfig(broker), discardLogger())
	t.Cleanup(func() { _ = pub.Close() })

	metrics := observability.NewMetricsForTesting()
	p := pipeline.New(csvfile.NewLoader(path, discardLogger()), pub, nil, report.DefaultOptions(), discardLogger(), metrics)

	require.NoError(t, p.Run(ctx))

	snap, ok := p.Snapshot()
	require.True(t, ok)

	got := readReport(ctx, t, broker)
	assert.Equal(t, snap.Report.ID, got.Key)
	assert.Equal(t, 3, got.Report.Total)
	assert.Equal(t, map[int]int{2005: 1, 2006: 2}, got.Report.CountByYear)
	require.Len(t, got.Report.TopRegions, 2)
	assert.Equal(t, "in", got.Report.TopRegions[0].Region)
	assert.Equal(t, 2, got.Report.TopRegions[0].Count)
}
