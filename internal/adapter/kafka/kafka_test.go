package kafka

import (
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/sighting-analytics/internal/config"
	"github.com/couchcryptid/sighting-analytics/internal/query"
	"github.com/couchcryptid/sighting-analytics/internal/report"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	r := report.Report{
		ID:          "rpt-1",
		GeneratedAt: now,
		Total:       2,
		TopRegions:  []query.RegionCount{{Region: "in", Count: 2}},
	}

	msg, err := serializeToMessage(r)
	require.NoError(t, err)

	assert.Equal(t, []byte("rpt-1"), msg.Key)
	assert.Contains(t, string(msg.Value), `"total":2`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "report_id", msg.Headers[0].Key)
	assert.Equal(t, []byte("rpt-1"), msg.Headers[0].Value)
	assert.Equal(t, "generated_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)

	var decoded report.Report
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, r.TopRegions, decoded.TopRegions)
}

func TestNewPublisher(t *testing.T) {
	cfg := &config.Config{
		KafkaBrokers:     []string{"broker1:9092", "broker2:9092"},
		KafkaReportTopic: "sighting-reports",
	}

	p := NewPublisher(cfg, slog.Default())
	defer p.Close()

	assert.Equal(t, "sighting-reports", p.writer.Topic)
	assert.Contains(t, p.writer.Addr.String(), "broker1:9092")
}
