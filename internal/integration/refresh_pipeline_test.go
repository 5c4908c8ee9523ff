//go:build integration

package integration_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/labour-insights-service/internal/adapter/filecache"
	"github.com/couchcryptid/labour-insights-service/internal/adapter/kafka"
	"github.com/couchcryptid/labour-insights-service/internal/adapter/statcan"
	"github.com/couchcryptid/labour-insights-service/internal/config"
	"github.com/couchcryptid/labour-insights-service/internal/domain"
	"github.com/couchcryptid/labour-insights-service/internal/observability"
	"github.com/couchcryptid/labour-insights-service/internal/pipeline"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRefreshTopic = "test-dataset-refreshed"

const tableCSV = "\ufeffREF_DATE,GEO,DGUID,Labour force characteristics,Sex,Age group,Statistics,Data type,UOM,VALUE\n" +
	`2023-12,"Ontario",2016A000235,"Unemployment rate",Both sexes,15 years and over,Estimate,Seasonally adjusted,Percentage,5.8` + "\n" +
	`2024-01,"Ontario",2016A000235,"Unemployment rate",Both sexes,15 years and over,Estimate,Seasonally adjusted,Percentage,5.9` + "\n" +
	`2024-02,"Ontario",2016A000235,"Unemployment rate",Both sexes,15 years and over,Estimate,Seasonally adjusted,Percentage,6.0` + "\n" +
	`2024-02,"Quebec",2016A000224,"Unemployment rate",Both sexes,15 years and over,Estimate,Seasonally adjusted,Percentage,4.6` + "\n"

// serveTable serves a StatCan-style archive and counts downloads.
func serveTable(t *testing.T, downloads *atomic.Int32) *httptest.Server {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	entries := []struct{ name, content string }{
		{"14100287.csv", tableCSV},
		{"14100287_MetaData.csv", "Cube Title\nLabour force characteristics\n"},
	}
	for _, e := range entries {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(e.content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		downloads.Add(1)
		w.Header().Set("Content-Type", "application/zip")
		_, _ = w.Write(buf.Bytes())
	}))
	t.Cleanup(srv.Close)
	return srv
}

// TestRefreshPublishesNotification wires the statcan client, file cache,
// Kafka notifier and series service against a real broker.
func TestRefreshPublishesNotification(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testRefreshTopic)

	cfg := &config.Config{
		CacheDir:          t.TempDir(),
		KafkaBrokers:      []string{broker},
		KafkaRefreshTopic: testRefreshTopic,
	}

	var downloads atomic.Int32
	source := serveTable(t, &downloads)

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	client := statcan.NewClient(source.URL, 10*time.Second, discardLogger())
	loader := filecache.NewLoader(client, cfg.CacheDir, writer, discardLogger(), metrics)
	svc := pipeline.New(loader, discardLogger(), metrics)

	series, err := svc.Series(ctx, "Ontario", 2)
	require.NoError(t, err)
	assert.Equal(t, []domain.Point{
		{Date: "2024-01", Value: 5.9},
		{Date: "2024-02", Value: 6.0},
	}, series)

	// Served from the cache; no second download or notification.
	_, err = svc.Series(ctx, "Quebec", 0)
	require.NoError(t, err)
	assert.Equal(t, int32(1), downloads.Load())

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testRefreshTopic,
		GroupID:     fmt.Sprintf("test-refresh-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	msg, err := consumer.ReadMessage(readCtx)
	readCancel()
	require.NoError(t, err, "read refresh notification")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, domain.TableID, string(msg.Key))
	assert.Equal(t, kafka.EventTypeRefreshed, headers["event_type"])
	_, err = time.Parse(time.RFC3339, headers["refreshed_at"])
	assert.NoError(t, err, "refreshed_at should be valid RFC3339")

	var event domain.RefreshEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, domain.TableID, event.Table)
	assert.Equal(t, source.URL, event.SourceURL)
	assert.Equal(t, 4, event.Rows)
	assert.Contains(t, event.Columns, "VALUE")

	readCtx, readCancel = context.WithTimeout(ctx, 5*time.Second)
	_, err = consumer.ReadMessage(readCtx)
	readCancel()
	assert.Error(t, err, "expected a single refresh notification")
}
