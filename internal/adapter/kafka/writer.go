package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/labour-insights-service/internal/config"
	"github.com/couchcryptid/labour-insights-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// EventTypeRefreshed is the event_type header value of refresh notifications.
const EventTypeRefreshed = "dataset.refreshed"

// Writer publishes dataset refresh notifications to a Kafka topic.
// It implements filecache.RefreshNotifier.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured refresh topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaRefreshTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// NotifyRefresh publishes one message describing a completed cache refresh.
func (w *Writer) NotifyRefresh(ctx context.Context, event domain.RefreshEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish refresh of table %s: %w", event.Table, err)
	}
	w.logger.Debug("refresh notification published", "table", event.Table, "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

func serializeToMessage(event domain.RefreshEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize refresh event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.Table),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(EventTypeRefreshed)},
			{Key: "refreshed_at", Value: []byte(event.RefreshedAt.Format(time.RFC3339))},
		},
	}, nil
}
