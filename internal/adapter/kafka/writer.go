// Package kafka publishes feature records to a Kafka topic, one JSON message
// per record, for consumers that ingest exposure features as a stream.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/hurricane-exposure/internal/feature"
)

// Writer produces feature records to a Kafka topic.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured feature topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishBatch serializes and publishes the records in a single
// WriteMessages call. Messages are keyed by storm ID so one storm's records
// land on one partition in extraction order.
func (w *Writer) PublishBatch(ctx context.Context, records []feature.Record) error {
	if len(records) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(records))
	for i := range records {
		msg, err := serializeToMessage(&records[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a feature record into a Kafka message.
func serializeToMessage(rec *feature.Record) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize feature record %s/%s: %w", rec.StormID, rec.PointID, err)
	}
	return kafkago.Message{
		Key:   []byte(rec.StormID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "point_id", Value: []byte(rec.PointID)},
			{Key: "generated_at", Value: []byte(rec.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
