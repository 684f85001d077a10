// =============================================================================
// Card Transaction ETL - Summary Publisher
// =============================================================================

// Package notify publishes batch summaries to a Kafka topic for downstream
// consumers (freshness dashboards, reconciliation jobs). Publishing is
// best-effort: by the time a summary exists the batch outputs are already
// persisted, so a delivery failure is logged by the caller, never fatal.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/greenzone-datalake/card-transaction-etl/internal/types"
)

// Publisher writes batch summaries to a Kafka topic.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a Publisher for the given brokers and topic.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireAll,
			Balancer:     &kafka.LeastBytes{},
		},
	}
}

// PublishSummary sends one batch summary, keyed by the input key so repeated
// runs of the same batch land in the same partition.
func (p *Publisher) PublishSummary(ctx context.Context, summary types.Summary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(summary.InputKey),
		Value: data,
		Time:  time.Now(),
	})
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
