package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"relief-service/internal/models"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes SOS payloads for the responder side to pick up.
type Producer struct {
	writer messageWriter
}

func NewProducer(cfg Config) *Producer {
	return &Producer{writer: &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Broker),
		Topic:                  cfg.SOSTopic,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireAll,
		WriteTimeout:           10 * time.Second,
		AllowAutoTopicCreation: true,
	}}
}

// Dispatch writes the payload as JSON, keyed by its timestamp.
func (p *Producer) Dispatch(ctx context.Context, payload models.SOSPayload) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode sos payload: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(payload.Timestamp.UTC().Format(time.RFC3339Nano)),
		Value: value,
		Time:  payload.Timestamp,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish sos payload: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
