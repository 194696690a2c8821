// Package kafka connects the service to the broker: alerts come in on one
// topic and SOS payloads go out on another.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"relief-service/internal/alerts"
	"relief-service/internal/logging"
	"relief-service/internal/models"
)

type Config struct {
	Broker     string
	AlertTopic string
	SOSTopic   string
	GroupID    string
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads alert messages and ingests the valid ones.
type Consumer struct {
	reader messageReader
	target alerts.Ingester
	logger *logging.Logger
	now    func() time.Time
}

func NewConsumer(cfg Config, target alerts.Ingester, logger *logging.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     []string{cfg.Broker},
		GroupID:     cfg.GroupID,
		Topic:       cfg.AlertTopic,
		MinBytes:    1,
		MaxBytes:    1 << 20,
		StartOffset: kafka.FirstOffset,
	})
	return newConsumer(r, target, logger)
}

func newConsumer(r messageReader, target alerts.Ingester, logger *logging.Logger) *Consumer {
	return &Consumer{reader: r, target: target, logger: logger, now: time.Now}
}

// alertMessage is the wire shape of an alert on the topic.
type alertMessage struct {
	ID             string    `json:"id"`
	Category       string    `json:"category"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Location       string    `json:"location"`
	CreatedAt      time.Time `json:"created_at"`
	Priority       string    `json:"priority"`
	Source         string    `json:"source"`
	Active         *bool     `json:"active"`
	ActionRequired bool      `json:"action_required"`
}

// DecodeAlert parses and validates one alert message. A missing timestamp
// becomes now and a missing active flag means active.
func DecodeAlert(value []byte, now time.Time) (models.Alert, error) {
	var msg alertMessage
	if err := json.Unmarshal(value, &msg); err != nil {
		return models.Alert{}, fmt.Errorf("unmarshal message failed: %w", err)
	}

	a := models.Alert{
		ID:             msg.ID,
		Category:       models.Category(msg.Category),
		Title:          msg.Title,
		Message:        msg.Message,
		Location:       msg.Location,
		CreatedAt:      msg.CreatedAt,
		Priority:       models.Priority(msg.Priority),
		Source:         models.Source(msg.Source),
		Active:         true,
		ActionRequired: msg.ActionRequired,
	}
	if msg.Active != nil {
		a.Active = *msg.Active
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if err := a.Validate(); err != nil {
		return models.Alert{}, fmt.Errorf("invalid message: %w", err)
	}
	return a, nil
}

// Start consumes until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.logger.Info("Kafka consumer started")
		for {
			if err := c.consumeOne(ctx); err != nil {
				if ctx.Err() != nil {
					c.logger.Info("Kafka consumer stopped")
					return
				}
				c.logger.Errorf("Read message failed: %v", err)
				select {
				case <-ctx.Done():
					return
				case <-time.After(time.Second):
				}
			}
		}
	}()
}

// consumeOne handles a single message. Only broker errors are returned;
// bad payloads are logged and committed so they are not redelivered.
func (c *Consumer) consumeOne(ctx context.Context) error {
	msg, err := c.reader.FetchMessage(ctx)
	if err != nil {
		return err
	}

	a, err := DecodeAlert(msg.Value, c.now())
	if err != nil {
		c.logger.Warnf("Skipping message at offset %d: %v", msg.Offset, err)
	} else {
		c.target.Ingest(a)
		c.logger.Debugf("Processed Kafka message %s", a.ID)
	}

	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		return fmt.Errorf("commit offset %d failed: %w", msg.Offset, err)
	}
	return nil
}

func (c *Consumer) Close() error {
	if err := c.reader.Close(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to close kafka reader: %w", err)
	}
	return nil
}
