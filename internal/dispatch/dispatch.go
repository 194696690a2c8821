// Package dispatch delivers completed SOS payloads to responders.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"relief-service/internal/logging"
	"relief-service/internal/models"
	"relief-service/internal/utils"
)

// Dispatcher sends an SOS payload somewhere it will be acted on.
type Dispatcher interface {
	Dispatch(ctx context.Context, payload models.SOSPayload) error
}

// Func adapts a function to Dispatcher.
type Func func(ctx context.Context, payload models.SOSPayload) error

func (f Func) Dispatch(ctx context.Context, payload models.SOSPayload) error { return f(ctx, payload) }

// Multi sends to every dispatcher and joins their errors.
// Every dispatcher is attempted even when an earlier one fails.
type Multi []Dispatcher

func (m Multi) Dispatch(ctx context.Context, payload models.SOSPayload) error {
	var errs []error
	for _, d := range m {
		if err := d.Dispatch(ctx, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Retrying retries the wrapped dispatcher on failure.
type Retrying struct {
	next     Dispatcher
	attempts int
	delay    time.Duration
	logger   *logging.Logger
}

func NewRetrying(next Dispatcher, attempts int, delay time.Duration, logger *logging.Logger) *Retrying {
	return &Retrying{next: next, attempts: attempts, delay: delay, logger: logger}
}

func (r *Retrying) Dispatch(ctx context.Context, payload models.SOSPayload) error {
	return utils.Retry(ctx, r.logger, r.attempts, r.delay, func() error {
		return r.next.Dispatch(ctx, payload)
	})
}

// Log writes the payload to the service log. Used when no broker is configured.
type Log struct {
	logger *logging.Logger
}

func NewLog(logger *logging.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Dispatch(_ context.Context, payload models.SOSPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode sos payload: %w", err)
	}
	l.logger.Warnf("SOS dispatched: %s", body)
	return nil
}
