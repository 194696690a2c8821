// Package notify delivers short toasts (title, description, severity) to
// dashboards and responder channels.
package notify

import (
	"context"

	"relief-service/internal/logging"
	"relief-service/internal/models"
)

// Notifier receives toasts. Implementations log their own delivery failures;
// callers never see an error.
type Notifier interface {
	Notify(ctx context.Context, toast models.Toast)
}

// Func adapts a function to Notifier.
type Func func(ctx context.Context, toast models.Toast)

func (f Func) Notify(ctx context.Context, toast models.Toast) { f(ctx, toast) }

// Multi fans a toast out to every notifier in order.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, toast models.Toast) {
	for _, n := range m {
		n.Notify(ctx, toast)
	}
}

// Log writes toasts to the service log.
type Log struct {
	logger *logging.Logger
}

func NewLog(logger *logging.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Notify(_ context.Context, toast models.Toast) {
	entry := l.logger.WithField("severity", toast.Severity)
	if toast.Severity == models.SeverityDestructive {
		entry.Warnf("Toast: %s - %s", toast.Title, toast.Description)
		return
	}
	entry.Infof("Toast: %s - %s", toast.Title, toast.Description)
}
