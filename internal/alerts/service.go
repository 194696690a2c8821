package alerts

import (
	"context"

	"relief-service/internal/logging"
	"relief-service/internal/metrics"
	"relief-service/internal/models"
	"relief-service/internal/notify"
)

// Stats summarises the feed for dashboard counters.
type Stats struct {
	Total      int                     `json:"total"`
	Active     int                     `json:"active"`
	ByPriority map[models.Priority]int `json:"by_priority"`
}

// Service wraps a Store with logging, metrics and acknowledgement toasts.
type Service struct {
	store    *Store
	notifier notify.Notifier
	metrics  *metrics.Metrics
	logger   *logging.Logger
}

func NewService(store *Store, notifier notify.Notifier, m *metrics.Metrics, logger *logging.Logger) *Service {
	return &Service{store: store, notifier: notifier, metrics: m, logger: logger}
}

func (s *Service) Store() *Store { return s.store }

// Ingest adds an alert to the feed.
func (s *Service) Ingest(a models.Alert) {
	evicted := s.store.Ingest(a)
	s.metrics.AlertsIngested.Inc()
	s.metrics.AlertsEvicted.Add(float64(len(evicted)))
	s.metrics.AlertsActive.Set(float64(s.store.CountActive()))

	s.logger.Infof("Ingested alert %s (%s/%s): %s", a.ID, a.Priority, a.Source, a.Title)
	for _, e := range evicted {
		s.logger.Debugf("Evicted alert %s", e.ID)
	}
}

// Acknowledge marks an alert as seen. Unknown IDs are tolerated.
func (s *Service) Acknowledge(ctx context.Context, id string) bool {
	if !s.store.Acknowledge(id) {
		s.logger.Debugf("Acknowledge %s: no active alert with that id", id)
		return false
	}
	s.metrics.AlertsAcknowledged.Inc()
	s.metrics.AlertsActive.Set(float64(s.store.CountActive()))
	s.logger.Infof("Acknowledged alert %s", id)

	s.notifier.Notify(ctx, models.Toast{
		Title:       "Alert Acknowledged",
		Description: "You've confirmed receipt of this alert.",
		Severity:    models.SeverityDefault,
	})
	return true
}

func (s *Service) Stats() Stats {
	st := Stats{
		Total:      s.store.Len(),
		Active:     s.store.CountActive(),
		ByPriority: make(map[models.Priority]int, len(models.Priorities)),
	}
	for _, p := range models.Priorities {
		st.ByPriority[p] = s.store.CountByPriority(p)
	}
	return st
}
