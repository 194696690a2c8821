package alerts

import (
	"context"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relief-service/internal/logging"
	"relief-service/internal/metrics"
	"relief-service/internal/models"
)

type toastRecorder struct {
	mu     sync.Mutex
	toasts []models.Toast
}

func (r *toastRecorder) Notify(_ context.Context, t models.Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, t)
}

func newTestService(capacity int) (*Service, *toastRecorder, *metrics.Metrics) {
	rec := &toastRecorder{}
	m := metrics.New()
	return NewService(NewStore(capacity), rec, m, logging.Discard()), rec, m
}

func TestServiceAcknowledgeToastsOnce(t *testing.T) {
	t.Parallel()

	svc, rec, m := newTestService(0)
	svc.Ingest(newAlert("1", models.PriorityCritical))

	assert.True(t, svc.Acknowledge(context.Background(), "1"))
	assert.False(t, svc.Acknowledge(context.Background(), "1"))
	assert.False(t, svc.Acknowledge(context.Background(), "nope"))

	require.Len(t, rec.toasts, 1)
	assert.Equal(t, "Alert Acknowledged", rec.toasts[0].Title)
	assert.Equal(t, models.SeverityDefault, rec.toasts[0].Severity)
	assert.InDelta(t, 1, testutil.ToFloat64(m.AlertsAcknowledged), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.AlertsActive), 0)
}

func TestServiceIngestTracksEvictions(t *testing.T) {
	t.Parallel()

	svc, _, m := newTestService(2)
	svc.Ingest(newAlert("1", models.PriorityLow))
	svc.Ingest(newAlert("2", models.PriorityLow))
	svc.Ingest(newAlert("3", models.PriorityLow))

	assert.InDelta(t, 3, testutil.ToFloat64(m.AlertsIngested), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.AlertsEvicted), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.AlertsActive), 0)
}

func TestServiceStats(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(0)
	svc.Ingest(newAlert("1", models.PriorityCritical))
	svc.Ingest(newAlert("2", models.PriorityHigh))
	svc.Ingest(newAlert("3", models.PriorityHigh))
	svc.Acknowledge(context.Background(), "3")

	st := svc.Stats()
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, 2, st.Active)
	assert.Equal(t, map[models.Priority]int{
		models.PriorityCritical: 1,
		models.PriorityHigh:     2,
		models.PriorityMedium:   0,
		models.PriorityLow:      0,
	}, st.ByPriority)
}
