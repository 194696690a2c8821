package notify

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relief-service/internal/logging"
	"relief-service/internal/metrics"
	"relief-service/internal/models"
)

type recorder struct {
	mu     sync.Mutex
	toasts []models.Toast
}

func (r *recorder) Notify(_ context.Context, toast models.Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, toast)
}

func (r *recorder) all() []models.Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Toast(nil), r.toasts...)
}

var sent = models.Toast{
	Title:       "🚨 Emergency Alert Sent!",
	Description: "Rescue teams have been notified of your location. Help is on the way.",
	Severity:    models.SeverityDestructive,
}

func TestMultiFansOut(t *testing.T) {
	t.Parallel()

	a, b := &recorder{}, &recorder{}
	var calls int
	m := Multi{a, b, Func(func(context.Context, models.Toast) { calls++ })}

	m.Notify(context.Background(), sent)

	assert.Equal(t, []models.Toast{sent}, a.all())
	assert.Equal(t, []models.Toast{sent}, b.all())
	assert.Equal(t, 1, calls)
}

func TestLogUsesWarnForDestructiveToasts(t *testing.T) {
	t.Parallel()

	base, hook := logtest.NewNullLogger()
	n := NewLog(logging.Wrap(base))

	n.Notify(context.Background(), sent)
	n.Notify(context.Background(), models.Toast{Title: "Alert Acknowledged", Severity: models.SeverityDefault})

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, logrus.WarnLevel, entries[0].Level)
	assert.Contains(t, entries[0].Message, "Emergency Alert Sent")
	assert.Equal(t, logrus.InfoLevel, entries[1].Level)
}

func TestQueueDeliversAndStops(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	q := NewQueue(rec, 8, 2, metrics.New(), logging.Discard())
	q.Start()

	q.Notify(context.Background(), sent)

	require.Eventually(t, func() bool { return len(rec.all()) == 1 }, time.Second, 5*time.Millisecond)
	q.Stop()

	// Stopped workers no longer deliver.
	q.Notify(context.Background(), sent)
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, rec.all(), 1)
}

func TestQueueDropsWhenFull(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	rec := &recorder{}
	q := NewQueue(rec, 1, 1, m, logging.Discard())
	// Not started: the first toast fills the buffer, the second is dropped.
	q.Notify(context.Background(), sent)
	q.Notify(context.Background(), sent)

	assert.InDelta(t, 1, testutil.ToFloat64(m.ToastsDropped), 0)
	q.Stop()
	assert.Empty(t, rec.all())
}

func TestHubBroadcastsToasts(t *testing.T) {
	t.Parallel()

	hub := NewHub(logging.Discard())
	srv := httptest.NewServer(httpHandler(hub))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 5*time.Millisecond)

	hub.Notify(context.Background(), sent)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got models.Toast
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, sent, got)

	hub.Close()
	assert.Zero(t, hub.Len())
}

func TestHubDropsClosedClients(t *testing.T) {
	t.Parallel()

	hub := NewHub(logging.Discard())
	srv := httptest.NewServer(httpHandler(hub))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestHubDisconnectsStalledClientWithoutBlocking(t *testing.T) {
	t.Parallel()

	hub := NewHub(logging.Discard())
	stalled := &client{send: make(chan []byte, sendBuffer)}
	hub.connections[stalled] = struct{}{}

	done := make(chan struct{})
	go func() {
		for i := 0; i <= sendBuffer; i++ {
			hub.Notify(context.Background(), sent)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a dashboard that is not reading")
	}

	assert.Zero(t, hub.Len())
	queued := 0
	for range stalled.send {
		queued++
	}
	assert.Equal(t, sendBuffer, queued)
}
