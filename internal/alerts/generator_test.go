package alerts

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"relief-service/internal/logging"
	"relief-service/internal/models"
)

type countingIngester struct {
	mu     sync.Mutex
	alerts []models.Alert
}

func (c *countingIngester) Ingest(a models.Alert) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alerts = append(c.alerts, a)
}

func (c *countingIngester) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.alerts)
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestStatusUpdate(t *testing.T) {
	t.Parallel()

	a := StatusUpdate(base)
	require.NoError(t, a.Validate())
	assert.Equal(t, "System Status Update", a.Title)
	assert.Equal(t, models.PriorityLow, a.Priority)
	assert.Equal(t, models.CategorySafety, a.Category)
	assert.Equal(t, models.SourceGovernment, a.Source)
	assert.True(t, a.Active)
	assert.NotEqual(t, StatusUpdate(base).ID, a.ID)
}

func TestGeneratorEmitsUntilStopped(t *testing.T) {
	target := &countingIngester{}
	g := NewGenerator(target, time.Second, logging.Discard())
	require.NoError(t, g.Start())
	require.Error(t, g.Start())

	require.Eventually(t, func() bool { return target.count() >= 1 }, 3*time.Second, 20*time.Millisecond)
	g.Stop()

	stopped := target.count()
	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, stopped, target.count())

	// Stop is safe to repeat.
	g.Stop()
}

func TestGeneratorFeedsStoreThroughService(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(0)
	g := NewGenerator(svc, time.Minute, logging.Discard())
	g.now = func() time.Time { return base }

	g.emit()
	g.emit()

	list := svc.Store().List()
	require.Len(t, list, 2)
	assert.Equal(t, base, list[0].CreatedAt)
}
