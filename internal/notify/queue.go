package notify

import (
	"context"
	"sync"

	"relief-service/internal/logging"
	"relief-service/internal/metrics"
	"relief-service/internal/models"
)

// Queue hands toasts to a pool of workers so slow channels (chat, SMS)
// never block the caller.
type Queue struct {
	next    Notifier
	logger  *logging.Logger
	metrics *metrics.Metrics
	toasts  chan models.Toast
	workers int
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewQueue(next Notifier, size, workers int, m *metrics.Metrics, logger *logging.Logger) *Queue {
	if size <= 0 {
		size = 1
	}
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Queue{
		next:    next,
		logger:  logger,
		metrics: m,
		toasts:  make(chan models.Toast, size),
		workers: workers,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the worker pool.
func (q *Queue) Start() {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}
}

// Notify enqueues a toast, dropping it when the queue is full.
func (q *Queue) Notify(_ context.Context, toast models.Toast) {
	select {
	case q.toasts <- toast:
	default:
		q.metrics.ToastsDropped.Inc()
		q.logger.Errorf("Queue full, dropping toast: %s", toast.Title)
	}
}

// Stop cancels the workers and waits for them to exit. Pending toasts are dropped.
func (q *Queue) Stop() {
	q.cancel()
	q.wg.Wait()
	if n := len(q.toasts); n > 0 {
		q.logger.Warnf("Notification queue stopped with %d undelivered toasts", n)
	}
}

func (q *Queue) worker(id int) {
	defer q.wg.Done()
	for {
		select {
		case <-q.ctx.Done():
			q.logger.Debugf("Notification worker %d stopped", id)
			return
		case toast := <-q.toasts:
			q.next.Notify(q.ctx, toast)
		}
	}
}
