package sos

import (
	"context"
	"sync"
	"time"

	"relief-service/internal/logging"
	"relief-service/internal/models"
	"relief-service/internal/notify"
)

const (
	DefaultTickInterval  = time.Second
	DefaultReminderDelay = 3 * time.Second
)

var reminderToast = models.Toast{
	Title:       "Verification Required",
	Description: "Please be ready to verify your emergency when rescue teams contact you.",
	Severity:    models.SeverityDefault,
}

// Runner drives a Machine in real time. It owns the countdown ticker and the
// post-dispatch verification reminder.
type Runner struct {
	machine       *Machine
	notifier      notify.Notifier
	tick          time.Duration
	reminderDelay time.Duration
	logger        *logging.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	stop   chan struct{}
	closed bool
	wg     sync.WaitGroup
}

func NewRunner(m *Machine, notifier notify.Notifier, tick, reminderDelay time.Duration, logger *logging.Logger) *Runner {
	if tick <= 0 {
		tick = DefaultTickInterval
	}
	if reminderDelay <= 0 {
		reminderDelay = DefaultReminderDelay
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		machine:       m,
		notifier:      notifier,
		tick:          tick,
		reminderDelay: reminderDelay,
		logger:        logger,
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Press forwards a button press and starts or stops the countdown ticker.
func (r *Runner) Press(ctx context.Context) Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return OutcomeIgnored
	}

	outcome, ep := r.machine.press(ctx)
	switch outcome {
	case OutcomeActivated:
		r.stopTickerLocked()
		r.startTickerLocked(ep)
	case OutcomeCancelled:
		r.stopTickerLocked()
	}
	return outcome
}

func (r *Runner) Snapshot() Session {
	return r.machine.Snapshot()
}

func (r *Runner) startTickerLocked(ep uint64) {
	stop := make(chan struct{})
	r.stop = stop
	r.wg.Add(1)
	go r.run(ep, stop)
}

func (r *Runner) stopTickerLocked() {
	if r.stop != nil {
		close(r.stop)
		r.stop = nil
	}
}

func (r *Runner) run(ep uint64, stop <-chan struct{}) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			switch r.machine.advance(r.ctx, ep) {
			case TickCounted:
				continue
			case TickDispatched:
				r.scheduleReminder()
				return
			default:
				return
			}
		}
	}
}

// scheduleReminder runs on a run goroutine, which wg already counts.
func (r *Runner) scheduleReminder() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		timer := time.NewTimer(r.reminderDelay)
		defer timer.Stop()
		select {
		case <-r.ctx.Done():
			return
		case <-timer.C:
		}
		r.notifier.Notify(r.ctx, reminderToast)
	}()
}

// Close stops the ticker and any pending reminder, then waits for in-flight
// work, including a reminder already being delivered. Nothing fires after
// Close returns.
func (r *Runner) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.stopTickerLocked()
	r.cancel()
	r.mu.Unlock()

	r.wg.Wait()
	r.machine.Close()
	r.logger.Debugf("SOS runner closed")
}
