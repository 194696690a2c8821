// Package sos implements the SOS button: a cancellable countdown that
// dispatches one emergency signal per activation.
package sos

import (
	"context"
	"fmt"
	"sync"
	"time"

	"relief-service/internal/dispatch"
	"relief-service/internal/logging"
	"relief-service/internal/metrics"
	"relief-service/internal/models"
	"relief-service/internal/notify"
)

// DefaultCountdown is the number of ticks between activation and dispatch.
const DefaultCountdown = 5

type State string

const (
	StateIdle         State = "idle"
	StateCountingDown State = "counting_down"
	StateDispatched   State = "dispatched"
)

// Outcome says what a button press did.
type Outcome string

const (
	OutcomeActivated Outcome = "activated"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeIgnored   Outcome = "ignored"
)

// TickResult says what a countdown tick did.
type TickResult int

const (
	TickIgnored TickResult = iota
	TickCounted
	TickDispatched
	TickFailed
)

// Session is a point-in-time view of the machine.
type Session struct {
	State        State               `json:"state"`
	Remaining    int                 `json:"remaining"`
	Location     *models.Coordinates `json:"location"`
	LastDispatch *models.SOSPayload  `json:"last_dispatch,omitempty"`
	LastError    string              `json:"last_error,omitempty"`
}

// Machine holds the SOS state. It does not own any timers; something else
// (usually a Runner) calls Tick once per second while counting down.
type Machine struct {
	mu           sync.Mutex
	state        State
	remaining    int
	episode      uint64
	location     *models.Coordinates
	lastDispatch *models.SOSPayload
	lastErr      error

	countdown  int
	locator    Locator
	dispatcher dispatch.Dispatcher
	notifier   notify.Notifier
	metrics    *metrics.Metrics
	logger     *logging.Logger
	now        func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewMachine(countdown int, locator Locator, dispatcher dispatch.Dispatcher, notifier notify.Notifier, m *metrics.Metrics, logger *logging.Logger) *Machine {
	if countdown <= 0 {
		countdown = DefaultCountdown
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Machine{
		state:      StateIdle,
		countdown:  countdown,
		locator:    locator,
		dispatcher: dispatcher,
		notifier:   notifier,
		metrics:    m,
		logger:     logger,
		now:        time.Now,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Press handles a tap on the SOS button.
func (m *Machine) Press(ctx context.Context) Outcome {
	outcome, _ := m.press(ctx)
	return outcome
}

func (m *Machine) press(ctx context.Context) (Outcome, uint64) {
	m.mu.Lock()
	var outcome Outcome
	state := m.state
	switch state {
	case StateIdle:
		m.episode++
		m.state = StateCountingDown
		m.remaining = m.countdown
		m.location = nil
		m.lastErr = nil
		m.startLocate(m.episode)
		outcome = OutcomeActivated
	case StateCountingDown:
		m.episode++
		m.state = StateIdle
		m.remaining = 0
		outcome = OutcomeCancelled
	default:
		outcome = OutcomeIgnored
	}
	ep := m.episode
	m.mu.Unlock()

	m.metrics.SOSPresses.WithLabelValues(string(outcome)).Inc()
	switch outcome {
	case OutcomeActivated:
		m.logger.Warnf("SOS activated, dispatching in %d seconds unless cancelled", m.countdown)
		m.notifier.Notify(ctx, models.Toast{
			Title:       "Emergency Alert Activating",
			Description: fmt.Sprintf("Press again to cancel within %d seconds", m.countdown),
			Severity:    models.SeverityDestructive,
		})
	case OutcomeCancelled:
		m.logger.Infof("SOS cancelled")
		m.notifier.Notify(ctx, models.Toast{
			Title:       "Emergency Alert Cancelled",
			Description: "Stay safe!",
			Severity:    models.SeverityDefault,
		})
	default:
		m.logger.Debugf("SOS press ignored in state %s", state)
	}
	return outcome, ep
}

// startLocate must be called with mu held.
func (m *Machine) startLocate(ep uint64) {
	if m.locator == nil {
		return
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		loc, err := m.locator.Locate(m.ctx)

		m.mu.Lock()
		defer m.mu.Unlock()
		if ep != m.episode || m.state != StateCountingDown {
			m.logger.Debugf("Discarding location for superseded SOS episode %d", ep)
			return
		}
		if err != nil {
			m.logger.Warnf("Could not get location for SOS: %v", err)
			return
		}
		m.location = loc
	}()
}

// Tick advances the current countdown by one step.
func (m *Machine) Tick(ctx context.Context) TickResult {
	m.mu.Lock()
	ep := m.episode
	m.mu.Unlock()
	return m.advance(ctx, ep)
}

// advance ticks only if ep is still the current episode.
func (m *Machine) advance(ctx context.Context, ep uint64) TickResult {
	m.mu.Lock()
	if ep != m.episode || m.state != StateCountingDown {
		m.mu.Unlock()
		return TickIgnored
	}
	if m.remaining > 0 {
		m.remaining--
	}
	if m.remaining > 0 {
		m.mu.Unlock()
		return TickCounted
	}

	m.state = StateDispatched
	var loc *models.Coordinates
	if m.location != nil {
		c := *m.location
		loc = &c
	}
	payload := models.NewSOSPayload(m.now(), loc)
	m.mu.Unlock()

	err := m.dispatcher.Dispatch(ctx, payload)

	m.mu.Lock()
	if ep == m.episode {
		m.state = StateIdle
		m.remaining = 0
		m.lastDispatch = &payload
		m.lastErr = err
	}
	m.mu.Unlock()

	if err != nil {
		m.metrics.SOSDispatches.WithLabelValues("failed").Inc()
		m.logger.Errorf("SOS dispatch failed: %v", err)
		m.notifier.Notify(ctx, models.Toast{
			Title:       "Emergency Alert Failed",
			Description: fmt.Sprintf("Could not reach rescue teams: %v. Press SOS again to retry.", err),
			Severity:    models.SeverityDestructive,
		})
		return TickFailed
	}

	m.metrics.SOSDispatches.WithLabelValues("success").Inc()
	if loc != nil {
		m.logger.Warnf("SOS dispatched at %.5f,%.5f", loc.Latitude, loc.Longitude)
	} else {
		m.logger.Warnf("SOS dispatched without location")
	}
	m.notifier.Notify(ctx, models.Toast{
		Title:       "🚨 Emergency Alert Sent!",
		Description: "Rescue teams have been notified of your location. Help is on the way.",
		Severity:    models.SeverityDestructive,
	})
	return TickDispatched
}

func (m *Machine) Snapshot() Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Session{State: m.state, Remaining: m.remaining}
	if m.location != nil {
		c := *m.location
		s.Location = &c
	}
	if m.lastDispatch != nil {
		p := *m.lastDispatch
		s.LastDispatch = &p
	}
	if m.lastErr != nil {
		s.LastError = m.lastErr.Error()
	}
	return s
}

// Wait blocks until every pending location lookup has returned.
func (m *Machine) Wait() {
	m.wg.Wait()
}

// Close cancels pending location lookups and waits for them.
func (m *Machine) Close() {
	m.cancel()
	m.wg.Wait()
}
