package sos

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relief-service/internal/models"
)

func TestPressStartsCountdown(t *testing.T) {
	t.Parallel()
	f := newFixture(t, failingLocator())

	assert.Equal(t, StateIdle, f.machine.Snapshot().State)
	assert.Equal(t, OutcomeActivated, f.machine.Press(context.Background()))

	s := f.machine.Snapshot()
	assert.Equal(t, StateCountingDown, s.State)
	assert.Equal(t, DefaultCountdown, s.Remaining)
	assert.Equal(t, []string{"Emergency Alert Activating"}, f.toasts.titles())
	assert.Equal(t, models.SeverityDestructive, f.toasts.toasts[0].Severity)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SOSPresses.WithLabelValues("activated")))
}

func TestSecondPressCancelsWithoutDispatch(t *testing.T) {
	t.Parallel()
	f := newFixture(t, failingLocator())
	ctx := context.Background()

	f.machine.Press(ctx)
	f.machine.Tick(ctx)
	assert.Equal(t, OutcomeCancelled, f.machine.Press(ctx))

	s := f.machine.Snapshot()
	assert.Equal(t, StateIdle, s.State)
	assert.Equal(t, 0, s.Remaining)

	for i := 0; i < 10; i++ {
		assert.Equal(t, TickIgnored, f.machine.Tick(ctx))
	}
	assert.Zero(t, f.sent.count())
	assert.Equal(t, []string{"Emergency Alert Activating", "Emergency Alert Cancelled"}, f.toasts.titles())
}

func TestFifthTickDispatchesOnce(t *testing.T) {
	t.Parallel()
	f := newFixture(t, fixedLocator(models.Coordinates{Latitude: 28.6139, Longitude: 77.209, Accuracy: 20}))
	ctx := context.Background()

	f.machine.Press(ctx)
	f.machine.Wait()

	for i := 1; i < DefaultCountdown; i++ {
		require.Equal(t, TickCounted, f.machine.Tick(ctx))
		assert.Equal(t, DefaultCountdown-i, f.machine.Snapshot().Remaining)
	}
	assert.Zero(t, f.sent.count())

	require.Equal(t, TickDispatched, f.machine.Tick(ctx))
	require.Equal(t, 1, f.sent.count())

	p := f.sent.last()
	assert.False(t, p.Timestamp.IsZero())
	assert.Equal(t, models.SOSTypeEmergency, p.Type)
	assert.False(t, p.Verified)
	require.NotNil(t, p.Location)
	assert.InDelta(t, 28.6139, p.Location.Latitude, 1e-9)

	s := f.machine.Snapshot()
	assert.Equal(t, StateIdle, s.State)
	require.NotNil(t, s.LastDispatch)
	assert.Empty(t, s.LastError)

	assert.Equal(t, TickIgnored, f.machine.Tick(ctx))
	assert.Equal(t, 1, f.sent.count())
	assert.Contains(t, f.toasts.titles(), "🚨 Emergency Alert Sent!")
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SOSDispatches.WithLabelValues("success")))
}

func TestLocationFailureStillDispatches(t *testing.T) {
	t.Parallel()
	f := newFixture(t, failingLocator())
	ctx := context.Background()

	f.machine.Press(ctx)
	f.machine.Wait()
	for i := 0; i < DefaultCountdown; i++ {
		f.machine.Tick(ctx)
	}

	require.Equal(t, 1, f.sent.count())
	assert.Nil(t, f.sent.last().Location)
}

func TestNilLocatorStillDispatches(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	ctx := context.Background()

	f.machine.Press(ctx)
	for i := 0; i < DefaultCountdown; i++ {
		f.machine.Tick(ctx)
	}
	require.Equal(t, 1, f.sent.count())
	assert.Nil(t, f.sent.last().Location)
}

func TestStaleLocationIsDiscarded(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{}, 2)
	var calls atomic.Int32
	locator := LocatorFunc(func(context.Context) (*models.Coordinates, error) {
		n := calls.Add(1)
		started <- struct{}{}
		<-release
		if n == 1 {
			return &models.Coordinates{Latitude: 1, Longitude: 1}, nil
		}
		return nil, ErrLocationUnavailable
	})
	f := newFixture(t, locator)
	ctx := context.Background()

	f.machine.Press(ctx)
	<-started
	f.machine.Press(ctx)
	f.machine.Press(ctx)
	<-started
	close(release)
	f.machine.Wait()

	s := f.machine.Snapshot()
	assert.Equal(t, StateCountingDown, s.State)
	assert.Nil(t, s.Location)
}

func TestNewEpisodeClearsPreviousLocation(t *testing.T) {
	t.Parallel()
	locs := make(chan *models.Coordinates, 2)
	locs <- &models.Coordinates{Latitude: 5, Longitude: 5}
	locs <- nil
	locator := LocatorFunc(func(context.Context) (*models.Coordinates, error) {
		if c := <-locs; c != nil {
			return c, nil
		}
		return nil, ErrLocationUnavailable
	})
	f := newFixture(t, locator)
	ctx := context.Background()

	f.machine.Press(ctx)
	f.machine.Wait()
	require.NotNil(t, f.machine.Snapshot().Location)
	f.machine.Press(ctx)

	f.machine.Press(ctx)
	f.machine.Wait()
	assert.Nil(t, f.machine.Snapshot().Location)
}

func TestDispatchFailureIsSurfaced(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	f.sent.err = errors.New("broker unreachable")
	ctx := context.Background()

	f.machine.Press(ctx)
	var result TickResult
	for i := 0; i < DefaultCountdown; i++ {
		result = f.machine.Tick(ctx)
	}
	assert.Equal(t, TickFailed, result)

	s := f.machine.Snapshot()
	assert.Equal(t, StateIdle, s.State)
	assert.Contains(t, s.LastError, "broker unreachable")
	assert.Contains(t, f.toasts.titles(), "Emergency Alert Failed")
	assert.NotContains(t, f.toasts.titles(), "🚨 Emergency Alert Sent!")
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SOSDispatches.WithLabelValues("failed")))

	assert.Equal(t, OutcomeActivated, f.machine.Press(ctx))
	assert.Empty(t, f.machine.Snapshot().LastError)
}

func TestPressDuringDispatchIsIgnored(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	ctx := context.Background()

	var during Outcome
	var state State
	f.sent.during = func() {
		state = f.machine.Snapshot().State
		during = f.machine.Press(ctx)
	}

	f.machine.Press(ctx)
	for i := 0; i < DefaultCountdown; i++ {
		f.machine.Tick(ctx)
	}
	assert.Equal(t, StateDispatched, state)
	assert.Equal(t, OutcomeIgnored, during)
	assert.Equal(t, 1, f.sent.count())
	assert.Equal(t, StateIdle, f.machine.Snapshot().State)
}

func TestTickWhileIdleIsNoop(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)

	assert.Equal(t, TickIgnored, f.machine.Tick(context.Background()))
	assert.Equal(t, StateIdle, f.machine.Snapshot().State)
	assert.Empty(t, f.toasts.titles())
}
