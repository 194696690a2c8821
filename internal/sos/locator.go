package sos

import (
	"context"
	"errors"
	"sync"
	"time"

	"relief-service/internal/models"
)

var ErrLocationUnavailable = errors.New("location unavailable")

// Locator produces a one-shot position fix. It may be slow or fail; the
// countdown never waits for it.
type Locator interface {
	Locate(ctx context.Context) (*models.Coordinates, error)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ctx context.Context) (*models.Coordinates, error)

func (f LocatorFunc) Locate(ctx context.Context) (*models.Coordinates, error) { return f(ctx) }

// ReportedLocator answers with the last fix a client reported, as long as it
// is younger than maxAge. A zero maxAge accepts any age.
type ReportedLocator struct {
	mu     sync.RWMutex
	fix    *models.Coordinates
	at     time.Time
	maxAge time.Duration
	now    func() time.Time
}

func NewReportedLocator(maxAge time.Duration) *ReportedLocator {
	return &ReportedLocator{maxAge: maxAge, now: time.Now}
}

// Report stores a fresh fix.
func (l *ReportedLocator) Report(c models.Coordinates) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fix = &c
	l.at = l.now()
}

func (l *ReportedLocator) Locate(_ context.Context) (*models.Coordinates, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.fix == nil {
		return nil, ErrLocationUnavailable
	}
	if l.maxAge > 0 && l.now().Sub(l.at) > l.maxAge {
		return nil, ErrLocationUnavailable
	}
	c := *l.fix
	return &c, nil
}
