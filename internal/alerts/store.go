// Package alerts holds the bounded, most-recent-first alert feed and the
// operations dashboards perform on it.
package alerts

import (
	"iter"
	"sync"

	"relief-service/internal/models"
)

// DefaultCapacity is how many alerts the store keeps.
const DefaultCapacity = 10

// Filter selects alerts by priority. The zero value matches every alert.
type Filter struct {
	Priority models.Priority
}

// FilterAll matches every alert.
var FilterAll = Filter{}

// ParseFilter accepts "all" (or empty) and the priority names.
func ParseFilter(s string) (Filter, error) {
	if s == "" || s == "all" {
		return FilterAll, nil
	}
	p, err := models.ParsePriority(s)
	if err != nil {
		return Filter{}, err
	}
	return Filter{Priority: p}, nil
}

func (f Filter) Match(a models.Alert) bool {
	return f.Priority == "" || a.Priority == f.Priority
}

func (f Filter) String() string {
	if f.Priority == "" {
		return "all"
	}
	return string(f.Priority)
}

// Store keeps at most capacity alerts, newest first. IDs are unique.
type Store struct {
	mu       sync.RWMutex
	capacity int
	alerts   []models.Alert
}

func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{capacity: capacity, alerts: make([]models.Alert, 0, capacity)}
}

// Ingest puts a at the head of the feed and returns whatever fell off the tail.
// An existing alert with the same ID is replaced by a.
func (s *Store) Ingest(a models.Alert) (evicted []models.Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]models.Alert, 0, s.capacity+1)
	next = append(next, a)
	for _, existing := range s.alerts {
		if existing.ID == a.ID {
			continue
		}
		next = append(next, existing)
	}
	if len(next) > s.capacity {
		evicted = append(evicted, next[s.capacity:]...)
		next = next[:s.capacity]
	}
	s.alerts = next
	return evicted
}

// Acknowledge marks the alert inactive. It reports whether an active alert
// was flipped; unknown or already acknowledged IDs are a no-op.
func (s *Store) Acknowledge(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.alerts {
		if s.alerts[i].ID != id {
			continue
		}
		if !s.alerts[i].Active {
			return false
		}
		s.alerts[i].Active = false
		return true
	}
	return false
}

// FilterByPriority returns a view over the alerts matching f in store order.
// The view is evaluated when ranged over and can be ranged over again.
func (s *Store) FilterByPriority(f Filter) iter.Seq[models.Alert] {
	return func(yield func(models.Alert) bool) {
		for _, a := range s.List() {
			if !f.Match(a) {
				continue
			}
			if !yield(a) {
				return
			}
		}
	}
}

// List returns a copy of the feed, newest first.
func (s *Store) List() []models.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

func (s *Store) Get(id string) (models.Alert, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.alerts {
		if a.ID == id {
			return a, true
		}
	}
	return models.Alert{}, false
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.alerts)
}

func (s *Store) Capacity() int { return s.capacity }

func (s *Store) CountActive() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, a := range s.alerts {
		if a.Active {
			n++
		}
	}
	return n
}

func (s *Store) CountByPriority(p models.Priority) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, a := range s.alerts {
		if a.Priority == p {
			n++
		}
	}
	return n
}
