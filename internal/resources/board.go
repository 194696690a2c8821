// Package resources is the community resource-sharing board.
package resources

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"relief-service/internal/logging"
	"relief-service/internal/models"
	"relief-service/internal/notify"
)

var (
	ErrEmptyRequest = errors.New("request text is required")
	ErrInvalidOffer = errors.New("invalid resource offer")
)

// Request is an open ask posted to nearby relief organisations.
type Request struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type Board struct {
	mu        sync.RWMutex
	resources []models.Resource
	requests  []Request

	notifier notify.Notifier
	logger   *logging.Logger
	now      func() time.Time
}

func NewBoard(seed []models.Resource, notifier notify.Notifier, logger *logging.Logger) *Board {
	res := make([]models.Resource, len(seed))
	copy(res, seed)
	return &Board{
		resources: res,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns resources newest-first; "" or "all" returns every category.
func (b *Board) List(category string) ([]models.Resource, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	var want models.ResourceCategory
	if category != "" && category != "all" {
		c, err := models.ParseResourceCategory(category)
		if err != nil {
			return nil, err
		}
		want = c
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]models.Resource, 0, len(b.resources))
	for _, r := range b.resources {
		if want == "" || r.Category == want {
			out = append(out, r)
		}
	}
	return out, nil
}

// Requests returns the open requests, newest first.
func (b *Board) Requests() []Request {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Request, len(b.requests))
	copy(out, b.requests)
	return out
}

// Request posts a free-text need. Blank text is rejected.
func (b *Board) Request(ctx context.Context, text string) (Request, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Request{}, ErrEmptyRequest
	}
	req := Request{ID: uuid.NewString(), Text: text, CreatedAt: b.now()}

	b.mu.Lock()
	b.requests = append([]Request{req}, b.requests...)
	b.mu.Unlock()

	b.logger.Infof("Resource request %s posted", req.ID)
	b.notifier.Notify(ctx, models.Toast{
		Title:       "Resource Request Submitted",
		Description: "Your request has been shared with nearby relief organizations.",
		Severity:    models.SeverityDefault,
	})
	return req, nil
}

// Offer registers a resource someone is giving away.
func (b *Board) Offer(ctx context.Context, r models.Resource) (models.Resource, error) {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return models.Resource{}, fmt.Errorf("%w: name is required", ErrInvalidOffer)
	}
	if !r.Category.Valid() {
		return models.Resource{}, fmt.Errorf("%w: %w", ErrInvalidOffer, models.ErrUnknownResourceCategory)
	}
	if r.Urgency == "" {
		r.Urgency = models.PriorityLow
	}
	if !r.Urgency.Valid() {
		return models.Resource{}, fmt.Errorf("%w: %w", ErrInvalidOffer, models.ErrUnknownPriority)
	}
	r.ID = uuid.NewString()
	r.Status = models.ResourceAvailable
	r.PostedAt = b.now()

	b.mu.Lock()
	b.resources = append([]models.Resource{r}, b.resources...)
	b.mu.Unlock()

	b.logger.Infof("Resource offer %s registered: %s (%s)", r.ID, r.Name, r.Category)
	b.notifier.Notify(ctx, models.Toast{
		Title:       "Thank You!",
		Description: "Your resource offering has been registered. We'll connect you with those in need.",
		Severity:    models.SeverityDefault,
	})
	return r, nil
}
