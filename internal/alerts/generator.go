package alerts

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"relief-service/internal/logging"
	"relief-service/internal/models"
)

// Ingester accepts alerts from a feed.
type Ingester interface {
	Ingest(models.Alert)
}

// Generator periodically injects a system status alert, standing in for a
// live government feed.
type Generator struct {
	target   Ingester
	interval time.Duration
	logger   *logging.Logger
	now      func() time.Time

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

// NewGenerator takes interval at cron resolution; anything under a second
// runs every second, which config.Load rejects up front.
func NewGenerator(target Ingester, interval time.Duration, logger *logging.Logger) *Generator {
	return &Generator{
		target:   target,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// Start schedules the generator. It is an error to start it twice.
func (g *Generator) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		return fmt.Errorf("alert generator already running")
	}

	c := cron.New(cron.WithChain(cron.Recover(cron.PrintfLogger(g.logger))))
	spec := fmt.Sprintf("@every %s", g.interval)
	if _, err := c.AddFunc(spec, g.emit); err != nil {
		return fmt.Errorf("failed to schedule alert generator: %w", err)
	}
	c.Start()
	g.cron = c
	g.running = true
	g.logger.Infof("Alert generator started (every %s)", g.interval)
	return nil
}

// Stop cancels the schedule and waits for a running emit to finish.
// No alert is generated after Stop returns.
func (g *Generator) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.running {
		return
	}
	<-g.cron.Stop().Done()
	g.running = false
	g.logger.Infof("Alert generator stopped")
}

func (g *Generator) emit() {
	g.target.Ingest(StatusUpdate(g.now()))
}

// StatusUpdate is the periodic low-priority "all systems operational" alert.
func StatusUpdate(at time.Time) models.Alert {
	return models.Alert{
		ID:        uuid.NewString(),
		Category:  models.CategorySafety,
		Title:     "System Status Update",
		Message:   "All emergency services are operational. Help is available.",
		Location:  "System Wide",
		CreatedAt: at,
		Priority:  models.PriorityLow,
		Source:    models.SourceGovernment,
		Active:    true,
	}
}
