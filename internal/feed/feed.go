// Package feed defines where alerts and relief locations come from, so the
// alert store can be tested independently of any data source.
package feed

import (
	"context"
	"fmt"
	"sort"

	"relief-service/internal/alerts"
	"relief-service/internal/models"
)

// Feed supplies the initial alert set and the relief map locations.
type Feed interface {
	FetchAlerts(ctx context.Context) ([]models.Alert, error)
	FetchLocations(ctx context.Context) ([]models.ReliefLocation, error)
}

// Seed loads the feed's alerts into target oldest-first, so the store ends up
// most-recent-first. Invalid alerts are skipped. It returns how many were ingested.
func Seed(ctx context.Context, f Feed, target alerts.Ingester) (int, error) {
	list, err := f.FetchAlerts(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch alerts: %w", err)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})

	n := 0
	for _, a := range list {
		if a.Validate() != nil {
			continue
		}
		target.Ingest(a)
		n++
	}
	return n, nil
}
