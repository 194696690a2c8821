package db

import (
	"context"
	"fmt"

	"relief-service/internal/models"
)

// feedLimit caps how many recent alerts are read at startup.
const feedLimit = 50

// FetchAlerts returns the most recent alerts, newest first.
func (d *DB) FetchAlerts(ctx context.Context) ([]models.Alert, error) {
	query := `
	SELECT id, category, title, message, location, created_at, priority, source, active, action_required
	FROM alerts
	ORDER BY created_at DESC
	LIMIT $1`

	rows, err := d.Pool.Query(ctx, query, feedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get alerts: %w", err)
	}
	defer rows.Close()

	var list []models.Alert
	for rows.Next() {
		var a models.Alert
		err := rows.Scan(
			&a.ID,
			&a.Category,
			&a.Title,
			&a.Message,
			&a.Location,
			&a.CreatedAt,
			&a.Priority,
			&a.Source,
			&a.Active,
			&a.ActionRequired,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read alerts: %w", err)
	}
	return list, nil
}
