package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"relief-service/internal/models"
)

// RecordSOS stores a dispatched SOS payload in sos_events.
func (d *DB) RecordSOS(ctx context.Context, p models.SOSPayload) error {
	var lat, lng, acc *float64
	if p.Location != nil {
		lat, lng, acc = &p.Location.Latitude, &p.Location.Longitude, &p.Location.Accuracy
	}

	query := `
    INSERT INTO sos_events (id, type, verified, latitude, longitude, accuracy, dispatched_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if _, err := d.Pool.Exec(ctx, query, uuid.New(), p.Type, p.Verified, lat, lng, acc, p.Timestamp); err != nil {
		return fmt.Errorf("failed to insert sos event: %w", err)
	}
	return nil
}

// CountSOS returns how many SOS events have been recorded.
func (d *DB) CountSOS(ctx context.Context) (int, error) {
	var n int
	if err := d.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM sos_events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count sos events: %w", err)
	}
	return n, nil
}
