package db

import (
	"context"
	"fmt"

	"relief-service/internal/models"
)

func (d *DB) FetchLocations(ctx context.Context) ([]models.ReliefLocation, error) {
	query := `
	SELECT id, name, kind, latitude, longitude, capacity, available, resources
	FROM relief_locations
	ORDER BY id`

	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get relief locations: %w", err)
	}
	defer rows.Close()

	var list []models.ReliefLocation
	for rows.Next() {
		var l models.ReliefLocation
		if err := rows.Scan(&l.ID, &l.Name, &l.Kind, &l.Latitude, &l.Longitude, &l.Capacity, &l.Available, &l.Resources); err != nil {
			return nil, fmt.Errorf("failed to scan relief location: %w", err)
		}
		list = append(list, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read relief locations: %w", err)
	}
	return list, nil
}
