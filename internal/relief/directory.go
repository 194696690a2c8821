// Package relief serves relief-site locations for the map view.
package relief

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/golang/geo/s2"

	"relief-service/internal/models"
)

// earthRadiusKm is the mean Earth radius used to turn angles into distances.
const earthRadiusKm = 6371.0088

// Source loads relief locations. feed.Feed satisfies it.
type Source interface {
	FetchLocations(ctx context.Context) ([]models.ReliefLocation, error)
}

// Ranked is a location with its distance from a query point.
type Ranked struct {
	Location   models.ReliefLocation `json:"location"`
	DistanceKm float64               `json:"distance_km"`
}

type Directory struct {
	mu        sync.RWMutex
	locations []models.ReliefLocation
}

func NewDirectory(locations []models.ReliefLocation) *Directory {
	d := &Directory{}
	d.Replace(locations)
	return d
}

// Load replaces the directory contents from src.
func (d *Directory) Load(ctx context.Context, src Source) error {
	locs, err := src.FetchLocations(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch relief locations: %w", err)
	}
	d.Replace(locs)
	return nil
}

func (d *Directory) Replace(locations []models.ReliefLocation) {
	cp := make([]models.ReliefLocation, 0, len(locations))
	for _, l := range locations {
		if l.Kind.Valid() {
			cp = append(cp, l)
		}
	}
	d.mu.Lock()
	d.locations = cp
	d.mu.Unlock()
}

// List returns the locations of the given kind; "" or "all" returns every location.
func (d *Directory) List(kind string) ([]models.ReliefLocation, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	var want models.LocationKind
	if kind != "" && kind != "all" {
		k, err := models.ParseLocationKind(kind)
		if err != nil {
			return nil, err
		}
		want = k
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]models.ReliefLocation, 0, len(d.locations))
	for _, l := range d.locations {
		if want == "" || l.Kind == want {
			out = append(out, l)
		}
	}
	return out, nil
}

// Nearest ranks locations by great-circle distance from lat/lng.
// A limit <= 0 returns all of them.
func (d *Directory) Nearest(lat, lng float64, limit int) []Ranked {
	origin := s2.LatLngFromDegrees(lat, lng)

	d.mu.RLock()
	ranked := make([]Ranked, 0, len(d.locations))
	for _, l := range d.locations {
		ll := s2.LatLngFromDegrees(l.Latitude, l.Longitude)
		ranked = append(ranked, Ranked{
			Location:   l,
			DistanceKm: origin.Distance(ll).Radians() * earthRadiusKm,
		})
	}
	d.mu.RUnlock()

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})
	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked
}

func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.locations)
}
