package models

import (
	"errors"
	"fmt"
)

var ErrUnknownLocationKind = errors.New("unknown location kind")

// LocationKind is the type of a relief point of interest.
type LocationKind string

const (
	KindShelter        LocationKind = "shelter"
	KindSafeZone       LocationKind = "safe_zone"
	KindResourceCenter LocationKind = "resource_center"
	KindVolunteerHub   LocationKind = "volunteer_hub"
	KindEmergency      LocationKind = "emergency"
)

func (k LocationKind) Valid() bool {
	switch k {
	case KindShelter, KindSafeZone, KindResourceCenter, KindVolunteerHub, KindEmergency:
		return true
	}
	return false
}

// ParseLocationKind converts a kind name.
func ParseLocationKind(s string) (LocationKind, error) {
	k := LocationKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownLocationKind, s)
	}
	return k, nil
}

func (k LocationKind) Icon() string {
	switch k {
	case KindShelter:
		return "shield"
	case KindSafeZone:
		return "map-pin"
	case KindResourceCenter:
		return "heart"
	case KindVolunteerHub:
		return "users"
	case KindEmergency:
		return "navigation"
	default:
		return "map-pin"
	}
}

func (k LocationKind) Color() string {
	switch k {
	case KindShelter:
		return "shelter"
	case KindSafeZone:
		return "safe"
	case KindResourceCenter:
		return "resource"
	case KindVolunteerHub:
		return "primary"
	case KindEmergency:
		return "emergency"
	default:
		return "muted"
	}
}

// ReliefLocation is a point of interest rendered on the relief map.
type ReliefLocation struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Kind      LocationKind `json:"kind"`
	Latitude  float64      `json:"latitude"`
	Longitude float64      `json:"longitude"`
	Capacity  *int         `json:"capacity,omitempty"`
	Available *bool        `json:"available,omitempty"`
	Resources []string     `json:"resources,omitempty"`
}
