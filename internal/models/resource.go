package models

import (
	"errors"
	"fmt"
	"time"
)

var ErrUnknownResourceCategory = errors.New("unknown resource category")

// ResourceCategory groups items offered on the resource board.
type ResourceCategory string

const (
	ResourceFood     ResourceCategory = "food"
	ResourceMedical  ResourceCategory = "medical"
	ResourceShelter  ResourceCategory = "shelter"
	ResourceClothing ResourceCategory = "clothing"
	ResourceWater    ResourceCategory = "water"
)

func (c ResourceCategory) Valid() bool {
	switch c {
	case ResourceFood, ResourceMedical, ResourceShelter, ResourceClothing, ResourceWater:
		return true
	}
	return false
}

func ParseResourceCategory(s string) (ResourceCategory, error) {
	c := ResourceCategory(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownResourceCategory, s)
	}
	return c, nil
}

func (c ResourceCategory) Icon() string {
	switch c {
	case ResourceFood:
		return "🍞"
	case ResourceMedical:
		return "💊"
	case ResourceShelter:
		return "🏠"
	case ResourceClothing:
		return "👕"
	case ResourceWater:
		return "💧"
	default:
		return "📦"
	}
}

// ResourceStatus tracks where an offered resource is.
type ResourceStatus string

const (
	ResourceAvailable ResourceStatus = "available"
	ResourceRequested ResourceStatus = "requested"
	ResourceInTransit ResourceStatus = "in_transit"
)

// Resource is an item shared on the resource board.
type Resource struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Category ResourceCategory `json:"category"`
	Quantity string           `json:"quantity"`
	Location string           `json:"location"`
	Provider string           `json:"provider"`
	Status   ResourceStatus   `json:"status"`
	Urgency  Priority         `json:"urgency"`
	PostedAt time.Time        `json:"posted_at"`
}
