package models

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnknownPriority = errors.New("unknown priority")
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownSource   = errors.New("unknown source")
)

// Category classifies what an alert is about.
type Category string

const (
	CategoryEmergency  Category = "emergency"
	CategoryWeather    Category = "weather"
	CategorySafety     Category = "safety"
	CategoryResource   Category = "resource"
	CategoryEvacuation Category = "evacuation"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryEmergency, CategoryWeather, CategorySafety, CategoryResource, CategoryEvacuation:
		return true
	}
	return false
}

// Icon returns the dashboard icon for the category.
func (c Category) Icon() string {
	switch c {
	case CategoryEmergency:
		return "alert-triangle"
	case CategoryWeather:
		return "🌧️"
	case CategorySafety:
		return "shield"
	case CategoryResource:
		return "📦"
	case CategoryEvacuation:
		return "🚨"
	default:
		return "alert-triangle"
	}
}

// Priority is an ordered urgency level: low < medium < high < critical.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Priorities lists every priority from most to least urgent.
var Priorities = []Priority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow}

// ParsePriority converts a lowercase priority name.
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPriority, s)
	}
	return p, nil
}

// Rank orders priorities; unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityCritical:
		return 4
	default:
		return 0
	}
}

func (p Priority) Valid() bool { return p.Rank() > 0 }

// Color returns the badge color class for the priority.
func (p Priority) Color() string {
	switch p {
	case PriorityCritical:
		return "emergency"
	case PriorityHigh:
		return "warning"
	case PriorityMedium:
		return "primary"
	case PriorityLow:
		return "muted"
	default:
		return "muted"
	}
}

// Source identifies who issued an alert.
type Source string

const (
	SourceGovernment     Source = "government"
	SourceNGO            Source = "ngo"
	SourceCommunity      Source = "community"
	SourceWeatherService Source = "weather_service"
)

func (s Source) Valid() bool {
	switch s {
	case SourceGovernment, SourceNGO, SourceCommunity, SourceWeatherService:
		return true
	}
	return false
}

// Badge is the short label and color shown next to an alert.
type Badge struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Badge returns the source badge; unknown sources render as SYS.
func (s Source) Badge() Badge {
	switch s {
	case SourceGovernment:
		return Badge{Label: "GOV", Color: "shelter"}
	case SourceNGO:
		return Badge{Label: "NGO", Color: "resource"}
	case SourceWeatherService:
		return Badge{Label: "WEATHER", Color: "warning"}
	case SourceCommunity:
		return Badge{Label: "COMM", Color: "safe"}
	default:
		return Badge{Label: "SYS", Color: "muted"}
	}
}

// Alert is a timestamped, prioritized notification about an emergency condition.
type Alert struct {
	ID             string    `json:"id"`
	Category       Category  `json:"category"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Location       string    `json:"location"`
	CreatedAt      time.Time `json:"created_at"`
	Priority       Priority  `json:"priority"`
	Source         Source    `json:"source"`
	Active         bool      `json:"active"`
	ActionRequired bool      `json:"action_required,omitempty"`
}

// Validate checks the fields an alert must carry before it can be ingested.
func (a Alert) Validate() error {
	if a.ID == "" {
		return errors.New("alert id is required")
	}
	if a.Title == "" {
		return errors.New("alert title is required")
	}
	if !a.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, a.Category)
	}
	if !a.Priority.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownPriority, a.Priority)
	}
	if !a.Source.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownSource, a.Source)
	}
	return nil
}
