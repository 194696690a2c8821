package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityOrdering(t *testing.T) {
	t.Parallel()

	assert.Less(t, PriorityLow.Rank(), PriorityMedium.Rank())
	assert.Less(t, PriorityMedium.Rank(), PriorityHigh.Rank())
	assert.Less(t, PriorityHigh.Rank(), PriorityCritical.Rank())
	assert.Zero(t, Priority("urgent").Rank())
}

func TestParsePriority(t *testing.T) {
	t.Parallel()

	p, err := ParsePriority("critical")
	require.NoError(t, err)
	assert.Equal(t, PriorityCritical, p)

	_, err = ParsePriority("CRITICAL")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownPriority))
}

func TestPresentationTablesHaveDefaults(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "🌧️", CategoryWeather.Icon())
	assert.Equal(t, "alert-triangle", Category("other").Icon())
	assert.Equal(t, "emergency", PriorityCritical.Color())
	assert.Equal(t, Badge{Label: "WEATHER", Color: "warning"}, SourceWeatherService.Badge())
	assert.Equal(t, "SYS", Source("satellite").Badge().Label)
	assert.Equal(t, "navigation", KindEmergency.Icon())
	assert.Equal(t, "muted", LocationKind("camp").Color())
	assert.Equal(t, "📦", ResourceCategory("tools").Icon())
}

func TestAlertValidate(t *testing.T) {
	t.Parallel()

	valid := Alert{
		ID:       "a1",
		Category: CategoryWeather,
		Title:    "Heavy Rain Alert",
		Priority: PriorityHigh,
		Source:   SourceWeatherService,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Alert)
		target error
	}{
		{"missing id", func(a *Alert) { a.ID = "" }, nil},
		{"missing title", func(a *Alert) { a.Title = "" }, nil},
		{"bad category", func(a *Alert) { a.Category = "flood" }, ErrUnknownCategory},
		{"bad priority", func(a *Alert) { a.Priority = "urgent" }, ErrUnknownPriority},
		{"bad source", func(a *Alert) { a.Source = "radio" }, ErrUnknownSource},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := valid
			tt.mutate(&a)
			err := a.Validate()
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestNewSOSPayload(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	p := NewSOSPayload(at, nil)
	assert.Equal(t, SOSTypeEmergency, p.Type)
	assert.False(t, p.Verified)
	assert.Nil(t, p.Location)
	assert.Equal(t, at, p.Timestamp)
}
