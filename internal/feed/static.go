package feed

import (
	"context"
	"time"

	"relief-service/internal/models"
)

// Static serves the built-in demo data set.
type Static struct {
	now func() time.Time
}

func NewStatic() *Static {
	return &Static{now: time.Now}
}

func (s *Static) FetchAlerts(_ context.Context) ([]models.Alert, error) {
	now := s.now()
	return []models.Alert{
		{
			ID:             "1",
			Category:       models.CategoryEmergency,
			Title:          "Flood Warning - Immediate Evacuation",
			Message:        "Water levels rising rapidly in Sector 12-15. Evacuate to higher ground immediately. Relief teams deployed.",
			Location:       "Sectors 12, 13, 14, 15",
			CreatedAt:      now.Add(-5 * time.Minute),
			Priority:       models.PriorityCritical,
			Source:         models.SourceGovernment,
			Active:         true,
			ActionRequired: true,
		},
		{
			ID:        "2",
			Category:  models.CategorySafety,
			Title:     "New Shelter Opened",
			Message:   "Additional emergency shelter now available at Community Center, Zone A. Capacity for 200 people.",
			Location:  "Zone A Community Center",
			CreatedAt: now.Add(-15 * time.Minute),
			Priority:  models.PriorityMedium,
			Source:    models.SourceNGO,
			Active:    true,
		},
		{
			ID:        "3",
			Category:  models.CategoryWeather,
			Title:     "Heavy Rain Alert",
			Message:   "Continuous rainfall expected for next 6 hours. Avoid low-lying areas and stay indoors.",
			Location:  "Entire District",
			CreatedAt: now.Add(-time.Hour),
			Priority:  models.PriorityHigh,
			Source:    models.SourceWeatherService,
			Active:    true,
		},
		{
			ID:        "4",
			Category:  models.CategoryResource,
			Title:     "Medical Supplies Available",
			Message:   "Emergency medical kits and medicines available at Red Cross center. Free distribution ongoing.",
			Location:  "Red Cross Center, Main Road",
			CreatedAt: now.Add(-2 * time.Hour),
			Priority:  models.PriorityMedium,
			Source:    models.SourceNGO,
			Active:    true,
		},
	}, nil
}

func (s *Static) FetchLocations(_ context.Context) ([]models.ReliefLocation, error) {
	capacity := 500
	available := true
	return []models.ReliefLocation{
		{
			ID:        "1",
			Name:      "Government Emergency Shelter",
			Kind:      models.KindShelter,
			Latitude:  28.6139,
			Longitude: 77.2090,
			Capacity:  &capacity,
			Available: &available,
			Resources: []string{"Food", "Water", "Medical"},
		},
		{ID: "2", Name: "Community Safe Zone", Kind: models.KindSafeZone, Latitude: 28.6129, Longitude: 77.2290},
		{
			ID:        "3",
			Name:      "Red Cross Resource Center",
			Kind:      models.KindResourceCenter,
			Latitude:  28.6239,
			Longitude: 77.2190,
			Resources: []string{"Medicine", "Blankets", "Food Packets"},
		},
		{ID: "4", Name: "Volunteer Coordination Hub", Kind: models.KindVolunteerHub, Latitude: 28.6339, Longitude: 77.2390},
		{ID: "5", Name: "Active Emergency Zone", Kind: models.KindEmergency, Latitude: 28.6039, Longitude: 77.1990},
	}, nil
}

// Resources returns the demo resource board entries.
func (s *Static) Resources() []models.Resource {
	now := s.now()
	return []models.Resource{
		{
			ID:       "1",
			Name:     "Emergency Food Packets (50 units)",
			Category: models.ResourceFood,
			Quantity: "50 packets",
			Location: "Red Cross Center, Sector 15",
			Provider: "Red Cross India",
			Status:   models.ResourceAvailable,
			Urgency:  models.PriorityMedium,
			PostedAt: now.Add(-2 * time.Hour),
		},
		{
			ID:       "2",
			Name:     "First Aid Medical Kits",
			Category: models.ResourceMedical,
			Quantity: "25 kits",
			Location: "Government Hospital",
			Provider: "Health Department",
			Status:   models.ResourceAvailable,
			Urgency:  models.PriorityHigh,
			PostedAt: now.Add(-time.Hour),
		},
		{
			ID:       "3",
			Name:     "Blankets and Warm Clothing",
			Category: models.ResourceClothing,
			Quantity: "100 pieces",
			Location: "Community Center",
			Provider: "Local NGO",
			Status:   models.ResourceRequested,
			Urgency:  models.PriorityHigh,
			PostedAt: now.Add(-30 * time.Minute),
		},
		{
			ID:       "4",
			Name:     "Drinking Water (Bottled)",
			Category: models.ResourceWater,
			Quantity: "200 bottles",
			Location: "Relief Camp, Zone A",
			Provider: "Municipal Corporation",
			Status:   models.ResourceInTransit,
			Urgency:  models.PriorityMedium,
			PostedAt: now.Add(-45 * time.Minute),
		},
	}
}
