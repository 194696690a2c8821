package models

import "time"

// SOSTypeEmergency tags every SOS payload.
const SOSTypeEmergency = "SOS_EMERGENCY"

// Coordinates is a one-shot position fix reported by a device.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
}

// SOSPayload is what gets sent to responders when a countdown completes.
// Verified is always false here; verification happens downstream.
type SOSPayload struct {
	Timestamp time.Time    `json:"timestamp"`
	Location  *Coordinates `json:"location"`
	Type      string       `json:"type"`
	Verified  bool         `json:"verified"`
}

// NewSOSPayload builds an unverified SOS payload.
func NewSOSPayload(at time.Time, loc *Coordinates) SOSPayload {
	return SOSPayload{
		Timestamp: at,
		Location:  loc,
		Type:      SOSTypeEmergency,
		Verified:  false,
	}
}
