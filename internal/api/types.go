package api

import (
	"github.com/glucowatch/glucowatch/internal/alert"
	"github.com/glucowatch/glucowatch/internal/display"
)

// StatusResponse is the payload for GET /api/v1/status.
type StatusResponse struct {
	At             string         `json:"at"` // RFC3339, empty before the first cycle
	HasReading     bool           `json:"has_reading"`
	Value          float64        `json:"value"`
	Category       string         `json:"category"`
	Verdict        string         `json:"verdict"`
	InLowZone      bool           `json:"in_low_zone"`
	LastSuccessAt  string         `json:"last_success_at,omitempty"` // RFC3339
	DeviceTime     string         `json:"device_time,omitempty"`     // RFC3339
	Frames         display.Bundle `json:"frames"`
	EnteredLowZone bool           `json:"entered_low_zone"`
}

// AlertsResponse is the payload for GET /api/v1/alerts.
type AlertsResponse struct {
	Alerts []alert.Alert `json:"alerts"`
	Count  int           `json:"count"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
