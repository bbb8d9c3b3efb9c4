package models

import "time"

const GuestUser = "Guest User"

// Event is one audit log entry. Ids are strictly increasing.
type Event struct {
	ID        int            `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	User      string         `json:"user"`
	Action    string         `json:"action"`
	Details   string         `json:"details"`
	Context   map[string]any `json:"context,omitempty"`
}
