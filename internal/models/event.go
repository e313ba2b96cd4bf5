package models

import "time"

// Event represents a loggable action in the system, kept as an audit trail.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`  // e.g., "user.signup", "match.accept"
	Level     string    `json:"level"` // e.g., "info", "warn"
	Message   string    `json:"message"`
	UserID    *string   `json:"userId,omitempty"` // Nullable for system-wide events
	CreatedAt time.Time `json:"createdAt"`
}
