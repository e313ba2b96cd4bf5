package models

import "time"

// RequestStatus is the lifecycle state of a match request.
type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusAccepted  RequestStatus = "accepted"
	StatusRejected  RequestStatus = "rejected"
	StatusCancelled RequestStatus = "cancelled"
)

// IsTerminal reports whether no further transition is allowed from s.
// Transitions are strictly pending -> {accepted, rejected, cancelled};
// a request never re-opens.
func (s RequestStatus) IsTerminal() bool {
	switch s {
	case StatusAccepted, StatusRejected, StatusCancelled:
		return true
	case StatusPending:
		return false
	}
	return false
}

// MatchRequest is a mentee-initiated proposal to a specific mentor.
type MatchRequest struct {
	ID        string        `json:"id"`
	MentorID  string        `json:"mentorId"`
	MenteeID  string        `json:"menteeId"`
	Message   string        `json:"message,omitempty"`
	Status    RequestStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}
