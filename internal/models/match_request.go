package models

import "time"

// MatchRequestStatus represents the lifecycle status of a match request
type MatchRequestStatus string

const (
	StatusPending   MatchRequestStatus = "pending"
	StatusAccepted  MatchRequestStatus = "accepted"
	StatusRejected  MatchRequestStatus = "rejected"
	StatusCancelled MatchRequestStatus = "cancelled"
)

// IsTerminal returns true if no further transitions are allowed
func (s MatchRequestStatus) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected || s == StatusCancelled
}

// CanTransitionTo checks if a status transition is valid. Only pending
// requests move; every other status is terminal.
func (s MatchRequestStatus) CanTransitionTo(newStatus MatchRequestStatus) bool {
	if s != StatusPending {
		return false
	}
	return newStatus == StatusAccepted || newStatus == StatusRejected || newStatus == StatusCancelled
}

// DecisionOutcome is the mentor's verdict on a pending request
type DecisionOutcome string

const (
	OutcomeAccept DecisionOutcome = "accept"
	OutcomeReject DecisionOutcome = "reject"
)

// Status returns the terminal status the outcome maps to
func (o DecisionOutcome) Status() MatchRequestStatus {
	if o == OutcomeAccept {
		return StatusAccepted
	}
	return StatusRejected
}

// MatchRequest is a mentee-initiated proposal to pair with a specific mentor.
// DecidedAt is set exactly when the request leaves pending.
type MatchRequest struct {
	ID        string             `json:"id"`
	MentorID  int                `json:"mentorId"`
	MenteeID  int                `json:"menteeId"`
	Message   string             `json:"message"`
	Status    MatchRequestStatus `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
	DecidedAt *time.Time         `json:"decidedAt,omitempty"`
}

// CreateMatchRequestPayload is the body for POST /match-requests
type CreateMatchRequestPayload struct {
	MentorID int    `json:"mentorId" binding:"required"`
	Message  string `json:"message" binding:"max=2000"`
}

// DecideMatchRequestPayload is the body for POST /match-requests/:id/decide
type DecideMatchRequestPayload struct {
	Outcome DecisionOutcome `json:"outcome" binding:"required,oneof=accept reject"`
}

// MatchRequestsResponse is the response for listing requests
type MatchRequestsResponse struct {
	Requests []MatchRequest `json:"requests"`
	Total    int            `json:"total"`
}
