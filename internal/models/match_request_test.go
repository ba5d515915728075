package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchRequestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    MatchRequestStatus
		to      MatchRequestStatus
		allowed bool
	}{
		{"pending to accepted", StatusPending, StatusAccepted, true},
		{"pending to rejected", StatusPending, StatusRejected, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"pending to pending", StatusPending, StatusPending, false},
		{"accepted is terminal", StatusAccepted, StatusRejected, false},
		{"rejected is terminal", StatusRejected, StatusAccepted, false},
		{"cancelled is terminal", StatusCancelled, StatusAccepted, false},
		{"accepted cannot cancel", StatusAccepted, StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestMatchRequestStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.True(t, StatusAccepted.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
}

func TestDecisionOutcome_Status(t *testing.T) {
	assert.Equal(t, StatusAccepted, OutcomeAccept.Status())
	assert.Equal(t, StatusRejected, OutcomeReject.Status())
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleMentor.Valid())
	assert.True(t, RoleMentee.Valid())
	assert.False(t, Role("admin").Valid())
	assert.False(t, Role("").Valid())
}
