package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo_FromPending(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusApproved))
	assert.True(t, StatusPending.CanTransitionTo(StatusRejected))
	assert.True(t, StatusPending.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusPending.CanTransitionTo(StatusCompleted))
	assert.False(t, StatusPending.CanTransitionTo(StatusPending))
}

func TestCanTransitionTo_FromApproved(t *testing.T) {
	assert.True(t, StatusApproved.CanTransitionTo(StatusCancelled))
	assert.True(t, StatusApproved.CanTransitionTo(StatusCompleted))
	assert.False(t, StatusApproved.CanTransitionTo(StatusPending))
	assert.False(t, StatusApproved.CanTransitionTo(StatusRejected))
}

func TestCanTransitionTo_TerminalStatesHaveNoExits(t *testing.T) {
	all := []BookingStatus{StatusPending, StatusApproved, StatusRejected, StatusCancelled, StatusCompleted}
	for _, terminal := range []BookingStatus{StatusRejected, StatusCancelled, StatusCompleted} {
		for _, next := range all {
			assert.False(t, terminal.CanTransitionTo(next), "%s -> %s should be illegal", terminal, next)
		}
	}
}

func TestActive(t *testing.T) {
	assert.True(t, StatusPending.Active())
	assert.True(t, StatusApproved.Active())
	assert.False(t, StatusRejected.Active())
	assert.False(t, StatusCancelled.Active())
	assert.False(t, StatusCompleted.Active())
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusCompleted.Valid())
	assert.False(t, BookingStatus("confirmed").Valid())
	assert.False(t, BookingStatus("").Valid())
}
