package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitionTable(t *testing.T) {
	allowed := map[SubmissionStatus][]SubmissionStatus{
		StatusSubmitted:   {StatusUnderReview, StatusApproved, StatusRejected, StatusCancelled},
		StatusUnderReview: {StatusApproved, StatusRejected, StatusCancelled},
		StatusApproved:    {StatusAssigned, StatusCancelled},
		StatusAssigned:    {StatusActive, StatusCancelled},
		StatusActive:      {StatusCompleted},
	}

	for _, from := range SubmissionStatuses {
		for _, to := range SubmissionStatuses {
			want := false
			for _, s := range allowed[from] {
				if s == to {
					want = true
				}
			}
			assert.Equalf(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestTerminalStatusesHaveNoEdges(t *testing.T) {
	for _, s := range SubmissionStatuses {
		if s.IsTerminal() {
			assert.Empty(t, s.NextStatuses(), s)
		}
	}
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusAssigned.IsTerminal())
	assert.Empty(t, StatusDraft.NextStatuses())
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, ModuleProAm.IsValid())
	assert.False(t, ModuleType("golf").IsValid())
	assert.True(t, StatusUnderReview.IsValid())
	assert.False(t, SubmissionStatus("pending").IsValid())
}

func TestNextStatusesIsACopy(t *testing.T) {
	next := StatusSubmitted.NextStatuses()
	next[0] = StatusCompleted
	assert.False(t, StatusSubmitted.CanTransitionTo(StatusCompleted))
}

func TestSlotOccupancy(t *testing.T) {
	s := Slot{Capacity: 3, Occupied: 2, Assignments: []SlotAssignment{{SubmissionID: "a"}, {SubmissionID: "b"}}}
	assert.Equal(t, 1, s.Available())
	assert.Equal(t, []string{"a", "b"}, s.OccupantIDs())

	s.Occupied = 5
	assert.Equal(t, 0, s.Available())
}

func TestTransitionAuditAction(t *testing.T) {
	assert.Equal(t, "approve_submission", TransitionAuditAction(StatusApproved))
	assert.Equal(t, "cancel_submission", TransitionAuditAction(StatusCancelled))
	assert.Equal(t, AuditAssignSlot, TransitionAuditAction(StatusAssigned))
	assert.Equal(t, AuditTransitionSubmission, TransitionAuditAction(StatusDraft))
}
