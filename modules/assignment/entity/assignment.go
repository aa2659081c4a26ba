package entity

import (
	"time"

	"github.com/google/uuid"
)

// AssignmentStatus represents a worker's position in the staffing workflow
type AssignmentStatus string

const (
	// AssignmentStatusProposed is the initial state: the worker has been
	// put forward but has not responded yet.
	AssignmentStatusProposed AssignmentStatus = "proposed"

	// Worker responses
	AssignmentStatusAvailable   AssignmentStatus = "available"
	AssignmentStatusUncertain   AssignmentStatus = "uncertain"
	AssignmentStatusUnavailable AssignmentStatus = "unavailable"

	// Finalization outcomes, reachable only through team finalization
	AssignmentStatusValidated   AssignmentStatus = "validated"
	AssignmentStatusNotRetained AssignmentStatus = "not_retained"

	// AssignmentStatusDeclined is a validated worker withdrawing from the team.
	AssignmentStatusDeclined AssignmentStatus = "declined"

	// AssignmentStatusCompleted closes a validated assignment after the event ends.
	AssignmentStatusCompleted AssignmentStatus = "completed"
)

func (s AssignmentStatus) IsValid() bool {
	switch s {
	case AssignmentStatusProposed, AssignmentStatusAvailable, AssignmentStatusUncertain,
		AssignmentStatusUnavailable, AssignmentStatusValidated, AssignmentStatusNotRetained,
		AssignmentStatusDeclined, AssignmentStatusCompleted:
		return true
	}
	return false
}

// IsWorkerResponse reports whether s is one of the three answers a worker
// can give to a proposal.
func (s AssignmentStatus) IsWorkerResponse() bool {
	return s == AssignmentStatusAvailable || s == AssignmentStatusUncertain || s == AssignmentStatusUnavailable
}

// IsInPlay reports whether the assignment is still competing for a team
// spot: proposed or positively responded, not yet partitioned.
func (s AssignmentStatus) IsInPlay() bool {
	return s == AssignmentStatusProposed || s == AssignmentStatusAvailable || s == AssignmentStatusUncertain
}

// IsSelectable reports whether team finalization may pick this assignment.
// Available and uncertain responders are candidates; a previously
// not-retained worker may be re-validated, and re-selecting an already
// validated one is the idempotent no-op case.
func (s AssignmentStatus) IsSelectable() bool {
	switch s {
	case AssignmentStatusAvailable, AssignmentStatusUncertain,
		AssignmentStatusValidated, AssignmentStatusNotRetained:
		return true
	}
	return false
}

// Assignment is one worker's relationship to one event
type Assignment struct {
	ID          uuid.UUID        `db:"id" json:"id"`
	EventID     uuid.UUID        `db:"event_id" json:"event_id"`
	WorkerID    uuid.UUID        `db:"worker_id" json:"worker_id"`
	Status      AssignmentStatus `db:"status" json:"status"`
	RoleLabel   *string          `db:"role_label" json:"role_label,omitempty"`
	RespondedAt *time.Time       `db:"responded_at" json:"responded_at,omitempty"`
	Version     int              `db:"version" json:"-"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updated_at"`
}
