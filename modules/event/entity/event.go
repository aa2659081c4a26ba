package entity

import (
	"time"

	"github.com/google/uuid"
)

// EventStatus represents the lifecycle status of an event
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
)

// IsTerminal reports whether the status admits no further transitions.
func (s EventStatus) IsTerminal() bool {
	return s == EventStatusCancelled || s == EventStatusCompleted
}

// IsValid reports whether s is a known lifecycle status.
func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusDraft, EventStatusPublished, EventStatusCancelled, EventStatusCompleted:
		return true
	}
	return false
}

// lifecycleEdges is the closed set of allowed status transitions.
var lifecycleEdges = map[EventStatus][]EventStatus{
	EventStatusDraft:     {EventStatusPublished},
	EventStatusPublished: {EventStatusDraft, EventStatusCancelled, EventStatusCompleted},
}

// CanTransitionTo reports whether the edge from s to target is allowed.
func (s EventStatus) CanTransitionTo(target EventStatus) bool {
	for _, t := range lifecycleEdges[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Audience is the worker category an event or schedule targets
type Audience string

const (
	AudienceTechniques  Audience = "techniques"
	AudienceArtistiques Audience = "artistiques"
	AudienceBoth        Audience = "both"
)

func (a Audience) IsValid() bool {
	switch a {
	case AudienceTechniques, AudienceArtistiques, AudienceBoth:
		return true
	}
	return false
}

// Intersects reports whether two audiences share at least one worker
// category. "both" matches everything.
func (a Audience) Intersects(b Audience) bool {
	if a == AudienceBoth || b == AudienceBoth {
		return true
	}
	return a == b
}

// Event represents a time-boxed production requiring staffing
type Event struct {
	ID          uuid.UUID   `db:"id" json:"id"`
	Title       string      `db:"title" json:"title"`
	Slug        string      `db:"slug" json:"slug"`
	StartAt     time.Time   `db:"start_at" json:"start_at"`
	EndAt       time.Time   `db:"end_at" json:"end_at"`
	Audience    Audience    `db:"audience" json:"audience"`
	Status      EventStatus `db:"status" json:"status"`
	PublishedAt *time.Time  `db:"published_at" json:"published_at,omitempty"`
	Version     int         `db:"version" json:"-"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}

// History actions recorded in the append-only event log.
const (
	HistoryActionCreated            = "created"
	HistoryActionPublished          = "published"
	HistoryActionUnpublished        = "unpublished"
	HistoryActionCancelled          = "cancelled"
	HistoryActionCompleted          = "completed"
	HistoryActionConflictOverridden = "schedule_conflict_overridden"
	HistoryActionTeamFinalized      = "team_finalized"
	HistoryActionAssignmentRevoked  = "assignment_revoked"
)

// EventHistory is one append-only audit entry. Entries are never updated
// or deleted.
type EventHistory struct {
	ID        string    `db:"id" json:"id"`
	EventID   uuid.UUID `db:"event_id" json:"event_id"`
	Action    string    `db:"action" json:"action"`
	Actor     uuid.UUID `db:"actor" json:"actor"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
