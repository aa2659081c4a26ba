package entity

import (
	"time"

	"github.com/google/uuid"

	"stagecrew-api/core/timerange"
	eventEntity "stagecrew-api/modules/event/entity"
)

// DailySchedule is a time-boxed activity block within an event's date range,
// scoped to one calendar day and one audience.
type DailySchedule struct {
	ID        uuid.UUID            `db:"id" json:"id"`
	EventID   uuid.UUID            `db:"event_id" json:"event_id"`
	Date      time.Time            `db:"date" json:"date"`
	StartAt   time.Time            `db:"start_at" json:"start_at"`
	EndAt     time.Time            `db:"end_at" json:"end_at"`
	Title     string               `db:"title" json:"title"`
	Audience  eventEntity.Audience `db:"audience" json:"audience"`
	Mandatory bool                 `db:"mandatory" json:"mandatory"`
	Capacity  *int                 `db:"capacity" json:"capacity,omitempty"`
	Position  int                  `db:"position" json:"position"`
	Version   int                  `db:"version" json:"-"`
	CreatedAt time.Time            `db:"created_at" json:"created_at"`
	UpdatedAt time.Time            `db:"updated_at" json:"updated_at"`
}

// Range returns the schedule's half-open [start, end) interval.
func (s *DailySchedule) Range() timerange.Range {
	return timerange.Range{Start: s.StartAt, End: s.EndAt}
}

// SameDate reports whether two schedules fall on the same calendar day.
func (s *DailySchedule) SameDate(other *DailySchedule) bool {
	y1, m1, d1 := s.Date.Date()
	y2, m2, d2 := other.Date.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
