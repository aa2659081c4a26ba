package dto

import (
	"time"

	"stagecrew-api/modules/schedule/entity"
)

// ===================== Request DTOs =====================

// CreateScheduleRequest for creating a daily schedule block
type CreateScheduleRequest struct {
	Date                 string `json:"date" validate:"required"`       // YYYY-MM-DD
	StartTime            string `json:"start_time" validate:"required"` // HH:MM
	EndTime              string `json:"end_time" validate:"required"`   // HH:MM
	Title                string `json:"title" validate:"required"`
	Audience             string `json:"audience" validate:"required"`
	Mandatory            bool   `json:"mandatory"`
	Capacity             *int   `json:"capacity"`
	AcknowledgeConflicts bool   `json:"acknowledge_conflicts"`
}

// UpdateScheduleRequest mirrors the create payload for edits
type UpdateScheduleRequest struct {
	Date                 string `json:"date" validate:"required"`
	StartTime            string `json:"start_time" validate:"required"`
	EndTime              string `json:"end_time" validate:"required"`
	Title                string `json:"title" validate:"required"`
	Audience             string `json:"audience" validate:"required"`
	Mandatory            bool   `json:"mandatory"`
	Capacity             *int   `json:"capacity"`
	AcknowledgeConflicts bool   `json:"acknowledge_conflicts"`
}

// ReorderSchedulesRequest for persisting a new display order within a day
type ReorderSchedulesRequest struct {
	Date       string   `json:"date" validate:"required"` // YYYY-MM-DD
	OrderedIDs []string `json:"ordered_ids" validate:"required"`
}

// ===================== Response DTOs =====================

// ScheduleResponse for one schedule block
type ScheduleResponse struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Date      string    `json:"date"`
	StartAt   time.Time `json:"start_at"`
	EndAt     time.Time `json:"end_at"`
	Title     string    `json:"title"`
	Audience  string    `json:"audience"`
	Mandatory bool      `json:"mandatory"`
	Capacity  *int      `json:"capacity,omitempty"`
	Position  int       `json:"position"`
}

// DayScheduleResponse groups one day's blocks in display order
type DayScheduleResponse struct {
	Date      string             `json:"date"`
	Schedules []ScheduleResponse `json:"schedules"`
}

// ConflictListResponse carries the overlapping schedules a write would collide with
type ConflictListResponse struct {
	Conflicts []ScheduleResponse `json:"conflicts"`
}

// ===================== Mapper Functions =====================

// ToScheduleResponse maps entity to DTO
func ToScheduleResponse(s *entity.DailySchedule) *ScheduleResponse {
	return &ScheduleResponse{
		ID:        s.ID.String(),
		EventID:   s.EventID.String(),
		Date:      s.Date.Format("2006-01-02"),
		StartAt:   s.StartAt,
		EndAt:     s.EndAt,
		Title:     s.Title,
		Audience:  string(s.Audience),
		Mandatory: s.Mandatory,
		Capacity:  s.Capacity,
		Position:  s.Position,
	}
}

// ToScheduleResponses maps a slice of entities
func ToScheduleResponses(schedules []entity.DailySchedule) []ScheduleResponse {
	out := make([]ScheduleResponse, 0, len(schedules))
	for i := range schedules {
		out = append(out, *ToScheduleResponse(&schedules[i]))
	}
	return out
}

// ToDayScheduleResponses maps grouped schedules for display
func ToDayScheduleResponses(groups []entity.DayGroup) []DayScheduleResponse {
	out := make([]DayScheduleResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, DayScheduleResponse{
			Date:      g.Date.Format("2006-01-02"),
			Schedules: ToScheduleResponses(g.Schedules),
		})
	}
	return out
}
