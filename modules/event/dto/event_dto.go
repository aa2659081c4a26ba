package dto

import (
	"time"

	"stagecrew-api/modules/event/entity"
)

// ===================== Request DTOs =====================

// CreateEventRequest for creating a new event
type CreateEventRequest struct {
	Title    string `json:"title" validate:"required"`
	StartAt  string `json:"start_at" validate:"required"` // RFC3339
	EndAt    string `json:"end_at" validate:"required"`   // RFC3339
	Audience string `json:"audience" validate:"required"` // techniques | artistiques | both
}

// TransitionEventRequest for a lifecycle status change
type TransitionEventRequest struct {
	Target string `json:"target" validate:"required"` // draft | published | cancelled | completed
}

// ===================== Response DTOs =====================

// EventResponse for event details
type EventResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	StartAt     time.Time  `json:"start_at"`
	EndAt       time.Time  `json:"end_at"`
	Audience    string     `json:"audience"`
	Status      string     `json:"status"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// HistoryResponse for one audit log entry
type HistoryResponse struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Actor     string    `json:"actor"`
	CreatedAt time.Time `json:"created_at"`
}

// PaginatedEventResponse for paginated events list
type PaginatedEventResponse struct {
	Items      []EventResponse `json:"items"`
	TotalItems int             `json:"total_items"`
	PageNumber int             `json:"page_number"`
	PageSize   int             `json:"page_size"`
}

// ===================== Mapper Functions =====================

// ToEventResponse maps entity to DTO
func ToEventResponse(e *entity.Event) *EventResponse {
	return &EventResponse{
		ID:          e.ID.String(),
		Title:       e.Title,
		Slug:        e.Slug,
		StartAt:     e.StartAt,
		EndAt:       e.EndAt,
		Audience:    string(e.Audience),
		Status:      string(e.Status),
		PublishedAt: e.PublishedAt,
		CreatedAt:   e.CreatedAt,
	}
}

// ToHistoryResponse maps a history entry to DTO
func ToHistoryResponse(h *entity.EventHistory) *HistoryResponse {
	return &HistoryResponse{
		ID:        h.ID,
		Action:    h.Action,
		Actor:     h.Actor.String(),
		CreatedAt: h.CreatedAt,
	}
}
