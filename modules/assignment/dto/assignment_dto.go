package dto

import (
	"time"

	"stagecrew-api/modules/assignment/entity"
)

// ===================== Request DTOs =====================

// CreateAssignmentRequest proposes a worker for an event
type CreateAssignmentRequest struct {
	WorkerID  string  `json:"worker_id" validate:"required"`
	RoleLabel *string `json:"role_label"`
}

// RespondRequest is a worker's answer to a proposal
type RespondRequest struct {
	Response string `json:"response" validate:"required"` // available | uncertain | unavailable
}

// FinalizeTeamRequest is the regisseur's selected subset
type FinalizeTeamRequest struct {
	SelectedIDs []string `json:"selected_ids" validate:"required"`
}

// ===================== Response DTOs =====================

// AssignmentResponse for one assignment
type AssignmentResponse struct {
	ID          string     `json:"id"`
	EventID     string     `json:"event_id"`
	WorkerID    string     `json:"worker_id"`
	Status      string     `json:"status"`
	RoleLabel   *string    `json:"role_label,omitempty"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TeamResponse is the partition after finalization
type TeamResponse struct {
	EventID     string               `json:"event_id"`
	Validated   []AssignmentResponse `json:"validated"`
	NotRetained []AssignmentResponse `json:"not_retained"`
}

// ===================== Mapper Functions =====================

// ToAssignmentResponse maps entity to DTO
func ToAssignmentResponse(a *entity.Assignment) *AssignmentResponse {
	return &AssignmentResponse{
		ID:          a.ID.String(),
		EventID:     a.EventID.String(),
		WorkerID:    a.WorkerID.String(),
		Status:      string(a.Status),
		RoleLabel:   a.RoleLabel,
		RespondedAt: a.RespondedAt,
		CreatedAt:   a.CreatedAt,
	}
}

// ToAssignmentResponses maps a slice of entities
func ToAssignmentResponses(assignments []entity.Assignment) []AssignmentResponse {
	out := make([]AssignmentResponse, 0, len(assignments))
	for i := range assignments {
		out = append(out, *ToAssignmentResponse(&assignments[i]))
	}
	return out
}
