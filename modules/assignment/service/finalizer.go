package service

import (
	"context"

	"github.com/google/uuid"

	"stagecrew-api/core/database"
	coreEntity "stagecrew-api/core/entity"
	"stagecrew-api/core/errors"
	"stagecrew-api/core/logger"
	"stagecrew-api/core/utils"
	"stagecrew-api/modules/assignment/dto"
	"stagecrew-api/modules/assignment/entity"
	eventEntity "stagecrew-api/modules/event/entity"
)

// FinalizeTeam partitions an event's in-play assignments in one transaction:
// the selected subset becomes validated, every other assignment still
// competing for a spot becomes not_retained. Assignments outside the
// competition (unavailable, declined, completed) are left untouched.
// Re-running with the same selection changes no rows and appends no history.
func (s *AssignmentService) FinalizeTeam(ctx context.Context, actor coreEntity.Actor, eventID uuid.UUID, req *dto.FinalizeTeamRequest) (*dto.TeamResponse, *errors.AppError) {
	if !actor.IsSchedulingAuthority() {
		return nil, errors.NewAppError(errors.ErrPermissionDenied, "Only a scheduling authority may finalize the team", nil)
	}

	if len(req.SelectedIDs) == 0 {
		return nil, errors.NewAppError(errors.ErrEmptySelection, "Team finalization requires at least one selected assignment", nil)
	}
	selected := make(map[uuid.UUID]bool, len(req.SelectedIDs))
	for _, raw := range req.SelectedIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid assignment ID in selection", err)
		}
		selected[id] = true
	}

	event, appErr := s.loadEvent(ctx, eventID)
	if appErr != nil {
		return nil, appErr
	}
	if event.Status != eventEntity.EventStatusPublished {
		return nil, errors.NewAppError(errors.ErrInvalidTransition, "Teams are finalized on a published event", nil)
	}

	team := &dto.TeamResponse{EventID: eventID.String()}
	var validated, notRetained []entity.Assignment
	txErr := s.tx.WithinTransaction(ctx, func(tx database.Queryer) error {
		if err := s.events.LockEvent(ctx, tx, eventID); err != nil {
			return err
		}

		assignments, err := s.repo.ListByEvent(ctx, tx, eventID)
		if err != nil {
			return err
		}

		byID := make(map[uuid.UUID]*entity.Assignment, len(assignments))
		for i := range assignments {
			byID[assignments[i].ID] = &assignments[i]
		}

		// Every selected ID must name an assignment of this event that is
		// eligible for validation. Checked in full before any write so a
		// bad selection leaves the workflow untouched.
		for id := range selected {
			a, ok := byID[id]
			if !ok {
				return errors.NewAppError(errors.ErrInvalidCandidate, "Assignment "+id.String()+" does not belong to this event", nil)
			}
			if !a.Status.IsSelectable() {
				return errors.NewAppError(errors.ErrInvalidCandidate, "Assignment "+id.String()+" is "+string(a.Status)+" and cannot be validated", nil)
			}
		}

		changes := 0
		for i := range assignments {
			a := &assignments[i]
			var target entity.AssignmentStatus
			switch {
			case selected[a.ID]:
				target = entity.AssignmentStatusValidated
			case a.Status.IsInPlay():
				target = entity.AssignmentStatusNotRetained
			default:
				target = a.Status
			}

			if target != a.Status {
				a.Status = target
				updated, innerErr := s.transition(ctx, tx, a)
				if innerErr != nil {
					return innerErr
				}
				*a = *updated
				changes++
			}

			switch a.Status {
			case entity.AssignmentStatusValidated:
				validated = append(validated, *a)
				team.Validated = append(team.Validated, *dto.ToAssignmentResponse(a))
			case entity.AssignmentStatusNotRetained:
				notRetained = append(notRetained, *a)
				team.NotRetained = append(team.NotRetained, *dto.ToAssignmentResponse(a))
			}
		}

		if changes == 0 {
			return nil
		}
		return s.events.AppendHistory(ctx, tx, &eventEntity.EventHistory{
			ID:      utils.GenerateID(),
			EventID: eventID,
			Action:  eventEntity.HistoryActionTeamFinalized,
			Actor:   actor.ID,
		})
	})
	if txErr != nil {
		if ae, ok := txErr.(*errors.AppError); ok {
			return nil, ae
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to finalize team", txErr)
	}

	logger.Info("AssignmentService:FinalizeTeam",
		"event_id", eventID.String(),
		"validated", len(team.Validated),
		"not_retained", len(team.NotRetained))

	if s.notif != nil {
		s.notif.NotifyTeamFinalized(ctx, eventID, validated, notRetained)
	}
	return team, nil
}
