package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"stagecrew-api/core/database"
	coreEntity "stagecrew-api/core/entity"
	"stagecrew-api/core/errors"
	"stagecrew-api/core/logger"
	"stagecrew-api/core/utils"
	"stagecrew-api/modules/assignment/dto"
	"stagecrew-api/modules/assignment/entity"
	"stagecrew-api/modules/assignment/repository"
	eventEntity "stagecrew-api/modules/event/entity"
)

// TxRunner runs a function inside a single database transaction.
type TxRunner interface {
	WithinTransaction(ctx context.Context, fn func(tx database.Queryer) error) error
}

// EventStore is the slice of the event module this service consults.
type EventStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*eventEntity.Event, error)
	LockEvent(ctx context.Context, q database.Queryer, id uuid.UUID) error
	AppendHistory(ctx context.Context, q database.Queryer, h *eventEntity.EventHistory) error
}

// Notifier is the boundary to the notification collaborator.
type Notifier interface {
	NotifyAssignmentProposed(ctx context.Context, assignment *entity.Assignment)
	NotifyTeamFinalized(ctx context.Context, eventID uuid.UUID, validated, notRetained []entity.Assignment)
}

// AssignmentService drives the staffing workflow
type AssignmentService struct {
	repo   repository.AssignmentRepositoryInterface
	events EventStore
	tx     TxRunner
	notif  Notifier
}

// AssignmentServiceInterface defines the service contract
type AssignmentServiceInterface interface {
	CreateAssignment(ctx context.Context, actor coreEntity.Actor, eventID uuid.UUID, req *dto.CreateAssignmentRequest) (*dto.AssignmentResponse, *errors.AppError)
	Respond(ctx context.Context, actor coreEntity.Actor, assignmentID uuid.UUID, req *dto.RespondRequest) (*dto.AssignmentResponse, *errors.AppError)
	Revoke(ctx context.Context, actor coreEntity.Actor, assignmentID uuid.UUID) (*dto.AssignmentResponse, *errors.AppError)
	Decline(ctx context.Context, actor coreEntity.Actor, assignmentID uuid.UUID) (*dto.AssignmentResponse, *errors.AppError)
	FinalizeTeam(ctx context.Context, actor coreEntity.Actor, eventID uuid.UUID, req *dto.FinalizeTeamRequest) (*dto.TeamResponse, *errors.AppError)
	CompleteForEvent(ctx context.Context, actor coreEntity.Actor, eventID uuid.UUID) ([]dto.AssignmentResponse, *errors.AppError)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]dto.AssignmentResponse, *errors.AppError)
	ListMine(ctx context.Context, actor coreEntity.Actor) ([]dto.AssignmentResponse, *errors.AppError)
}

// NewAssignmentService creates a new assignment service
func NewAssignmentService(repo repository.AssignmentRepositoryInterface, events EventStore, tx TxRunner, notif Notifier) AssignmentServiceInterface {
	return &AssignmentService{repo: repo, events: events, tx: tx, notif: notif}
}

// loadEvent fetches the parent event or fails with NOT_FOUND.
func (s *AssignmentService) loadEvent(ctx context.Context, eventID uuid.UUID) (*eventEntity.Event, *errors.AppError) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	return event, nil
}

func (s *AssignmentService) loadAssignment(ctx context.Context, assignmentID uuid.UUID) (*entity.Assignment, *errors.AppError) {
	assignment, err := s.repo.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get assignment", err)
	}
	if assignment == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Assignment not found", nil)
	}
	return assignment, nil
}

// transition persists a status change with the optimistic version check.
func (s *AssignmentService) transition(ctx context.Context, q database.Queryer, assignment *entity.Assignment) (*entity.Assignment, *errors.AppError) {
	updated, err := s.repo.UpdateStatus(ctx, q, assignment)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update assignment", err)
	}
	if updated == nil {
		return nil, errors.NewAppError(errors.ErrConcurrentModification, "Assignment was modified concurrently, retry with fresh state", nil)
	}
	return updated, nil
}

// CreateAssignment proposes a worker for a published event. A worker holds
// at most one assignment per event.
func (s *AssignmentService) CreateAssignment(ctx context.Context, actor coreEntity.Actor, eventID uuid.UUID, req *dto.CreateAssignmentRequest) (*dto.AssignmentResponse, *errors.AppError) {
	if !actor.IsSchedulingAuthority() {
		return nil, errors.NewAppError(errors.ErrPermissionDenied, "Only a scheduling authority may propose assignments", nil)
	}

	event, appErr := s.loadEvent(ctx, eventID)
	if appErr != nil {
		return nil, appErr
	}
	if event.Status != eventEntity.EventStatusPublished {
		return nil, errors.NewAppError(errors.ErrInvalidTransition, "Workers can only be proposed on a published event", nil)
	}

	workerID, err := uuid.Parse(req.WorkerID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid worker ID", err)
	}

	existing, err := s.repo.GetByEventAndWorker(ctx, eventID, workerID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check existing assignment", err)
	}
	if existing != nil {
		return nil, errors.NewAppError(errors.ErrDuplicateAssignment, "Worker already has an assignment for this event", nil)
	}

	created, err := s.repo.Create(ctx, &entity.Assignment{
		EventID:   eventID,
		WorkerID:  workerID,
		Status:    entity.AssignmentStatusProposed,
		RoleLabel: req.RoleLabel,
	})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create assignment", err)
	}

	if s.notif != nil {
		s.notif.NotifyAssignmentProposed(ctx, created)
	}
	return dto.ToAssignmentResponse(created), nil
}

// Respond records a worker's answer to their own proposal. Only the three
// availability answers are reachable here, and only from the proposed state.
func (s *AssignmentService) Respond(ctx context.Context, actor coreEntity.Actor, assignmentID uuid.UUID, req *dto.RespondRequest) (*dto.AssignmentResponse, *errors.AppError) {
	target := entity.AssignmentStatus(req.Response)
	if !target.IsWorkerResponse() {
		return nil, errors.NewAppError(errors.ErrInvalidTransition, "Response must be available, uncertain or unavailable", nil)
	}

	assignment, appErr := s.loadAssignment(ctx, assignmentID)
	if appErr != nil {
		return nil, appErr
	}
	if !actor.IsWorker() || actor.ID != assignment.WorkerID {
		return nil, errors.NewAppError(errors.ErrPermissionDenied, "Only the assigned worker may respond", nil)
	}

	event, appErr := s.loadEvent(ctx, assignment.EventID)
	if appErr != nil {
		return nil, appErr
	}
	if event.Status.IsTerminal() {
		return nil, errors.NewAppError(errors.ErrInvalidTransition, "Cannot respond on a "+string(event.Status)+" event", nil)
	}

	if assignment.Status != entity.AssignmentStatusProposed {
		return nil, errors.NewAppError(errors.ErrInvalidTransition, "Assignment has already been answered or finalized", nil)
	}

	now := time.Now().UTC()
	assignment.Status = target
	assignment.RespondedAt = &now

	updated, appErr := s.transition(ctx, nil, assignment)
	if appErr != nil {
		return nil, appErr
	}
	return dto.ToAssignmentResponse(updated), nil
}

// Revoke resets an assignment to proposed, clearing the recorded response.
// Completed assignments are closed history and cannot be reopened.
func (s *AssignmentService) Revoke(ctx context.Context, actor coreEntity.Actor, assignmentID uuid.UUID) (*dto.AssignmentResponse, *errors.AppError) {
	if !actor.IsSchedulingAuthority() {
		return nil, errors.NewAppError(errors.ErrPermissionDenied, "Only a scheduling authority may revoke assignments", nil)
	}

	assignment, appErr := s.loadAssignment(ctx, assignmentID)
	if appErr != nil {
		return nil, appErr
	}
	if assignment.Status == entity.AssignmentStatusCompleted {
		return nil, errors.NewAppError(errors.ErrInvalidTransition, "A completed assignment cannot be revoked", nil)
	}

	event, appErr := s.loadEvent(ctx, assignment.EventID)
	if appErr != nil {
		return nil, appErr
	}
	if event.Status.IsTerminal() {
		return nil, errors.NewAppError(errors.ErrInvalidTransition, "Cannot revoke on a "+string(event.Status)+" event", nil)
	}

	assignment.Status = entity.AssignmentStatusProposed
	assignment.RespondedAt = nil

	var updated *entity.Assignment
	txErr := s.tx.WithinTransaction(ctx, func(tx database.Queryer) error {
		if err := s.events.LockEvent(ctx, tx, assignment.EventID); err != nil {
			return err
		}
		var innerErr *errors.AppError
		updated, innerErr = s.transition(ctx, tx, assignment)
		if innerErr != nil {
			return innerErr
		}
		return s.events.AppendHistory(ctx, tx, &eventEntity.EventHistory{
			ID:      utils.GenerateID(),
			EventID: assignment.EventID,
			Action:  eventEntity.HistoryActionAssignmentRevoked,
			Actor:   actor.ID,
		})
	})
	if txErr != nil {
		if ae, ok := txErr.(*errors.AppError); ok {
			return nil, ae
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to revoke assignment", txErr)
	}

	return dto.ToAssignmentResponse(updated), nil
}

// Decline lets a validated worker withdraw from the team.
func (s *AssignmentService) Decline(ctx context.Context, actor coreEntity.Actor, assignmentID uuid.UUID) (*dto.AssignmentResponse, *errors.AppError) {
	assignment, appErr := s.loadAssignment(ctx, assignmentID)
	if appErr != nil {
		return nil, appErr
	}
	if !actor.IsWorker() || actor.ID != assignment.WorkerID {
		return nil, errors.NewAppError(errors.ErrPermissionDenied, "Only the assigned worker may decline", nil)
	}
	if assignment.Status != entity.AssignmentStatusValidated {
		return nil, errors.NewAppError(errors.ErrInvalidTransition, "Only a validated assignment can be declined", nil)
	}

	event, appErr := s.loadEvent(ctx, assignment.EventID)
	if appErr != nil {
		return nil, appErr
	}
	if event.Status.IsTerminal() {
		return nil, errors.NewAppError(errors.ErrInvalidTransition, "Cannot decline on a "+string(event.Status)+" event", nil)
	}

	assignment.Status = entity.AssignmentStatusDeclined
	updated, appErr := s.transition(ctx, nil, assignment)
	if appErr != nil {
		return nil, appErr
	}

	logger.Info("AssignmentService:Decline", "assignment_id", assignmentID.String(), "worker_id", actor.ID.String())
	return dto.ToAssignmentResponse(updated), nil
}

// CompleteForEvent closes out the validated team once the event has ended.
func (s *AssignmentService) CompleteForEvent(ctx context.Context, actor coreEntity.Actor, eventID uuid.UUID) ([]dto.AssignmentResponse, *errors.AppError) {
	if !actor.IsSchedulingAuthority() {
		return nil, errors.NewAppError(errors.ErrPermissionDenied, "Only a scheduling authority may complete assignments", nil)
	}

	event, appErr := s.loadEvent(ctx, eventID)
	if appErr != nil {
		return nil, appErr
	}
	if event.Status != eventEntity.EventStatusCompleted {
		return nil, errors.NewAppError(errors.ErrInvalidTransition, "Assignments close out only on a completed event", nil)
	}

	var closed []entity.Assignment
	txErr := s.tx.WithinTransaction(ctx, func(tx database.Queryer) error {
		if err := s.events.LockEvent(ctx, tx, eventID); err != nil {
			return err
		}
		assignments, err := s.repo.ListByEvent(ctx, tx, eventID)
		if err != nil {
			return err
		}
		for i := range assignments {
			a := &assignments[i]
			if a.Status != entity.AssignmentStatusValidated {
				continue
			}
			a.Status = entity.AssignmentStatusCompleted
			updated, innerErr := s.transition(ctx, tx, a)
			if innerErr != nil {
				return innerErr
			}
			closed = append(closed, *updated)
		}
		return nil
	})
	if txErr != nil {
		if ae, ok := txErr.(*errors.AppError); ok {
			return nil, ae
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to complete assignments", txErr)
	}

	return dto.ToAssignmentResponses(closed), nil
}

// ListByEvent returns every assignment of an event.
func (s *AssignmentService) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]dto.AssignmentResponse, *errors.AppError) {
	if _, appErr := s.loadEvent(ctx, eventID); appErr != nil {
		return nil, appErr
	}

	assignments, err := s.repo.ListByEvent(ctx, nil, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list assignments", err)
	}
	return dto.ToAssignmentResponses(assignments), nil
}

// ListMine returns the calling worker's own assignments.
func (s *AssignmentService) ListMine(ctx context.Context, actor coreEntity.Actor) ([]dto.AssignmentResponse, *errors.AppError) {
	assignments, err := s.repo.ListByWorker(ctx, actor.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list assignments", err)
	}
	return dto.ToAssignmentResponses(assignments), nil
}
