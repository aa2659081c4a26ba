package service

import (
	"context"

	"github.com/google/uuid"

	"stagecrew-api/core/database"
	coreEntity "stagecrew-api/core/entity"
	"stagecrew-api/core/errors"
	"stagecrew-api/core/logger"
	"stagecrew-api/core/timerange"
	"stagecrew-api/core/utils"
	eventEntity "stagecrew-api/modules/event/entity"
	"stagecrew-api/modules/schedule/dto"
	"stagecrew-api/modules/schedule/entity"
	"stagecrew-api/modules/schedule/repository"
)

// TxRunner runs a function inside a single database transaction.
type TxRunner interface {
	WithinTransaction(ctx context.Context, fn func(tx database.Queryer) error) error
}

// EventStore is the slice of the event module this service consults: the
// parent event's window and status, its per-event write lock, and the
// append-only audit log.
type EventStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*eventEntity.Event, error)
	LockEvent(ctx context.Context, q database.Queryer, id uuid.UUID) error
	AppendHistory(ctx context.Context, q database.Queryer, h *eventEntity.EventHistory) error
}

// ScheduleService validates and persists daily schedule blocks
type ScheduleService struct {
	repo   repository.ScheduleRepositoryInterface
	events EventStore
	tx     TxRunner
}

// ScheduleServiceInterface defines the service contract
type ScheduleServiceInterface interface {
	CreateSchedule(ctx context.Context, actor coreEntity.Actor, eventID uuid.UUID, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, *errors.AppError)
	UpdateSchedule(ctx context.Context, actor coreEntity.Actor, scheduleID uuid.UUID, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, *errors.AppError)
	DeleteSchedule(ctx context.Context, actor coreEntity.Actor, scheduleID uuid.UUID) *errors.AppError
	ListSchedules(ctx context.Context, eventID uuid.UUID) ([]dto.DayScheduleResponse, *errors.AppError)
	ListConflicts(ctx context.Context, eventID uuid.UUID, req *dto.CreateScheduleRequest) (*dto.ConflictListResponse, *errors.AppError)
	ReorderSchedules(ctx context.Context, actor coreEntity.Actor, eventID uuid.UUID, req *dto.ReorderSchedulesRequest) ([]dto.ScheduleResponse, *errors.AppError)
}

// NewScheduleService creates a new schedule service
func NewScheduleService(repo repository.ScheduleRepositoryInterface, events EventStore, tx TxRunner) ScheduleServiceInterface {
	return &ScheduleService{repo: repo, events: events, tx: tx}
}

// buildCandidate validates the request fields against the parent event and
// returns the candidate block. Validation order: time range, then event
// window, conflicts are checked by the caller.
func (s *ScheduleService) buildCandidate(event *eventEntity.Event, date, startClock, endClock, title, audience string, mandatory bool, capacity *int) (*entity.DailySchedule, *errors.AppError) {
	day, err := timerange.ParseDate(date)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid date format, want YYYY-MM-DD", err)
	}
	startAt, err := timerange.ParseClock(date, startClock)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid start_time format, want HH:MM", err)
	}
	endAt, err := timerange.ParseClock(date, endClock)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid end_time format, want HH:MM", err)
	}

	if _, err := timerange.New(startAt, endAt); err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidRange, "Schedule end must be after start", err)
	}

	window := timerange.Range{Start: event.StartAt, End: event.EndAt}
	if !window.ContainsDate(day) {
		return nil, errors.NewAppError(errors.ErrOutOfRange, "Schedule date falls outside the event window", nil)
	}

	aud := eventEntity.Audience(audience)
	if !aud.IsValid() {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Unknown audience", nil)
	}

	return &entity.DailySchedule{
		EventID:   event.ID,
		Date:      day,
		StartAt:   startAt,
		EndAt:     endAt,
		Title:     title,
		Audience:  aud,
		Mandatory: mandatory,
		Capacity:  capacity,
	}, nil
}

// loadWritableEvent fetches the event and rejects writes once it is terminal.
func (s *ScheduleService) loadWritableEvent(ctx context.Context, eventID uuid.UUID) (*eventEntity.Event, *errors.AppError) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	if event.Status.IsTerminal() {
		return nil, errors.NewAppError(errors.ErrInvalidTransition, "Schedules cannot be changed on a "+string(event.Status)+" event", nil)
	}
	return event, nil
}

// CreateSchedule validates and inserts a schedule block. Conflicts are
// re-checked inside the transaction holding the event lock, so a racing
// writer cannot slip an unacknowledged overlap between read and commit.
func (s *ScheduleService) CreateSchedule(ctx context.Context, actor coreEntity.Actor, eventID uuid.UUID, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, *errors.AppError) {
	if !actor.IsSchedulingAuthority() {
		return nil, errors.NewAppError(errors.ErrPermissionDenied, "Only a scheduling authority may create schedules", nil)
	}

	event, appErr := s.loadWritableEvent(ctx, eventID)
	if appErr != nil {
		return nil, appErr
	}

	candidate, appErr := s.buildCandidate(event, req.Date, req.StartTime, req.EndTime, req.Title, req.Audience, req.Mandatory, req.Capacity)
	if appErr != nil {
		return nil, appErr
	}

	var created *entity.DailySchedule
	txErr := s.tx.WithinTransaction(ctx, func(tx database.Queryer) error {
		if err := s.events.LockEvent(ctx, tx, eventID); err != nil {
			return err
		}

		existing, err := s.repo.ListByEventAndDate(ctx, tx, eventID, candidate.Date)
		if err != nil {
			return err
		}

		if conflicts := FindConflicts(candidate, existing); len(conflicts) > 0 {
			if !req.AcknowledgeConflicts {
				return errors.NewAppErrorWithDetails(errors.ErrConflictsPending,
					"Schedule overlaps existing blocks, confirm to proceed",
					dto.ConflictListResponse{Conflicts: dto.ToScheduleResponses(conflicts)})
			}
			if err := s.events.AppendHistory(ctx, tx, &eventEntity.EventHistory{
				ID:      utils.GenerateID(),
				EventID: eventID,
				Action:  eventEntity.HistoryActionConflictOverridden,
				Actor:   actor.ID,
			}); err != nil {
				return err
			}
		}

		created, err = s.repo.Create(ctx, tx, candidate)
		return err
	})
	if txErr != nil {
		if ae, ok := txErr.(*errors.AppError); ok {
			return nil, ae
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create schedule", txErr)
	}

	return dto.ToScheduleResponse(created), nil
}

// UpdateSchedule applies an edit with the same validation pipeline as
// creation, excluding the edited block from its own conflict set.
func (s *ScheduleService) UpdateSchedule(ctx context.Context, actor coreEntity.Actor, scheduleID uuid.UUID, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, *errors.AppError) {
	if !actor.IsSchedulingAuthority() {
		return nil, errors.NewAppError(errors.ErrPermissionDenied, "Only a scheduling authority may edit schedules", nil)
	}

	current, err := s.repo.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get schedule", err)
	}
	if current == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Schedule not found", nil)
	}

	event, appErr := s.loadWritableEvent(ctx, current.EventID)
	if appErr != nil {
		return nil, appErr
	}

	candidate, appErr := s.buildCandidate(event, req.Date, req.StartTime, req.EndTime, req.Title, req.Audience, req.Mandatory, req.Capacity)
	if appErr != nil {
		return nil, appErr
	}
	candidate.ID = current.ID
	candidate.Version = current.Version

	var updated *entity.DailySchedule
	txErr := s.tx.WithinTransaction(ctx, func(tx database.Queryer) error {
		if err := s.events.LockEvent(ctx, tx, event.ID); err != nil {
			return err
		}

		existing, err := s.repo.ListByEventAndDate(ctx, tx, event.ID, candidate.Date)
		if err != nil {
			return err
		}

		if conflicts := FindConflicts(candidate, existing); len(conflicts) > 0 {
			if !req.AcknowledgeConflicts {
				return errors.NewAppErrorWithDetails(errors.ErrConflictsPending,
					"Schedule overlaps existing blocks, confirm to proceed",
					dto.ConflictListResponse{Conflicts: dto.ToScheduleResponses(conflicts)})
			}
			if err := s.events.AppendHistory(ctx, tx, &eventEntity.EventHistory{
				ID:      utils.GenerateID(),
				EventID: event.ID,
				Action:  eventEntity.HistoryActionConflictOverridden,
				Actor:   actor.ID,
			}); err != nil {
				return err
			}
		}

		updated, err = s.repo.Update(ctx, tx, candidate)
		if err != nil {
			return err
		}
		if updated == nil {
			return errors.NewAppError(errors.ErrConcurrentModification, "Schedule was modified concurrently, retry with fresh state", nil)
		}
		return nil
	})
	if txErr != nil {
		if ae, ok := txErr.(*errors.AppError); ok {
			return nil, ae
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to update schedule", txErr)
	}

	return dto.ToScheduleResponse(updated), nil
}

// DeleteSchedule removes a block unless the parent event is terminal.
func (s *ScheduleService) DeleteSchedule(ctx context.Context, actor coreEntity.Actor, scheduleID uuid.UUID) *errors.AppError {
	if !actor.IsSchedulingAuthority() {
		return errors.NewAppError(errors.ErrPermissionDenied, "Only a scheduling authority may delete schedules", nil)
	}

	current, err := s.repo.GetByID(ctx, scheduleID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to get schedule", err)
	}
	if current == nil {
		return errors.NewAppError(errors.ErrNotFound, "Schedule not found", nil)
	}

	if _, appErr := s.loadWritableEvent(ctx, current.EventID); appErr != nil {
		return appErr
	}

	if err := s.repo.Delete(ctx, scheduleID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete schedule", err)
	}
	return nil
}

// ListSchedules returns an event's schedules grouped by day for display.
func (s *ScheduleService) ListSchedules(ctx context.Context, eventID uuid.UUID) ([]dto.DayScheduleResponse, *errors.AppError) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	schedules, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list schedules", err)
	}

	return dto.ToDayScheduleResponses(entity.GroupByDate(schedules)), nil
}

// ListConflicts runs the conflict check without writing, so a caller can
// warn before submitting.
func (s *ScheduleService) ListConflicts(ctx context.Context, eventID uuid.UUID, req *dto.CreateScheduleRequest) (*dto.ConflictListResponse, *errors.AppError) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	candidate, appErr := s.buildCandidate(event, req.Date, req.StartTime, req.EndTime, req.Title, req.Audience, req.Mandatory, req.Capacity)
	if appErr != nil {
		return nil, appErr
	}

	existing, err := s.repo.ListByEventAndDate(ctx, nil, eventID, candidate.Date)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list schedules", err)
	}

	return &dto.ConflictListResponse{Conflicts: dto.ToScheduleResponses(FindConflicts(candidate, existing))}, nil
}

// ReorderSchedules rewrites the display order of one day's blocks in a
// single atomic update. The ordered set must be exactly the day's blocks.
func (s *ScheduleService) ReorderSchedules(ctx context.Context, actor coreEntity.Actor, eventID uuid.UUID, req *dto.ReorderSchedulesRequest) ([]dto.ScheduleResponse, *errors.AppError) {
	if !actor.IsSchedulingAuthority() {
		return nil, errors.NewAppError(errors.ErrPermissionDenied, "Only a scheduling authority may reorder schedules", nil)
	}

	if _, appErr := s.loadWritableEvent(ctx, eventID); appErr != nil {
		return nil, appErr
	}

	day, err := timerange.ParseDate(req.Date)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid date format, want YYYY-MM-DD", err)
	}

	orderedIDs := make([]uuid.UUID, 0, len(req.OrderedIDs))
	for _, raw := range req.OrderedIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid schedule ID in ordering", err)
		}
		orderedIDs = append(orderedIDs, id)
	}

	var reordered []entity.DailySchedule
	txErr := s.tx.WithinTransaction(ctx, func(tx database.Queryer) error {
		if err := s.events.LockEvent(ctx, tx, eventID); err != nil {
			return err
		}

		existing, err := s.repo.ListByEventAndDate(ctx, tx, eventID, day)
		if err != nil {
			return err
		}

		if len(existing) != len(orderedIDs) {
			return errors.NewAppError(errors.ErrInvalidInput, "Ordering must cover every schedule of the day exactly once", nil)
		}
		known := make(map[uuid.UUID]bool, len(existing))
		for _, s := range existing {
			known[s.ID] = true
		}
		for _, id := range orderedIDs {
			if !known[id] {
				return errors.NewAppError(errors.ErrInvalidInput, "Schedule "+id.String()+" does not belong to this day", nil)
			}
			delete(known, id)
		}

		if err := s.repo.UpdatePositions(ctx, tx, eventID, day, orderedIDs); err != nil {
			return err
		}

		reordered, err = s.repo.ListByEventAndDate(ctx, tx, eventID, day)
		return err
	})
	if txErr != nil {
		if ae, ok := txErr.(*errors.AppError); ok {
			return nil, ae
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to reorder schedules", txErr)
	}

	logger.Info("ScheduleService:ReorderSchedules", "event_id", eventID.String(), "date", req.Date, "count", len(orderedIDs))
	return dto.ToScheduleResponses(reordered), nil
}
