package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"stagecrew-api/core/database"
	coreEntity "stagecrew-api/core/entity"
	"stagecrew-api/core/errors"
	"stagecrew-api/core/logger"
	"stagecrew-api/core/params"
	"stagecrew-api/core/timerange"
	"stagecrew-api/core/utils"
	"stagecrew-api/modules/event/dto"
	"stagecrew-api/modules/event/entity"
	"stagecrew-api/modules/event/repository"
)

// TxRunner runs a function inside a single database transaction.
type TxRunner interface {
	WithinTransaction(ctx context.Context, fn func(tx database.Queryer) error) error
}

// Notifier is the boundary to the notification collaborator. Delivery is
// handled elsewhere; the lifecycle manager only announces.
type Notifier interface {
	NotifyEventPublished(ctx context.Context, event *entity.Event)
}

// EventService owns the event lifecycle state machine
type EventService struct {
	repo  repository.EventRepositoryInterface
	tx    TxRunner
	notif Notifier
}

// EventServiceInterface defines the service contract
type EventServiceInterface interface {
	CreateEvent(ctx context.Context, actor coreEntity.Actor, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError)
	GetEvent(ctx context.Context, id uuid.UUID) (*dto.EventResponse, *errors.AppError)
	ListEvents(ctx context.Context, qp params.QueryParams) (*dto.PaginatedEventResponse, *errors.AppError)
	TransitionEvent(ctx context.Context, actor coreEntity.Actor, eventID uuid.UUID, target string) (*dto.EventResponse, *errors.AppError)
	DeleteEvent(ctx context.Context, actor coreEntity.Actor, eventID uuid.UUID) *errors.AppError
	ListHistory(ctx context.Context, eventID uuid.UUID) ([]dto.HistoryResponse, *errors.AppError)
}

// NewEventService creates a new event service
func NewEventService(repo repository.EventRepositoryInterface, tx TxRunner, notif Notifier) EventServiceInterface {
	return &EventService{repo: repo, tx: tx, notif: notif}
}

// CreateEvent creates a new draft event
func (s *EventService) CreateEvent(ctx context.Context, actor coreEntity.Actor, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError) {
	if !actor.IsSchedulingAuthority() {
		return nil, errors.NewAppError(errors.ErrPermissionDenied, "Only a scheduling authority may create events", nil)
	}

	startAt, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid start_at format", err)
	}
	endAt, err := time.Parse(time.RFC3339, req.EndAt)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid end_at format", err)
	}
	if _, err := timerange.New(startAt, endAt); err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidRange, "Event end must be after start", err)
	}

	audience := entity.Audience(req.Audience)
	if !audience.IsValid() {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Unknown audience", nil)
	}

	event := &entity.Event{
		Title:    req.Title,
		Slug:     slug.Make(req.Title),
		StartAt:  startAt,
		EndAt:    endAt,
		Audience: audience,
		Status:   entity.EventStatusDraft,
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create event", err)
	}

	if err := s.repo.AppendHistory(ctx, nil, &entity.EventHistory{
		ID:      utils.GenerateID(),
		EventID: created.ID,
		Action:  entity.HistoryActionCreated,
		Actor:   actor.ID,
	}); err != nil {
		logger.Error("EventService:CreateEvent:AppendHistory", err, "event_id", created.ID.String())
	}

	return dto.ToEventResponse(created), nil
}

// GetEvent retrieves an event by ID
func (s *EventService) GetEvent(ctx context.Context, id uuid.UUID) (*dto.EventResponse, *errors.AppError) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	return dto.ToEventResponse(event), nil
}

// ListEvents retrieves events ordered by start date
func (s *EventService) ListEvents(ctx context.Context, qp params.QueryParams) (*dto.PaginatedEventResponse, *errors.AppError) {
	page, err := s.repo.List(ctx, qp)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list events", err)
	}

	items := make([]dto.EventResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, *dto.ToEventResponse(&page.Items[i]))
	}

	return &dto.PaginatedEventResponse{
		Items:      items,
		TotalItems: page.TotalItems,
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
	}, nil
}

// historyActionFor maps a lifecycle edge to its audit action.
func historyActionFor(from, to entity.EventStatus) string {
	switch to {
	case entity.EventStatusPublished:
		return entity.HistoryActionPublished
	case entity.EventStatusDraft:
		return entity.HistoryActionUnpublished
	case entity.EventStatusCancelled:
		return entity.HistoryActionCancelled
	case entity.EventStatusCompleted:
		return entity.HistoryActionCompleted
	}
	return string(to)
}

// TransitionEvent moves an event along the lifecycle state machine.
// The first transition into published stamps PublishedAt; later publishes
// keep the original timestamp for audit.
func (s *EventService) TransitionEvent(ctx context.Context, actor coreEntity.Actor, eventID uuid.UUID, target string) (*dto.EventResponse, *errors.AppError) {
	if !actor.IsSchedulingAuthority() {
		return nil, errors.NewAppError(errors.ErrPermissionDenied, "Only a scheduling authority may change event status", nil)
	}

	targetStatus := entity.EventStatus(target)
	if !targetStatus.IsValid() {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Unknown target status", nil)
	}

	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	if event.Status.IsTerminal() {
		return nil, errors.NewAppError(errors.ErrInvalidTransition, "Event is "+string(event.Status)+" and accepts no further transitions", nil)
	}
	if !event.Status.CanTransitionTo(targetStatus) {
		return nil, errors.NewAppError(errors.ErrInvalidTransition, "Cannot transition from "+string(event.Status)+" to "+string(targetStatus), nil)
	}

	firstPublish := targetStatus == entity.EventStatusPublished && event.PublishedAt == nil

	pending := *event
	pending.Status = targetStatus
	if firstPublish {
		now := time.Now()
		pending.PublishedAt = &now
	}

	var updated *entity.Event
	txErr := s.tx.WithinTransaction(ctx, func(tx database.Queryer) error {
		var err error
		updated, err = s.repo.UpdateStatus(ctx, tx, &pending)
		if err != nil {
			return err
		}
		if updated == nil {
			return errors.NewAppError(errors.ErrConcurrentModification, "Event was modified concurrently, retry with fresh state", nil)
		}
		return s.repo.AppendHistory(ctx, tx, &entity.EventHistory{
			ID:      utils.GenerateID(),
			EventID: event.ID,
			Action:  historyActionFor(event.Status, targetStatus),
			Actor:   actor.ID,
		})
	})
	if txErr != nil {
		if ae, ok := txErr.(*errors.AppError); ok {
			return nil, ae
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to transition event", txErr)
	}

	if targetStatus == entity.EventStatusPublished && s.notif != nil {
		s.notif.NotifyEventPublished(ctx, updated)
	}

	return dto.ToEventResponse(updated), nil
}

// DeleteEvent removes an event. Only drafts can be deleted.
func (s *EventService) DeleteEvent(ctx context.Context, actor coreEntity.Actor, eventID uuid.UUID) *errors.AppError {
	if !actor.IsSchedulingAuthority() {
		return errors.NewAppError(errors.ErrPermissionDenied, "Only a scheduling authority may delete events", nil)
	}

	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	if event.Status != entity.EventStatusDraft {
		return errors.NewAppError(errors.ErrInvalidTransition, "Only draft events can be deleted", nil)
	}

	if err := s.repo.Delete(ctx, eventID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to delete event", err)
	}
	return nil
}

// ListHistory returns the append-only audit log for an event
func (s *EventService) ListHistory(ctx context.Context, eventID uuid.UUID) ([]dto.HistoryResponse, *errors.AppError) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	entries, err := s.repo.ListHistory(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list history", err)
	}

	result := make([]dto.HistoryResponse, 0, len(entries))
	for i := range entries {
		result = append(result, *dto.ToHistoryResponse(&entries[i]))
	}
	return result, nil
}
