package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"stagecrew-api/core/cache"
	"stagecrew-api/core/errors"
	"stagecrew-api/core/logger"
	"stagecrew-api/core/params"
	assignmentEntity "stagecrew-api/modules/assignment/entity"
	eventEntity "stagecrew-api/modules/event/entity"
	"stagecrew-api/modules/notification/entity"
	"stagecrew-api/modules/notification/repository"
	"stagecrew-api/modules/notification/tasks"
)

// NotificationService records in-app notifications and queues their
// out-of-band delivery. The Notify methods are fire and forget: a delivery
// problem is logged, never surfaced to the producing request.
type NotificationService struct {
	repo  repository.NotificationRepositoryInterface
	cache *cache.Cache
	queue *asynq.Client
}

// NotificationServiceInterface defines the service contract
type NotificationServiceInterface interface {
	NotifyEventPublished(ctx context.Context, event *eventEntity.Event)
	NotifyAssignmentProposed(ctx context.Context, assignment *assignmentEntity.Assignment)
	NotifyTeamFinalized(ctx context.Context, eventID uuid.UUID, validated, notRetained []assignmentEntity.Assignment)

	GetMyNotifications(ctx context.Context, recipientID uuid.UUID, qp params.QueryParams) (*entity.PaginatedNotificationEntity, *errors.AppError)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (*int, *errors.AppError)
	MarkAsRead(ctx context.Context, recipientID uuid.UUID, ids []string) *errors.AppError
	MarkAllAsRead(ctx context.Context, recipientID uuid.UUID) *errors.AppError
}

// NewNotificationService creates a new notification service
func NewNotificationService(repo repository.NotificationRepositoryInterface, c *cache.Cache, queue *asynq.Client) NotificationServiceInterface {
	return &NotificationService{repo: repo, cache: c, queue: queue}
}

// record stores the in-app row and queues delivery.
func (s *NotificationService) record(ctx context.Context, n *entity.Notification) {
	if err := s.repo.Create(ctx, n); err != nil {
		logger.Error("NotificationService:record:Create", err)
		return
	}
	s.invalidateUnread(ctx, n.RecipientID)
	s.enqueue(tasks.DeliverPayload{
		RecipientID: n.RecipientID.String(),
		Kind:        n.Kind,
		Title:       n.Title,
		Message:     n.Message,
		Data:        n.Data,
	})
}

func (s *NotificationService) enqueue(payload tasks.DeliverPayload) {
	if s.queue == nil {
		return
	}
	task, err := tasks.NewDeliverTask(payload)
	if err != nil {
		logger.Error("NotificationService:enqueue:NewDeliverTask", err)
		return
	}
	if _, err := s.queue.Enqueue(task); err != nil {
		logger.Error("NotificationService:enqueue:Enqueue", err)
	}
}

func (s *NotificationService) invalidateUnread(ctx context.Context, recipientID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateUnreadCount(ctx, recipientID.String()); err != nil {
		logger.Error("NotificationService:invalidateUnread", err)
	}
}

// NotifyEventPublished announces a freshly published event. No per-worker
// rows exist yet at publish time, so this is a broadcast delivery only.
func (s *NotificationService) NotifyEventPublished(ctx context.Context, event *eventEntity.Event) {
	s.enqueue(tasks.DeliverPayload{
		Kind:    entity.KindEventPublished,
		Title:   "Event published",
		Message: event.Title + " is now open for staffing",
		Data: map[string]interface{}{
			"event_id": event.ID.String(),
			"audience": string(event.Audience),
		},
	})
}

// NotifyAssignmentProposed tells a worker they have been put forward.
func (s *NotificationService) NotifyAssignmentProposed(ctx context.Context, assignment *assignmentEntity.Assignment) {
	s.record(ctx, &entity.Notification{
		RecipientID: assignment.WorkerID,
		Title:       "New staffing proposal",
		Message:     "You have been proposed for an event, please respond with your availability",
		Kind:        entity.KindAssignmentProposed,
		Data: entity.JSONB{
			"event_id":      assignment.EventID.String(),
			"assignment_id": assignment.ID.String(),
		},
	})
}

// NotifyTeamFinalized tells every affected worker where they landed.
func (s *NotificationService) NotifyTeamFinalized(ctx context.Context, eventID uuid.UUID, validated, notRetained []assignmentEntity.Assignment) {
	for i := range validated {
		s.record(ctx, &entity.Notification{
			RecipientID: validated[i].WorkerID,
			Title:       "You are on the team",
			Message:     "Your assignment has been validated",
			Kind:        entity.KindTeamValidated,
			Data: entity.JSONB{
				"event_id":      eventID.String(),
				"assignment_id": validated[i].ID.String(),
			},
		})
	}
	for i := range notRetained {
		s.record(ctx, &entity.Notification{
			RecipientID: notRetained[i].WorkerID,
			Title:       "Team finalized",
			Message:     "You were not retained for this event",
			Kind:        entity.KindTeamNotRetained,
			Data: entity.JSONB{
				"event_id":      eventID.String(),
				"assignment_id": notRetained[i].ID.String(),
			},
		})
	}
}

func (s *NotificationService) GetMyNotifications(ctx context.Context, recipientID uuid.UUID, qp params.QueryParams) (*entity.PaginatedNotificationEntity, *errors.AppError) {
	page, err := s.repo.GetByRecipientID(ctx, recipientID, qp)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to list notifications", err)
	}
	return page, nil
}

// CountUnread serves the badge counter, cached to keep polling cheap.
func (s *NotificationService) CountUnread(ctx context.Context, recipientID uuid.UUID) (*int, *errors.AppError) {
	if s.cache != nil {
		if cached, err := s.cache.GetUnreadCount(ctx, recipientID.String()); err == nil && cached >= 0 {
			return &cached, nil
		}
	}

	count, err := s.repo.CountUnread(ctx, recipientID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to count notifications", err)
	}

	if s.cache != nil {
		if err := s.cache.SetUnreadCount(ctx, recipientID.String(), count); err != nil {
			logger.Error("NotificationService:CountUnread:SetUnreadCount", err)
		}
	}
	return &count, nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, recipientID uuid.UUID, ids []string) *errors.AppError {
	if err := s.repo.MarkAsRead(ctx, recipientID, ids); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to mark notifications as read", err)
	}
	s.invalidateUnread(ctx, recipientID)
	return nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, recipientID uuid.UUID) *errors.AppError {
	if err := s.repo.MarkAllAsRead(ctx, recipientID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to mark notifications as read", err)
	}
	s.invalidateUnread(ctx, recipientID)
	return nil
}
