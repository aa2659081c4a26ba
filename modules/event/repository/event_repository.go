package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"stagecrew-api/core/database"
	coreEntity "stagecrew-api/core/entity"
	"stagecrew-api/core/logger"
	"stagecrew-api/core/params"
	"stagecrew-api/modules/event/entity"
)

// EventRepository handles event database operations
type EventRepository struct {
	DB database.Database
}

// NewEventRepository creates a new repository instance
func NewEventRepository(db database.Database) *EventRepository {
	return &EventRepository{DB: db}
}

// EventRepositoryInterface defines the repository contract. Methods taking a
// database.Queryer participate in a caller-owned transaction.
type EventRepositoryInterface interface {
	Create(ctx context.Context, event *entity.Event) (*entity.Event, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	List(ctx context.Context, qp params.QueryParams) (*coreEntity.Pagination[entity.Event], error)
	UpdateStatus(ctx context.Context, q database.Queryer, event *entity.Event) (*entity.Event, error)
	Delete(ctx context.Context, id uuid.UUID) error

	LockEvent(ctx context.Context, q database.Queryer, id uuid.UUID) error
	AppendHistory(ctx context.Context, q database.Queryer, h *entity.EventHistory) error
	ListHistory(ctx context.Context, eventID uuid.UUID) ([]entity.EventHistory, error)
}

const eventColumns = `id, title, slug, start_at, end_at, audience, status, published_at, version, created_at, updated_at`

func (r *EventRepository) Create(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	query := `
		INSERT INTO events (title, slug, start_at, end_at, audience, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + eventColumns

	var created entity.Event
	err := r.DB.GetContext(ctx, &created, query,
		event.Title, event.Slug, event.StartAt, event.EndAt, event.Audience, event.Status)
	if err != nil {
		logger.Error("EventRepository:Create", err)
		return nil, err
	}

	return &created, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	var event entity.Event
	err := r.DB.GetContext(ctx, &event, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetByID", err)
		return nil, err
	}

	return &event, nil
}

func (r *EventRepository) List(ctx context.Context, qp params.QueryParams) (*coreEntity.Pagination[entity.Event], error) {
	var total int
	if err := r.DB.GetContext(ctx, &total, `SELECT COUNT(*) FROM events`); err != nil {
		logger.Error("EventRepository:List:Count", err)
		return nil, err
	}

	query := `
		SELECT ` + eventColumns + `
		FROM events
		ORDER BY start_at ASC
		LIMIT $1 OFFSET $2
	`

	var events []entity.Event
	if err := r.DB.SelectContext(ctx, &events, query, qp.PageSize, qp.Offset()); err != nil {
		logger.Error("EventRepository:List", err)
		return nil, err
	}

	return &coreEntity.Pagination[entity.Event]{
		Items:      events,
		TotalItems: total,
		PageNumber: qp.Page,
		PageSize:   qp.PageSize,
	}, nil
}

// UpdateStatus persists a status change with an optimistic version check.
// A nil result with nil error means the row version moved underneath the
// caller.
func (r *EventRepository) UpdateStatus(ctx context.Context, q database.Queryer, event *entity.Event) (*entity.Event, error) {
	if q == nil {
		q = r.DB
	}

	query := `
		UPDATE events
		SET status = $2, published_at = $3, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $4
		RETURNING ` + eventColumns

	var updated entity.Event
	err := q.GetContext(ctx, &updated, query, event.ID, event.Status, event.PublishedAt, event.Version)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:UpdateStatus", err)
		return nil, err
	}

	return &updated, nil
}

func (r *EventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM events WHERE id = $1`
	if _, err := r.DB.ExecContext(ctx, query, id); err != nil {
		logger.Error("EventRepository:Delete", err)
		return err
	}
	return nil
}

// LockEvent takes a row lock on the event for the duration of the
// transaction, serializing writers per event.
func (r *EventRepository) LockEvent(ctx context.Context, q database.Queryer, id uuid.UUID) error {
	if q == nil {
		q = r.DB
	}

	var locked uuid.UUID
	err := q.GetContext(ctx, &locked, `SELECT id FROM events WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return sql.ErrNoRows
		}
		logger.Error("EventRepository:LockEvent", err)
		return err
	}
	return nil
}

func (r *EventRepository) AppendHistory(ctx context.Context, q database.Queryer, h *entity.EventHistory) error {
	if q == nil {
		q = r.DB
	}

	query := `
		INSERT INTO event_history (id, event_id, action, actor)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := q.ExecContext(ctx, query, h.ID, h.EventID, h.Action, h.Actor); err != nil {
		logger.Error("EventRepository:AppendHistory", err)
		return err
	}
	return nil
}

func (r *EventRepository) ListHistory(ctx context.Context, eventID uuid.UUID) ([]entity.EventHistory, error) {
	query := `
		SELECT id, event_id, action, actor, created_at
		FROM event_history
		WHERE event_id = $1
		ORDER BY created_at ASC
	`

	var entries []entity.EventHistory
	if err := r.DB.SelectContext(ctx, &entries, query, eventID); err != nil {
		logger.Error("EventRepository:ListHistory", err)
		return nil, err
	}
	return entries, nil
}
