package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"stagecrew-api/core/database"
	"stagecrew-api/core/logger"
	"stagecrew-api/modules/schedule/entity"
)

// ScheduleRepository handles daily schedule database operations
type ScheduleRepository struct {
	DB database.Database
}

// NewScheduleRepository creates a new repository instance
func NewScheduleRepository(db database.Database) *ScheduleRepository {
	return &ScheduleRepository{DB: db}
}

// ScheduleRepositoryInterface defines the repository contract. Methods
// taking a database.Queryer participate in a caller-owned transaction.
type ScheduleRepositoryInterface interface {
	Create(ctx context.Context, q database.Queryer, schedule *entity.DailySchedule) (*entity.DailySchedule, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.DailySchedule, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.DailySchedule, error)
	ListByEventAndDate(ctx context.Context, q database.Queryer, eventID uuid.UUID, date time.Time) ([]entity.DailySchedule, error)
	Update(ctx context.Context, q database.Queryer, schedule *entity.DailySchedule) (*entity.DailySchedule, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdatePositions(ctx context.Context, q database.Queryer, eventID uuid.UUID, date time.Time, orderedIDs []uuid.UUID) error
}

const scheduleColumns = `id, event_id, date, start_at, end_at, title, audience, mandatory, capacity, position, version, created_at, updated_at`

func (r *ScheduleRepository) Create(ctx context.Context, q database.Queryer, schedule *entity.DailySchedule) (*entity.DailySchedule, error) {
	if q == nil {
		q = r.DB
	}

	query := `
		INSERT INTO daily_schedules (event_id, date, start_at, end_at, title, audience, mandatory, capacity, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
			COALESCE((SELECT MAX(position) + 1 FROM daily_schedules WHERE event_id = $1 AND date = $2), 0))
		RETURNING ` + scheduleColumns

	var created entity.DailySchedule
	err := q.GetContext(ctx, &created, query,
		schedule.EventID, schedule.Date, schedule.StartAt, schedule.EndAt,
		schedule.Title, schedule.Audience, schedule.Mandatory, schedule.Capacity)
	if err != nil {
		logger.Error("ScheduleRepository:Create", err)
		return nil, err
	}

	return &created, nil
}

func (r *ScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.DailySchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM daily_schedules WHERE id = $1`

	var schedule entity.DailySchedule
	err := r.DB.GetContext(ctx, &schedule, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ScheduleRepository:GetByID", err)
		return nil, err
	}

	return &schedule, nil
}

func (r *ScheduleRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.DailySchedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM daily_schedules
		WHERE event_id = $1
		ORDER BY date ASC, start_at ASC, position ASC
	`

	var schedules []entity.DailySchedule
	if err := r.DB.SelectContext(ctx, &schedules, query, eventID); err != nil {
		logger.Error("ScheduleRepository:ListByEvent", err)
		return nil, err
	}
	return schedules, nil
}

// ListByEventAndDate returns only the schedules conflict detection has to
// consider, so the check scales with the day, not the whole event.
func (r *ScheduleRepository) ListByEventAndDate(ctx context.Context, q database.Queryer, eventID uuid.UUID, date time.Time) ([]entity.DailySchedule, error) {
	if q == nil {
		q = r.DB
	}

	query := `
		SELECT ` + scheduleColumns + `
		FROM daily_schedules
		WHERE event_id = $1 AND date = $2
		ORDER BY start_at ASC, position ASC
	`

	var schedules []entity.DailySchedule
	if err := q.SelectContext(ctx, &schedules, query, eventID, date); err != nil {
		logger.Error("ScheduleRepository:ListByEventAndDate", err)
		return nil, err
	}
	return schedules, nil
}

// Update persists an edit with an optimistic version check. A nil result
// with nil error means the row version moved underneath the caller.
func (r *ScheduleRepository) Update(ctx context.Context, q database.Queryer, schedule *entity.DailySchedule) (*entity.DailySchedule, error) {
	if q == nil {
		q = r.DB
	}

	query := `
		UPDATE daily_schedules
		SET date = $2, start_at = $3, end_at = $4, title = $5, audience = $6,
		    mandatory = $7, capacity = $8, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $9
		RETURNING ` + scheduleColumns

	var updated entity.DailySchedule
	err := q.GetContext(ctx, &updated, query,
		schedule.ID, schedule.Date, schedule.StartAt, schedule.EndAt, schedule.Title,
		schedule.Audience, schedule.Mandatory, schedule.Capacity, schedule.Version)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ScheduleRepository:Update", err)
		return nil, err
	}

	return &updated, nil
}

func (r *ScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM daily_schedules WHERE id = $1`
	if _, err := r.DB.ExecContext(ctx, query, id); err != nil {
		logger.Error("ScheduleRepository:Delete", err)
		return err
	}
	return nil
}

// UpdatePositions rewrites the display order of one day's schedules in a
// single statement.
func (r *ScheduleRepository) UpdatePositions(ctx context.Context, q database.Queryer, eventID uuid.UUID, date time.Time, orderedIDs []uuid.UUID) error {
	if q == nil {
		q = r.DB
	}

	query := `
		UPDATE daily_schedules AS s
		SET position = o.ord - 1, updated_at = NOW()
		FROM UNNEST($3::uuid[]) WITH ORDINALITY AS o(id, ord)
		WHERE s.id = o.id AND s.event_id = $1 AND s.date = $2
	`

	ids := make([]string, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		ids = append(ids, id.String())
	}

	if _, err := q.ExecContext(ctx, query, eventID, date, pq.Array(ids)); err != nil {
		logger.Error("ScheduleRepository:UpdatePositions", err)
		return err
	}
	return nil
}
