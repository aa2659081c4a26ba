package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"stagecrew-api/core/database"
	"stagecrew-api/core/logger"
	"stagecrew-api/modules/assignment/entity"
)

// AssignmentRepository handles assignment database operations
type AssignmentRepository struct {
	DB database.Database
}

// NewAssignmentRepository creates a new repository instance
func NewAssignmentRepository(db database.Database) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

// AssignmentRepositoryInterface defines the repository contract. Methods
// taking a database.Queryer participate in a caller-owned transaction.
type AssignmentRepositoryInterface interface {
	Create(ctx context.Context, assignment *entity.Assignment) (*entity.Assignment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Assignment, error)
	GetByEventAndWorker(ctx context.Context, eventID, workerID uuid.UUID) (*entity.Assignment, error)
	ListByEvent(ctx context.Context, q database.Queryer, eventID uuid.UUID) ([]entity.Assignment, error)
	ListByWorker(ctx context.Context, workerID uuid.UUID) ([]entity.Assignment, error)
	UpdateStatus(ctx context.Context, q database.Queryer, assignment *entity.Assignment) (*entity.Assignment, error)
}

const assignmentColumns = `id, event_id, worker_id, status, role_label, responded_at, version, created_at, updated_at`

func (r *AssignmentRepository) Create(ctx context.Context, assignment *entity.Assignment) (*entity.Assignment, error) {
	query := `
		INSERT INTO assignments (event_id, worker_id, status, role_label)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + assignmentColumns

	var created entity.Assignment
	err := r.DB.GetContext(ctx, &created, query,
		assignment.EventID, assignment.WorkerID, assignment.Status, assignment.RoleLabel)
	if err != nil {
		logger.Error("AssignmentRepository:Create", err)
		return nil, err
	}

	return &created, nil
}

func (r *AssignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE id = $1`

	var assignment entity.Assignment
	err := r.DB.GetContext(ctx, &assignment, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AssignmentRepository:GetByID", err)
		return nil, err
	}

	return &assignment, nil
}

func (r *AssignmentRepository) GetByEventAndWorker(ctx context.Context, eventID, workerID uuid.UUID) (*entity.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE event_id = $1 AND worker_id = $2`

	var assignment entity.Assignment
	err := r.DB.GetContext(ctx, &assignment, query, eventID, workerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AssignmentRepository:GetByEventAndWorker", err)
		return nil, err
	}

	return &assignment, nil
}

func (r *AssignmentRepository) ListByEvent(ctx context.Context, q database.Queryer, eventID uuid.UUID) ([]entity.Assignment, error) {
	if q == nil {
		q = r.DB
	}

	query := `
		SELECT ` + assignmentColumns + `
		FROM assignments
		WHERE event_id = $1
		ORDER BY created_at ASC
	`

	var assignments []entity.Assignment
	if err := q.SelectContext(ctx, &assignments, query, eventID); err != nil {
		logger.Error("AssignmentRepository:ListByEvent", err)
		return nil, err
	}
	return assignments, nil
}

func (r *AssignmentRepository) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]entity.Assignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM assignments
		WHERE worker_id = $1
		ORDER BY created_at DESC
	`

	var assignments []entity.Assignment
	if err := r.DB.SelectContext(ctx, &assignments, query, workerID); err != nil {
		logger.Error("AssignmentRepository:ListByWorker", err)
		return nil, err
	}
	return assignments, nil
}

// UpdateStatus persists a workflow transition with an optimistic version
// check. A nil result with nil error means the row version moved underneath
// the caller.
func (r *AssignmentRepository) UpdateStatus(ctx context.Context, q database.Queryer, assignment *entity.Assignment) (*entity.Assignment, error) {
	if q == nil {
		q = r.DB
	}

	query := `
		UPDATE assignments
		SET status = $2, responded_at = $3, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $4
		RETURNING ` + assignmentColumns

	var updated entity.Assignment
	err := q.GetContext(ctx, &updated, query, assignment.ID, assignment.Status, assignment.RespondedAt, assignment.Version)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AssignmentRepository:UpdateStatus", err)
		return nil, err
	}

	return &updated, nil
}
