package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/syllabus-api/internal/models"
)

// RequestRepository provides database access for syllabus requests.
type RequestRepository struct {
	db *sqlx.DB
}

// NewRequestRepository creates a new instance of RequestRepository.
func NewRequestRepository(db *sqlx.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// Create inserts a new pending request.
func (r *RequestRepository) Create(ctx context.Context, request *models.SyllabusRequest) error {
	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	if request.Status == "" {
		request.Status = models.RequestPending
	}
	if request.CreatedAt.IsZero() {
		request.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO syllabus_requests (id, professor_name, professor_email, course, discipline, semester, section, status, assigned_user_id, created_at) VALUES (:id, :professor_name, :professor_email, :course, :discipline, :semester, :section, :status, :assigned_user_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, request); err != nil {
		return fmt.Errorf("create syllabus request: %w", err)
	}
	return nil
}

// ListPendingByName returns pending requests whose professor name matches
// exactly. The name is the routing key; no normalisation is applied.
func (r *RequestRepository) ListPendingByName(ctx context.Context, professorName string) ([]models.SyllabusRequest, error) {
	const query = `SELECT id, professor_name, professor_email, course, discipline, semester, section, status, assigned_user_id, created_at FROM syllabus_requests WHERE status = $1 AND professor_name = $2 ORDER BY created_at DESC`
	requests := []models.SyllabusRequest{}
	if err := r.db.SelectContext(ctx, &requests, query, models.RequestPending, professorName); err != nil {
		return nil, fmt.Errorf("list pending requests: %w", err)
	}
	return requests, nil
}

// Accept marks a request accepted and records the accepting user. The update
// is unconditional on status: accepting an already-accepted request simply
// overwrites the assignee.
func (r *RequestRepository) Accept(ctx context.Context, id, userID string) (int64, error) {
	const query = `UPDATE syllabus_requests SET status = $1, assigned_user_id = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, models.RequestAccepted, userID, id)
	if err != nil {
		return 0, fmt.Errorf("accept syllabus request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("accept request rows affected: %w", err)
	}
	return affected, nil
}
