package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/syllabus-api/internal/models"
)

const syllabusColumns = `s.id, s.owner_id, s.course, s.discipline, s.semester, s.section, s.department, s.credits, s.language, s.coordinator, s.professors, s.content, s.methodology, s.evaluation, s.lesson_plan, s.ethics, s.professor_bio, s.bibliography, s.competencies, s.created_at, COALESCE(u.full_name, '') AS owner_name`

// SyllabusRepository provides database access for course-plan records.
type SyllabusRepository struct {
	db *sqlx.DB
}

// NewSyllabusRepository creates a new instance of SyllabusRepository.
func NewSyllabusRepository(db *sqlx.DB) *SyllabusRepository {
	return &SyllabusRepository{db: db}
}

// Create inserts a new syllabus and fills the generated id.
func (r *SyllabusRepository) Create(ctx context.Context, syllabus *models.Syllabus) error {
	if syllabus.ID == "" {
		syllabus.ID = uuid.NewString()
	}
	if syllabus.CreatedAt.IsZero() {
		syllabus.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO syllabi (id, owner_id, course, discipline, semester, section, department, credits, language, coordinator, professors, content, methodology, evaluation, lesson_plan, ethics, professor_bio, bibliography, competencies, created_at) VALUES (:id, :owner_id, :course, :discipline, :semester, :section, :department, :credits, :language, :coordinator, :professors, :content, :methodology, :evaluation, :lesson_plan, :ethics, :professor_bio, :bibliography, :competencies, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, syllabus); err != nil {
		return fmt.Errorf("create syllabus: %w", err)
	}
	return nil
}

// List returns syllabi joined with the owner display name, newest first.
// Filters are substring matches; their case behaviour follows the store
// collation.
func (r *SyllabusRepository) List(ctx context.Context, filter models.SyllabusFilter) ([]models.Syllabus, error) {
	query := `SELECT ` + syllabusColumns + ` FROM syllabi s LEFT JOIN users u ON u.id = s.owner_id WHERE 1=1`
	var args []interface{}
	if filter.Program != "" {
		args = append(args, "%"+filter.Program+"%")
		query += fmt.Sprintf(" AND s.course LIKE $%d", len(args))
	}
	if filter.Discipline != "" {
		args = append(args, "%"+filter.Discipline+"%")
		query += fmt.Sprintf(" AND s.discipline LIKE $%d", len(args))
	}
	query += ` ORDER BY s.created_at DESC`

	syllabi := []models.Syllabus{}
	if err := r.db.SelectContext(ctx, &syllabi, query, args...); err != nil {
		return nil, fmt.Errorf("list syllabi: %w", err)
	}
	return syllabi, nil
}

// FindByID returns one syllabus with its owner name, passing sql.ErrNoRows through.
func (r *SyllabusRepository) FindByID(ctx context.Context, id string) (*models.Syllabus, error) {
	query := `SELECT ` + syllabusColumns + ` FROM syllabi s LEFT JOIN users u ON u.id = s.owner_id WHERE s.id = $1 LIMIT 1`
	var syllabus models.Syllabus
	if err := r.db.GetContext(ctx, &syllabus, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find syllabus by id: %w", err)
	}
	return &syllabus, nil
}

// Update overwrites every descriptive field of the row matching both id and
// owner. The compound condition is the ownership check; zero affected rows
// means the record is missing or belongs to someone else.
func (r *SyllabusRepository) Update(ctx context.Context, syllabus *models.Syllabus) (int64, error) {
	const query = `UPDATE syllabi SET course = :course, discipline = :discipline, semester = :semester, section = :section, department = :department, credits = :credits, language = :language, coordinator = :coordinator, professors = :professors, content = :content, methodology = :methodology, evaluation = :evaluation, lesson_plan = :lesson_plan, ethics = :ethics, professor_bio = :professor_bio, bibliography = :bibliography, competencies = :competencies WHERE id = :id AND owner_id = :owner_id`
	res, err := r.db.NamedExecContext(ctx, query, syllabus)
	if err != nil {
		return 0, fmt.Errorf("update syllabus: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update syllabus rows affected: %w", err)
	}
	return affected, nil
}

// Delete removes the row matching both id and owner.
func (r *SyllabusRepository) Delete(ctx context.Context, id, ownerID string) (int64, error) {
	const query = `DELETE FROM syllabi WHERE id = $1 AND owner_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return 0, fmt.Errorf("delete syllabus: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete syllabus rows affected: %w", err)
	}
	return affected, nil
}

// ReassignOrphans hands every syllabus with a null or dangling owner to the
// target user and returns how many rows changed. Repair operation for
// referential drift after manual database edits.
func (r *SyllabusRepository) ReassignOrphans(ctx context.Context, targetUserID string) (int64, error) {
	const query = `UPDATE syllabi SET owner_id = $1 WHERE owner_id IS NULL OR owner_id NOT IN (SELECT id FROM users)`
	res, err := r.db.ExecContext(ctx, query, targetUserID)
	if err != nil {
		return 0, fmt.Errorf("reassign orphan syllabi: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reassign orphans rows affected: %w", err)
	}
	return affected, nil
}
