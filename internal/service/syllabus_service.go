package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/syllabus-api/internal/models"
	appErrors "github.com/noah-isme/syllabus-api/pkg/errors"
)

type syllabusRepository interface {
	Create(ctx context.Context, syllabus *models.Syllabus) error
	List(ctx context.Context, filter models.SyllabusFilter) ([]models.Syllabus, error)
	FindByID(ctx context.Context, id string) (*models.Syllabus, error)
	Update(ctx context.Context, syllabus *models.Syllabus) (int64, error)
	Delete(ctx context.Context, id, ownerID string) (int64, error)
	ReassignOrphans(ctx context.Context, targetUserID string) (int64, error)
}

// SyllabusPayload carries the descriptive fields for create and update. Only
// the identifying trio is required; every other field may stay empty.
type SyllabusPayload struct {
	Course       string `json:"course" validate:"required"`
	Discipline   string `json:"discipline" validate:"required"`
	Semester     string `json:"semester" validate:"required"`
	Section      string `json:"section"`
	Department   string `json:"department"`
	Credits      string `json:"credits"`
	Language     string `json:"language"`
	Coordinator  string `json:"coordinator"`
	Professors   string `json:"professors"`
	Content      string `json:"content"`
	Methodology  string `json:"methodology"`
	Evaluation   string `json:"evaluation"`
	LessonPlan   string `json:"lesson_plan"`
	Ethics       string `json:"ethics"`
	ProfessorBio string `json:"professor_bio"`
	Bibliography string `json:"references"`
	Competencies string `json:"competencies"`
}

func (p SyllabusPayload) fields() models.SyllabusFields {
	return models.SyllabusFields{
		Course:       p.Course,
		Discipline:   p.Discipline,
		Semester:     p.Semester,
		Section:      p.Section,
		Department:   p.Department,
		Credits:      p.Credits,
		Language:     p.Language,
		Coordinator:  p.Coordinator,
		Professors:   p.Professors,
		Content:      p.Content,
		Methodology:  p.Methodology,
		Evaluation:   p.Evaluation,
		LessonPlan:   p.LessonPlan,
		Ethics:       p.Ethics,
		ProfessorBio: p.ProfessorBio,
		Bibliography: p.Bibliography,
		Competencies: p.Competencies,
	}
}

// SyllabusService handles course-plan workflows.
type SyllabusService struct {
	repo      syllabusRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSyllabusService creates a new syllabus service.
func NewSyllabusService(repo syllabusRepository, validate *validator.Validate, logger *zap.Logger) *SyllabusService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyllabusService{repo: repo, validator: validate, logger: logger}
}

// Create inserts a syllabus owned by the caller.
func (s *SyllabusService) Create(ctx context.Context, ownerID string, payload SyllabusPayload) (*models.Syllabus, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "course, discipline and semester are required")
	}

	syllabus := &models.Syllabus{
		OwnerID:        ownerID,
		SyllabusFields: payload.fields(),
	}
	if err := s.repo.Create(ctx, syllabus); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create syllabus")
	}
	return syllabus, nil
}

// List returns syllabi newest first with optional substring filters.
func (s *SyllabusService) List(ctx context.Context, filter models.SyllabusFilter) ([]models.Syllabus, error) {
	syllabi, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list syllabi")
	}
	return syllabi, nil
}

// Get returns one syllabus by id.
func (s *SyllabusService) Get(ctx context.Context, id string) (*models.Syllabus, error) {
	syllabus, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "syllabus not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load syllabus")
	}
	return syllabus, nil
}

// Update overwrites all descriptive fields of the caller's syllabus. Whether
// the record is missing or owned by someone else is deliberately not
// distinguished: both come back forbidden.
func (s *SyllabusService) Update(ctx context.Context, id, ownerID string, payload SyllabusPayload) (*models.Syllabus, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "course, discipline and semester are required")
	}

	syllabus := &models.Syllabus{
		ID:             id,
		OwnerID:        ownerID,
		SyllabusFields: payload.fields(),
	}
	affected, err := s.repo.Update(ctx, syllabus)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update syllabus")
	}
	if affected == 0 {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "syllabus does not exist or is not yours")
	}
	return syllabus, nil
}

// Delete removes the caller's syllabus under the same ownership guard.
func (s *SyllabusService) Delete(ctx context.Context, id, ownerID string) error {
	affected, err := s.repo.Delete(ctx, id, ownerID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete syllabus")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrForbidden, "syllabus does not exist or is not yours")
	}
	return nil
}

// ClaimOrphans reassigns every ownerless or dangling syllabus to the caller
// and reports how many records changed.
func (s *SyllabusService) ClaimOrphans(ctx context.Context, userID string) (int64, error) {
	count, err := s.repo.ReassignOrphans(ctx, userID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reassign orphan syllabi")
	}
	if count > 0 {
		s.logger.Info("orphan syllabi reassigned", zap.Int64("count", count), zap.String("user_id", userID))
	}
	return count, nil
}
