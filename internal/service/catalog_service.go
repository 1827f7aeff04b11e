package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/syllabus-api/internal/models"
	appErrors "github.com/noah-isme/syllabus-api/pkg/errors"
)

type catalogRepository interface {
	ListPrograms(ctx context.Context, search string) ([]models.Program, error)
	ListDisciplines(ctx context.Context, filter models.CatalogFilter) ([]models.Discipline, error)
	CreateDiscipline(ctx context.Context, discipline *models.Discipline) error
}

type catalogCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// CreateDisciplineRequest captures fields for the manual discipline endpoint.
// Anything created here is discarded by the next catalog import.
type CreateDisciplineRequest struct {
	Name      string `json:"name" validate:"required"`
	ProgramID string `json:"program_id"`
}

// CatalogService serves the read-mostly program/discipline catalog.
type CatalogService struct {
	repo      catalogRepository
	cache     catalogCache
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	cacheTTL  time.Duration
}

// NewCatalogService creates a new catalog service. Cache and metrics may be nil.
func NewCatalogService(repo catalogRepository, cache catalogCache, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService, cacheTTL time.Duration) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &CatalogService{repo: repo, cache: cache, validator: validate, logger: logger, metrics: metrics, cacheTTL: cacheTTL}
}

// ListPrograms returns programs, optionally filtered by name substring.
func (s *CatalogService) ListPrograms(ctx context.Context, search string) ([]models.Program, error) {
	key := "catalog:programs:" + search
	var cached []models.Program
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	programs, err := s.repo.ListPrograms(ctx, search)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list programs")
	}
	s.cacheSet(ctx, key, programs)
	return programs, nil
}

// ListDisciplines returns disciplines filtered by substring and/or program.
func (s *CatalogService) ListDisciplines(ctx context.Context, filter models.CatalogFilter) ([]models.Discipline, error) {
	key := "catalog:disciplines:" + filter.Search + ":" + filter.ProgramID
	var cached []models.Discipline
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	disciplines, err := s.repo.ListDisciplines(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list disciplines")
	}
	s.cacheSet(ctx, key, disciplines)
	return disciplines, nil
}

// CreateDiscipline adds a discipline outside the import flow.
func (s *CatalogService) CreateDiscipline(ctx context.Context, req CreateDisciplineRequest) (*models.Discipline, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "discipline name is required")
	}

	discipline := &models.Discipline{Name: req.Name}
	if req.ProgramID != "" {
		discipline.ProgramID = &req.ProgramID
	}
	if err := s.repo.CreateDiscipline(ctx, discipline); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create discipline")
	}
	return discipline, nil
}

func (s *CatalogService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	err := s.cache.Get(ctx, key, dest)
	hit := err == nil
	if s.metrics != nil {
		s.metrics.ObserveCacheLookup(hit)
	}
	if err != nil && err != appErrors.ErrCacheMiss {
		s.logger.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
	}
	return hit
}

func (s *CatalogService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.logger.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
}
