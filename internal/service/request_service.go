package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/syllabus-api/internal/models"
	appErrors "github.com/noah-isme/syllabus-api/pkg/errors"
)

type requestRepository interface {
	Create(ctx context.Context, request *models.SyllabusRequest) error
	ListPendingByName(ctx context.Context, professorName string) ([]models.SyllabusRequest, error)
	Accept(ctx context.Context, id, userID string) (int64, error)
}

// SubmitRequestRequest captures a professor's ask for a syllabus. The caller
// must be authenticated but the request is not linked to their account.
type SubmitRequestRequest struct {
	ProfessorName  string `json:"professor_name" validate:"required"`
	ProfessorEmail string `json:"professor_email" validate:"required,email"`
	Course         string `json:"course" validate:"required"`
	Discipline     string `json:"discipline" validate:"required"`
	Semester       string `json:"semester" validate:"required"`
	Section        string `json:"section"`
}

// RequestService routes syllabus requests to registered users by professor name.
type RequestService struct {
	repo      requestRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRequestService creates a new request service.
func NewRequestService(repo requestRepository, validate *validator.Validate, logger *zap.Logger) *RequestService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequestService{repo: repo, validator: validate, logger: logger}
}

// Submit records a pending request.
func (s *RequestService) Submit(ctx context.Context, req SubmitRequestRequest) (*models.SyllabusRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "professor name, email, course, discipline and semester are required")
	}

	request := &models.SyllabusRequest{
		ProfessorName:  req.ProfessorName,
		ProfessorEmail: req.ProfessorEmail,
		Course:         req.Course,
		Discipline:     req.Discipline,
		Semester:       req.Semester,
		Section:        req.Section,
		Status:         models.RequestPending,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create request")
	}
	return request, nil
}

// ListPending returns pending requests addressed to the caller, matched by
// exact full name. The convention is fragile (no case or accent folding) but
// it is the routing contract requests are submitted under.
func (s *RequestService) ListPending(ctx context.Context, callerFullName string) ([]models.SyllabusRequest, error) {
	requests, err := s.repo.ListPendingByName(ctx, callerFullName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list requests")
	}
	return requests, nil
}

// Accept marks the request accepted by the given user. The transition is
// unconditional: accepting an already-accepted request overwrites the
// assignee rather than failing.
func (s *RequestService) Accept(ctx context.Context, requestID, userID string) error {
	affected, err := s.repo.Accept(ctx, requestID, userID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to accept request")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "request not found")
	}
	s.logger.Info("syllabus request accepted", zap.String("request_id", requestID), zap.String("user_id", userID))
	return nil
}
