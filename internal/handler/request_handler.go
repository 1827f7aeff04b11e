package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/syllabus-api/internal/models"
	"github.com/noah-isme/syllabus-api/internal/service"
	appErrors "github.com/noah-isme/syllabus-api/pkg/errors"
	"github.com/noah-isme/syllabus-api/pkg/response"
)

type requestService interface {
	Submit(ctx context.Context, req service.SubmitRequestRequest) (*models.SyllabusRequest, error)
	ListPending(ctx context.Context, callerFullName string) ([]models.SyllabusRequest, error)
	Accept(ctx context.Context, requestID, userID string) error
}

// RequestHandler wires HTTP endpoints to the request service.
type RequestHandler struct {
	service requestService
}

// NewRequestHandler constructs a request handler.
func NewRequestHandler(svc requestService) *RequestHandler {
	return &RequestHandler{service: svc}
}

// Submit godoc
// @Summary Submit a syllabus request
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.SubmitRequestRequest true "Request payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /requests [post]
func (h *RequestHandler) Submit(c *gin.Context) {
	var req service.SubmitRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid request payload"))
		return
	}

	request, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, request)
}

// ListPending godoc
// @Summary List pending requests addressed to the caller
// @Description Matches the caller's full name against the professor name
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /requests [get]
func (h *RequestHandler) ListPending(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	requests, err := h.service.ListPending(c.Request.Context(), claims.FullName)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests)
}

// Accept godoc
// @Summary Accept a syllabus request
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 204 "No Content"
// @Failure 404 {object} response.Envelope
// @Router /requests/{id}/accept [post]
func (h *RequestHandler) Accept(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Accept(c.Request.Context(), c.Param("id"), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
