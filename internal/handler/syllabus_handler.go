package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/syllabus-api/internal/models"
	"github.com/noah-isme/syllabus-api/internal/service"
	appErrors "github.com/noah-isme/syllabus-api/pkg/errors"
	"github.com/noah-isme/syllabus-api/pkg/response"
)

type syllabusService interface {
	Create(ctx context.Context, ownerID string, payload service.SyllabusPayload) (*models.Syllabus, error)
	List(ctx context.Context, filter models.SyllabusFilter) ([]models.Syllabus, error)
	Get(ctx context.Context, id string) (*models.Syllabus, error)
	Update(ctx context.Context, id, ownerID string, payload service.SyllabusPayload) (*models.Syllabus, error)
	Delete(ctx context.Context, id, ownerID string) error
	ClaimOrphans(ctx context.Context, userID string) (int64, error)
}

// SyllabusHandler wires HTTP endpoints to the syllabus service.
type SyllabusHandler struct {
	service syllabusService
}

// NewSyllabusHandler constructs a syllabus handler.
func NewSyllabusHandler(svc syllabusService) *SyllabusHandler {
	return &SyllabusHandler{service: svc}
}

func syllabusFilterFromQuery(c *gin.Context) models.SyllabusFilter {
	return models.SyllabusFilter{
		Program:    strings.TrimSpace(c.Query("program")),
		Discipline: strings.TrimSpace(c.Query("discipline")),
	}
}

// List godoc
// @Summary List syllabi
// @Tags Syllabi
// @Produce json
// @Security BearerAuth
// @Param program query string false "Course substring"
// @Param discipline query string false "Discipline substring"
// @Success 200 {object} response.Envelope
// @Router /syllabi [get]
func (h *SyllabusHandler) List(c *gin.Context) {
	syllabi, err := h.service.List(c.Request.Context(), syllabusFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, syllabi)
}

// Get godoc
// @Summary Get syllabus by id
// @Tags Syllabi
// @Produce json
// @Security BearerAuth
// @Param id path string true "Syllabus ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /syllabi/{id} [get]
func (h *SyllabusHandler) Get(c *gin.Context) {
	syllabus, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, syllabus)
}

// Create godoc
// @Summary Create syllabus
// @Tags Syllabi
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.SyllabusPayload true "Syllabus payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /syllabi [post]
func (h *SyllabusHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var payload service.SyllabusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid syllabus payload"))
		return
	}

	syllabus, err := h.service.Create(c.Request.Context(), claims.UserID, payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, syllabus)
}

// Update godoc
// @Summary Update syllabus
// @Description Full overwrite of descriptive fields; owner only
// @Tags Syllabi
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Syllabus ID"
// @Param payload body service.SyllabusPayload true "Syllabus payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /syllabi/{id} [put]
func (h *SyllabusHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var payload service.SyllabusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid syllabus payload"))
		return
	}

	syllabus, err := h.service.Update(c.Request.Context(), c.Param("id"), claims.UserID, payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, syllabus)
}

// Delete godoc
// @Summary Delete syllabus
// @Tags Syllabi
// @Security BearerAuth
// @Param id path string true "Syllabus ID"
// @Success 204 "No Content"
// @Failure 403 {object} response.Envelope
// @Router /syllabi/{id} [delete]
func (h *SyllabusHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ClaimOrphans godoc
// @Summary Claim orphan syllabi
// @Description Reassigns syllabi with missing owners to the caller
// @Tags Syllabi
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /syllabi/claim-orphans [post]
func (h *SyllabusHandler) ClaimOrphans(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	count, err := h.service.ClaimOrphans(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"reassigned": count})
}
