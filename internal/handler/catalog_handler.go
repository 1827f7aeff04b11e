package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/syllabus-api/internal/models"
	"github.com/noah-isme/syllabus-api/internal/service"
	appErrors "github.com/noah-isme/syllabus-api/pkg/errors"
	"github.com/noah-isme/syllabus-api/pkg/response"
)

// CatalogHandler exposes the program/discipline catalog.
type CatalogHandler struct {
	service *service.CatalogService
}

// NewCatalogHandler constructs a catalog handler.
func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

// ListPrograms godoc
// @Summary List programs
// @Tags Catalog
// @Produce json
// @Param search query string false "Name substring"
// @Success 200 {object} response.Envelope
// @Router /programs [get]
func (h *CatalogHandler) ListPrograms(c *gin.Context) {
	programs, err := h.service.ListPrograms(c.Request.Context(), strings.TrimSpace(c.Query("search")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, programs)
}

// ListDisciplines godoc
// @Summary List disciplines
// @Tags Catalog
// @Produce json
// @Param search query string false "Name substring"
// @Param program_id query string false "Filter by program"
// @Success 200 {object} response.Envelope
// @Router /disciplines [get]
func (h *CatalogHandler) ListDisciplines(c *gin.Context) {
	filter := models.CatalogFilter{
		Search:    strings.TrimSpace(c.Query("search")),
		ProgramID: strings.TrimSpace(c.Query("program_id")),
	}
	disciplines, err := h.service.ListDisciplines(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, disciplines)
}

// CreateDiscipline godoc
// @Summary Create a discipline
// @Description Adds a discipline manually; the next catalog import replaces it
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateDisciplineRequest true "Discipline payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /disciplines [post]
func (h *CatalogHandler) CreateDiscipline(c *gin.Context) {
	var req service.CreateDisciplineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid discipline payload"))
		return
	}

	discipline, err := h.service.CreateDiscipline(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, discipline)
}
