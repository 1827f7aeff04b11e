package handler

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/syllabus-api/internal/models"
	"github.com/noah-isme/syllabus-api/internal/service"
	appErrors "github.com/noah-isme/syllabus-api/pkg/errors"
	"github.com/noah-isme/syllabus-api/pkg/response"
)

// ExportHandler serves syllabus export artifacts and signed downloads.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler constructs an export handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// ExportPDF godoc
// @Summary Export one syllabus as PDF
// @Tags Exports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Syllabus ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /syllabi/{id}/export/pdf [get]
func (h *ExportHandler) ExportPDF(c *gin.Context) {
	result, err := h.service.ExportPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// ExportCSV godoc
// @Summary Export the syllabus list as CSV
// @Tags Exports
// @Produce json
// @Security BearerAuth
// @Param program query string false "Course substring"
// @Param discipline query string false "Discipline substring"
// @Success 200 {object} response.Envelope
// @Router /syllabi/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	filter := models.SyllabusFilter{
		Program:    strings.TrimSpace(c.Query("program")),
		Discipline: strings.TrimSpace(c.Query("discipline")),
	}
	result, err := h.service.ExportCSV(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Download godoc
// @Summary Download an export artifact
// @Description Streams the file referenced by a signed token
// @Tags Exports
// @Param token query string true "Signed download token"
// @Success 200 "File stream"
// @Failure 401 {object} response.Envelope
// @Router /downloads [get]
func (h *ExportHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing download token"))
		return
	}

	file, err := h.service.Open(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	name := filepath.Base(file.Name())
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	switch filepath.Ext(name) {
	case ".pdf":
		c.Header("Content-Type", "application/pdf")
	case ".csv":
		c.Header("Content-Type", "text/csv")
	default:
		c.Header("Content-Type", "application/octet-stream")
	}
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, file)
}
