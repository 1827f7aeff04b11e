package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/syllabus-api/internal/models"
	appErrors "github.com/noah-isme/syllabus-api/pkg/errors"
	"github.com/noah-isme/syllabus-api/pkg/export"
	"github.com/noah-isme/syllabus-api/pkg/storage"
)

type exportSyllabusRepository interface {
	FindByID(ctx context.Context, id string) (*models.Syllabus, error)
	List(ctx context.Context, filter models.SyllabusFilter) ([]models.Syllabus, error)
}

// ExportResult points the caller at a stored artifact via a signed URL.
type ExportResult struct {
	Filename    string    `json:"filename"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ExportService renders syllabi into downloadable PDF/CSV artifacts.
type ExportService struct {
	repo   exportSyllabusRepository
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	store  *storage.LocalStorage
	signer *storage.SignedURLSigner
	logger *zap.Logger
}

// NewExportService creates a new export service.
func NewExportService(repo exportSyllabusRepository, store *storage.LocalStorage, signer *storage.SignedURLSigner, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		repo:   repo,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		store:  store,
		signer: signer,
		logger: logger,
	}
}

// ExportPDF renders one syllabus as a course-plan document.
func (s *ExportService) ExportPDF(ctx context.Context, id string) (*ExportResult, error) {
	syllabus, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "syllabus not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load syllabus")
	}

	data, err := s.pdf.Render(buildSyllabusDocument(syllabus))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}

	filename := fmt.Sprintf("syllabi/%s-%d.pdf", syllabus.ID, time.Now().UTC().Unix())
	return s.finish(filename, data)
}

// ExportCSV renders the filtered syllabus list as a spreadsheet.
func (s *ExportService) ExportCSV(ctx context.Context, filter models.SyllabusFilter) (*ExportResult, error) {
	syllabi, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list syllabi")
	}

	headers := []string{"course", "discipline", "semester", "section", "department", "credits", "coordinator", "professors", "owner", "created_at"}
	rows := make([]map[string]string, 0, len(syllabi))
	for _, item := range syllabi {
		rows = append(rows, map[string]string{
			"course":      item.Course,
			"discipline":  item.Discipline,
			"semester":    item.Semester,
			"section":     item.Section,
			"department":  item.Department,
			"credits":     item.Credits,
			"coordinator": item.Coordinator,
			"professors":  item.Professors,
			"owner":       item.OwnerName,
			"created_at":  item.CreatedAt.Format(time.RFC3339),
		})
	}

	data, err := s.csv.Render(export.Dataset{Headers: headers, Rows: rows})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}

	filename := fmt.Sprintf("syllabi/list-%d.csv", time.Now().UTC().Unix())
	return s.finish(filename, data)
}

// Open validates a signed download token and opens the referenced artifact.
func (s *ExportService) Open(token string) (*os.File, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token")
	}
	file, err := s.store.Open(relPath)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export no longer available")
	}
	return file, nil
}

func (s *ExportService) finish(filename string, data []byte) (*ExportResult, error) {
	if _, err := s.store.Save(filename, data); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}

	token, expiresAt, err := s.signer.Generate(uuid.NewString(), filename)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download url")
	}

	s.logger.Info("export stored", zap.String("file", filename))
	return &ExportResult{
		Filename:    filename,
		DownloadURL: "/downloads?token=" + url.QueryEscape(token),
		ExpiresAt:   expiresAt,
	}, nil
}

func buildSyllabusDocument(s *models.Syllabus) export.Document {
	return export.Document{
		Title: fmt.Sprintf("Course Plan - %s", s.Discipline),
		Fields: []export.Field{
			{Label: "Course", Value: s.Course},
			{Label: "Discipline", Value: s.Discipline},
			{Label: "Semester", Value: s.Semester},
			{Label: "Section", Value: s.Section},
			{Label: "Department", Value: s.Department},
			{Label: "Credits", Value: s.Credits},
			{Label: "Language", Value: s.Language},
			{Label: "Coordinator", Value: s.Coordinator},
			{Label: "Professors", Value: s.Professors},
			{Label: "Owner", Value: s.OwnerName},
		},
		Sections: []export.Section{
			{Heading: "Content", Body: s.Content},
			{Heading: "Competencies", Body: s.Competencies},
			{Heading: "Methodology", Body: s.Methodology},
			{Heading: "Evaluation", Body: s.Evaluation},
			{Heading: "Lesson Plan", Body: s.LessonPlan},
			{Heading: "Ethics", Body: s.Ethics},
			{Heading: "Professor Bio", Body: s.ProfessorBio},
			{Heading: "References", Body: s.Bibliography},
		},
	}
}
