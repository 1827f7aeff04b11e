package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/syllabus-api/internal/middleware"
	"github.com/noah-isme/syllabus-api/internal/models"
	"github.com/noah-isme/syllabus-api/internal/service"
	appErrors "github.com/noah-isme/syllabus-api/pkg/errors"
)

type requestServiceMock struct {
	submitResp *models.SyllabusRequest
	submitErr  error
	listResp   []models.SyllabusRequest
	listErr    error
	acceptErr  error
	listedName string
	acceptedID string
	acceptedBy string
}

func (m *requestServiceMock) Submit(ctx context.Context, req service.SubmitRequestRequest) (*models.SyllabusRequest, error) {
	return m.submitResp, m.submitErr
}

func (m *requestServiceMock) ListPending(ctx context.Context, callerFullName string) ([]models.SyllabusRequest, error) {
	m.listedName = callerFullName
	return m.listResp, m.listErr
}

func (m *requestServiceMock) Accept(ctx context.Context, requestID, userID string) error {
	m.acceptedID = requestID
	m.acceptedBy = userID
	return m.acceptErr
}

func requestTestContext(t *testing.T, method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var req *http.Request
	if body != nil {
		req, _ = http.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, target, nil)
	}
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1", FullName: "Ana Souza"})
	return c, w
}

func TestRequestHandlerSubmit(t *testing.T) {
	mockSvc := &requestServiceMock{submitResp: &models.SyllabusRequest{ID: "r1", Status: models.RequestPending}}
	handler := NewRequestHandler(mockSvc)

	payload, _ := json.Marshal(service.SubmitRequestRequest{
		ProfessorName:  "Ana Souza",
		ProfessorEmail: "ana@example.com",
		Course:         "Computer Science",
		Discipline:     "Algorithms",
		Semester:       "2026.1",
	})
	c, w := requestTestContext(t, http.MethodPost, "/requests", payload)
	handler.Submit(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "r1")
}

func TestRequestHandlerListMatchesCallerName(t *testing.T) {
	mockSvc := &requestServiceMock{listResp: []models.SyllabusRequest{{ID: "r1"}}}
	handler := NewRequestHandler(mockSvc)

	c, w := requestTestContext(t, http.MethodGet, "/requests", nil)
	handler.ListPending(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ana Souza", mockSvc.listedName)
}

func TestRequestHandlerAccept(t *testing.T) {
	mockSvc := &requestServiceMock{}
	handler := NewRequestHandler(mockSvc)

	c, w := requestTestContext(t, http.MethodPost, "/requests/r1/accept", nil)
	c.Params = gin.Params{{Key: "id", Value: "r1"}}
	handler.Accept(c)
	c.Writer.WriteHeaderNow()

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "r1", mockSvc.acceptedID)
	assert.Equal(t, "u1", mockSvc.acceptedBy)
}

func TestRequestHandlerAcceptNotFound(t *testing.T) {
	handler := NewRequestHandler(&requestServiceMock{acceptErr: appErrors.ErrNotFound})

	c, w := requestTestContext(t, http.MethodPost, "/requests/missing/accept", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	handler.Accept(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequestHandlerSubmitInvalidBody(t *testing.T) {
	handler := NewRequestHandler(&requestServiceMock{})

	c, w := requestTestContext(t, http.MethodPost, "/requests", []byte(`{"professor_name":`))
	handler.Submit(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
