package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/syllabus-api/internal/models"
)

func TestCreateRequest(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	mock.ExpectExec("INSERT INTO syllabus_requests").WillReturnResult(sqlmock.NewResult(1, 1))

	request := &models.SyllabusRequest{
		ProfessorName:  "Ana Souza",
		ProfessorEmail: "ana@example.com",
		Course:         "Computer Science",
		Discipline:     "Algorithms",
		Semester:       "2026.1",
	}
	err := repo.Create(context.Background(), request)
	require.NoError(t, err)
	assert.NotEmpty(t, request.ID)
	assert.Equal(t, models.RequestPending, request.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPendingByName(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "professor_name", "professor_email", "course", "discipline", "semester", "section", "status", "assigned_user_id", "created_at"}).
		AddRow("r1", "Ana Souza", "ana@example.com", "Computer Science", "Algorithms", "2026.1", "A", models.RequestPending, nil, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM syllabus_requests WHERE status = $1 AND professor_name = $2 ORDER BY created_at DESC")).
		WithArgs(models.RequestPending, "Ana Souza").
		WillReturnRows(rows)

	requests, err := repo.ListPendingByName(context.Background(), "Ana Souza")
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, "r1", requests[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptOverwritesAssignee(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	// The status is not part of the predicate: a second accept re-routes the
	// request to the new caller.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE syllabus_requests SET status = $1, assigned_user_id = $2 WHERE id = $3")).
		WithArgs(models.RequestAccepted, "u2", "r1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.Accept(context.Background(), "r1", "u2")
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptMissingRequest(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	mock.ExpectExec("UPDATE syllabus_requests SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.Accept(context.Background(), "missing", "u1")
	require.NoError(t, err)
	assert.Zero(t, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}
