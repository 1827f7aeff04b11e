package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/syllabus-api/internal/models"
)

func syllabusRows(t *testing.T) *sqlmock.Rows {
	t.Helper()
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "owner_id", "course", "discipline", "semester", "section", "department",
		"credits", "language", "coordinator", "professors", "content", "methodology",
		"evaluation", "lesson_plan", "ethics", "professor_bio", "bibliography",
		"competencies", "created_at", "owner_name",
	}).AddRow(
		"s1", "u1", "Computer Science", "Algorithms", "2026.1", "A", "Exact Sciences",
		"4 (60h)", "English", "Dr. Lima", "Ana Souza", "Sorting, graphs", "Lectures",
		"Two exams", "Week by week", "Honor code", "PhD 2010", "CLRS", "Problem solving",
		now, "Ana Souza",
	)
}

func TestCreateSyllabus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSyllabusRepository(db)

	mock.ExpectExec("INSERT INTO syllabi").WillReturnResult(sqlmock.NewResult(1, 1))

	syllabus := &models.Syllabus{OwnerID: "u1"}
	syllabus.Course = "Computer Science"
	syllabus.Discipline = "Algorithms"
	syllabus.Semester = "2026.1"

	err := repo.Create(context.Background(), syllabus)
	require.NoError(t, err)
	assert.NotEmpty(t, syllabus.ID)
	assert.False(t, syllabus.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListSyllabiFiltered(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSyllabusRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM syllabi s LEFT JOIN users u ON u.id = s.owner_id WHERE 1=1 AND s.course LIKE $1 AND s.discipline LIKE $2 ORDER BY s.created_at DESC")).
		WithArgs("%Comp%", "%Algo%").
		WillReturnRows(syllabusRows(t))

	syllabi, err := repo.List(context.Background(), models.SyllabusFilter{Program: "Comp", Discipline: "Algo"})
	require.NoError(t, err)
	require.Len(t, syllabi, 1)
	assert.Equal(t, "Ana Souza", syllabi[0].OwnerName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindSyllabusByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSyllabusRepository(db)

	mock.ExpectQuery("FROM syllabi s LEFT JOIN users u").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	syllabus, err := repo.FindByID(context.Background(), "missing")
	assert.Nil(t, syllabus)
	assert.Equal(t, sql.ErrNoRows, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateSyllabusOwnershipGuard(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSyllabusRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("WHERE id = ? AND owner_id = ?")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	syllabus := &models.Syllabus{ID: "s1", OwnerID: "someone-else"}
	affected, err := repo.Update(context.Background(), syllabus)
	require.NoError(t, err)
	assert.Zero(t, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteSyllabus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSyllabusRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM syllabi WHERE id = $1 AND owner_id = $2")).
		WithArgs("s1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.Delete(context.Background(), "s1", "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReassignOrphans(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSyllabusRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE syllabi SET owner_id = $1 WHERE owner_id IS NULL OR owner_id NOT IN (SELECT id FROM users)")).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	affected, err := repo.ReassignOrphans(context.Background(), "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 3, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}
