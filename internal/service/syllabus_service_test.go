package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/syllabus-api/internal/models"
	appErrors "github.com/noah-isme/syllabus-api/pkg/errors"
)

type mockSyllabusRepo struct {
	syllabi        []models.Syllabus
	byID           *models.Syllabus
	updateAffected int64
	deleteAffected int64
	orphanCount    int64
	err            error
	lastFilter     models.SyllabusFilter
	created        *models.Syllabus
}

func (m *mockSyllabusRepo) Create(ctx context.Context, syllabus *models.Syllabus) error {
	if m.err != nil {
		return m.err
	}
	syllabus.ID = "s1"
	m.created = syllabus
	return nil
}

func (m *mockSyllabusRepo) List(ctx context.Context, filter models.SyllabusFilter) ([]models.Syllabus, error) {
	m.lastFilter = filter
	return m.syllabi, m.err
}

func (m *mockSyllabusRepo) FindByID(ctx context.Context, id string) (*models.Syllabus, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byID, nil
}

func (m *mockSyllabusRepo) Update(ctx context.Context, syllabus *models.Syllabus) (int64, error) {
	return m.updateAffected, m.err
}

func (m *mockSyllabusRepo) Delete(ctx context.Context, id, ownerID string) (int64, error) {
	return m.deleteAffected, m.err
}

func (m *mockSyllabusRepo) ReassignOrphans(ctx context.Context, targetUserID string) (int64, error) {
	return m.orphanCount, m.err
}

func validPayload() SyllabusPayload {
	return SyllabusPayload{Course: "Computer Science", Discipline: "Algorithms", Semester: "2026.1"}
}

func TestCreateSyllabusSetsOwner(t *testing.T) {
	repo := &mockSyllabusRepo{}
	svc := NewSyllabusService(repo, nil, nil)

	syllabus, err := svc.Create(context.Background(), "u1", validPayload())
	require.NoError(t, err)
	assert.Equal(t, "u1", syllabus.OwnerID)
	assert.Equal(t, "Algorithms", syllabus.Discipline)
}

func TestCreateSyllabusValidation(t *testing.T) {
	svc := NewSyllabusService(&mockSyllabusRepo{}, nil, nil)

	_, err := svc.Create(context.Background(), "u1", SyllabusPayload{Course: "Computer Science"})
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestGetSyllabusNotFound(t *testing.T) {
	svc := NewSyllabusService(&mockSyllabusRepo{err: sql.ErrNoRows}, nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestUpdateSyllabusForbiddenWhenNotOwner(t *testing.T) {
	svc := NewSyllabusService(&mockSyllabusRepo{updateAffected: 0}, nil, nil)

	_, err := svc.Update(context.Background(), "s1", "intruder", validPayload())
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestUpdateSyllabusSuccess(t *testing.T) {
	svc := NewSyllabusService(&mockSyllabusRepo{updateAffected: 1}, nil, nil)

	syllabus, err := svc.Update(context.Background(), "s1", "u1", validPayload())
	require.NoError(t, err)
	assert.Equal(t, "s1", syllabus.ID)
	assert.Equal(t, "u1", syllabus.OwnerID)
}

func TestDeleteSyllabusForbiddenWhenNotOwner(t *testing.T) {
	svc := NewSyllabusService(&mockSyllabusRepo{deleteAffected: 0}, nil, nil)

	err := svc.Delete(context.Background(), "s1", "intruder")
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestListPassesFilterThrough(t *testing.T) {
	repo := &mockSyllabusRepo{syllabi: []models.Syllabus{}}
	svc := NewSyllabusService(repo, nil, nil)

	_, err := svc.List(context.Background(), models.SyllabusFilter{Program: "Comp", Discipline: "Algo"})
	require.NoError(t, err)
	assert.Equal(t, "Comp", repo.lastFilter.Program)
	assert.Equal(t, "Algo", repo.lastFilter.Discipline)
}

func TestClaimOrphans(t *testing.T) {
	svc := NewSyllabusService(&mockSyllabusRepo{orphanCount: 3}, nil, nil)

	count, err := svc.ClaimOrphans(context.Background(), "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}
