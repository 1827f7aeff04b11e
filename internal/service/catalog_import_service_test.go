package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/syllabus-api/internal/models"
)

type mockCatalogReplacer struct {
	programs    []string
	disciplines []models.DisciplineSeed
	stats       models.ImportStats
	err         error
	calls       int
}

func (m *mockCatalogReplacer) Replace(ctx context.Context, programs []string, disciplines []models.DisciplineSeed) (models.ImportStats, error) {
	m.calls++
	m.programs = programs
	m.disciplines = disciplines
	return m.stats, m.err
}

type mockInvalidator struct {
	patterns []string
	err      error
}

func (m *mockInvalidator) DeleteByPattern(ctx context.Context, pattern string) error {
	m.patterns = append(m.patterns, pattern)
	return m.err
}

func writeSeedFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImportDeduplicatesPrograms(t *testing.T) {
	programsFile := writeSeedFile(t, "programas.csv", "programa\nComputer Science\nComputer Science\nMathematics\n")
	disciplinesFile := writeSeedFile(t, "disciplinas.csv", "programa,disciplina\nComputer Science,Algorithms\n")

	repo := &mockCatalogReplacer{}
	svc := NewCatalogImportService(repo, nil, zap.NewNop(), nil, programsFile, disciplinesFile)

	require.NoError(t, svc.Run(context.Background()))
	assert.Equal(t, []string{"Computer Science", "Mathematics"}, repo.programs)
}

func TestImportDeduplicatesDisciplinesPerProgram(t *testing.T) {
	programsFile := writeSeedFile(t, "programas.csv", "programa\nComputer Science\nMathematics\n")
	disciplinesFile := writeSeedFile(t, "disciplinas.csv",
		"programa,disciplina\n"+
			"Computer Science,Algorithms\n"+
			"Computer Science,Algorithms\n"+
			"Mathematics,Algorithms\n")

	repo := &mockCatalogReplacer{}
	svc := NewCatalogImportService(repo, nil, zap.NewNop(), nil, programsFile, disciplinesFile)

	require.NoError(t, svc.Run(context.Background()))
	assert.Equal(t, []models.DisciplineSeed{
		{ProgramName: "Computer Science", Name: "Algorithms"},
		{ProgramName: "Mathematics", Name: "Algorithms"},
	}, repo.disciplines)
}

func TestImportSkipsBlankRows(t *testing.T) {
	programsFile := writeSeedFile(t, "programas.csv", "programa\n\nComputer Science\n  \n")
	disciplinesFile := writeSeedFile(t, "disciplinas.csv", "programa,disciplina\nComputer Science,\n,Algorithms\nComputer Science,Algorithms\n")

	repo := &mockCatalogReplacer{}
	svc := NewCatalogImportService(repo, nil, zap.NewNop(), nil, programsFile, disciplinesFile)

	require.NoError(t, svc.Run(context.Background()))
	assert.Equal(t, []string{"Computer Science"}, repo.programs)
	assert.Equal(t, []models.DisciplineSeed{{ProgramName: "Computer Science", Name: "Algorithms"}}, repo.disciplines)
}

func TestImportHeaderMatchIsCaseInsensitive(t *testing.T) {
	programsFile := writeSeedFile(t, "programas.csv", "PROGRAMA\nComputer Science\n")
	disciplinesFile := writeSeedFile(t, "disciplinas.csv", "Programa,Disciplina\nComputer Science,Algorithms\n")

	repo := &mockCatalogReplacer{}
	svc := NewCatalogImportService(repo, nil, zap.NewNop(), nil, programsFile, disciplinesFile)

	require.NoError(t, svc.Run(context.Background()))
	assert.Len(t, repo.programs, 1)
	assert.Len(t, repo.disciplines, 1)
}

func TestImportAbortsBeforeMutationOnMissingFile(t *testing.T) {
	disciplinesFile := writeSeedFile(t, "disciplinas.csv", "programa,disciplina\nComputer Science,Algorithms\n")

	repo := &mockCatalogReplacer{}
	svc := NewCatalogImportService(repo, nil, zap.NewNop(), nil, filepath.Join(t.TempDir(), "nope.csv"), disciplinesFile)

	err := svc.Run(context.Background())
	assert.Error(t, err)
	assert.Zero(t, repo.calls)
}

func TestImportAbortsOnMissingColumn(t *testing.T) {
	programsFile := writeSeedFile(t, "programas.csv", "nome\nComputer Science\n")
	disciplinesFile := writeSeedFile(t, "disciplinas.csv", "programa,disciplina\nComputer Science,Algorithms\n")

	repo := &mockCatalogReplacer{}
	svc := NewCatalogImportService(repo, nil, zap.NewNop(), nil, programsFile, disciplinesFile)

	err := svc.Run(context.Background())
	assert.Error(t, err)
	assert.Zero(t, repo.calls)
}

func TestImportInvalidatesCatalogCache(t *testing.T) {
	programsFile := writeSeedFile(t, "programas.csv", "programa\nComputer Science\n")
	disciplinesFile := writeSeedFile(t, "disciplinas.csv", "programa,disciplina\nComputer Science,Algorithms\n")

	cache := &mockInvalidator{}
	svc := NewCatalogImportService(&mockCatalogReplacer{}, cache, zap.NewNop(), nil, programsFile, disciplinesFile)

	require.NoError(t, svc.Run(context.Background()))
	assert.Equal(t, []string{"catalog:*"}, cache.patterns)
}

func TestImportSurfacesReplaceError(t *testing.T) {
	programsFile := writeSeedFile(t, "programas.csv", "programa\nComputer Science\n")
	disciplinesFile := writeSeedFile(t, "disciplinas.csv", "programa,disciplina\nComputer Science,Algorithms\n")

	repo := &mockCatalogReplacer{err: errors.New("store unavailable")}
	svc := NewCatalogImportService(repo, nil, zap.NewNop(), nil, programsFile, disciplinesFile)

	assert.Error(t, svc.Run(context.Background()))
}
