package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/syllabus-api/internal/models"
)

type catalogReplacer interface {
	Replace(ctx context.Context, programs []string, disciplines []models.DisciplineSeed) (models.ImportStats, error)
}

type catalogCacheInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CatalogImportService loads the program/discipline catalog from the two CSV
// seed files. The whole load is a staged swap: both files are parsed before
// any store mutation, and the repository replaces the tables inside one
// transaction, so a bad input file never empties the catalog.
type CatalogImportService struct {
	repo    catalogReplacer
	cache   catalogCacheInvalidator
	logger  *zap.Logger
	metrics *MetricsService

	programsFile    string
	disciplinesFile string
}

// NewCatalogImportService creates the importer. Cache and metrics may be nil.
func NewCatalogImportService(repo catalogReplacer, cache catalogCacheInvalidator, logger *zap.Logger, metrics *MetricsService, programsFile, disciplinesFile string) *CatalogImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogImportService{
		repo:            repo,
		cache:           cache,
		logger:          logger,
		metrics:         metrics,
		programsFile:    programsFile,
		disciplinesFile: disciplinesFile,
	}
}

// Run executes one full catalog import. Errors are returned for the caller to
// log; they never reach request handling.
func (s *CatalogImportService) Run(ctx context.Context) error {
	programRows, err := readCSVColumn(s.programsFile, "programa")
	if err != nil {
		return fmt.Errorf("read programs source: %w", err)
	}
	disciplineRows, err := readCSVPairs(s.disciplinesFile, "programa", "disciplina")
	if err != nil {
		return fmt.Errorf("read disciplines source: %w", err)
	}

	programs := dedupeNames(programRows)
	disciplines := groupDisciplines(disciplineRows)

	stats, err := s.repo.Replace(ctx, programs, disciplines)
	if err != nil {
		return fmt.Errorf("replace catalog: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, "catalog:*"); err != nil {
			s.logger.Warn("catalog cache invalidation failed", zap.Error(err))
		}
	}
	if s.metrics != nil {
		s.metrics.ObserveCatalogImport(stats)
	}

	s.logger.Info("catalog import finished",
		zap.Int("programs", stats.Programs),
		zap.Int("disciplines", stats.Disciplines),
		zap.Int("skipped_rows", stats.SkippedRows),
		zap.Int("unresolved_programs", stats.UnresolvedNames),
	)
	return nil
}

// dedupeNames keeps the first occurrence of each non-empty name.
func dedupeNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// groupDisciplines deduplicates discipline names within each program group
// while preserving first-seen order across the file.
func groupDisciplines(pairs [][2]string) []models.DisciplineSeed {
	seen := make(map[string]struct{}, len(pairs))
	out := make([]models.DisciplineSeed, 0, len(pairs))
	for _, pair := range pairs {
		program := strings.TrimSpace(pair[0])
		discipline := strings.TrimSpace(pair[1])
		if program == "" || discipline == "" {
			continue
		}
		key := program + "\x00" + discipline
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, models.DisciplineSeed{ProgramName: program, Name: discipline})
	}
	return out
}

func readCSVColumn(path, column string) ([]string, error) {
	records, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	idx, err := columnIndex(header, column)
	if err != nil {
		return nil, err
	}

	values := make([]string, 0, len(records))
	for _, record := range records {
		if idx >= len(record) {
			continue
		}
		values = append(values, record[idx])
	}
	return values, nil
}

func readCSVPairs(path, first, second string) ([][2]string, error) {
	records, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	firstIdx, err := columnIndex(header, first)
	if err != nil {
		return nil, err
	}
	secondIdx, err := columnIndex(header, second)
	if err != nil {
		return nil, err
	}

	pairs := make([][2]string, 0, len(records))
	for _, record := range records {
		if firstIdx >= len(record) || secondIdx >= len(record) {
			continue
		}
		pairs = append(pairs, [2]string{record[firstIdx], record[secondIdx]})
	}
	return pairs, nil
}

func readCSV(path string) (records [][]string, header []string, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close() //nolint:errcheck

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err = reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil, fmt.Errorf("%s is empty", path)
		}
		return nil, nil, fmt.Errorf("read header of %s: %w", path, err)
	}

	records, err = reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read rows of %s: %w", path, err)
	}
	return records, header, nil
}

func columnIndex(header []string, column string) (int, error) {
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), column) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("column %q not found in header %v", column, header)
}
