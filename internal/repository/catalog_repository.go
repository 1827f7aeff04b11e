package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/syllabus-api/internal/models"
)

// CatalogRepository provides database access for the program/discipline catalog.
type CatalogRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewCatalogRepository creates a new instance of CatalogRepository.
func NewCatalogRepository(db *sqlx.DB, logger *zap.Logger) *CatalogRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogRepository{db: db, logger: logger}
}

// ListPrograms returns programs, optionally substring-filtered by name.
// Case behaviour of LIKE follows the store collation.
func (r *CatalogRepository) ListPrograms(ctx context.Context, search string) ([]models.Program, error) {
	query := `SELECT id, name, code FROM programs`
	var args []interface{}
	if search != "" {
		query += ` WHERE name LIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY name`

	programs := []models.Program{}
	if err := r.db.SelectContext(ctx, &programs, query, args...); err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return programs, nil
}

// ListDisciplines returns disciplines filtered by name substring and/or program.
func (r *CatalogRepository) ListDisciplines(ctx context.Context, filter models.CatalogFilter) ([]models.Discipline, error) {
	query := `SELECT id, name, program_id FROM disciplines WHERE 1=1`
	var args []interface{}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND name LIKE $%d", len(args))
	}
	if filter.ProgramID != "" {
		args = append(args, filter.ProgramID)
		query += fmt.Sprintf(" AND program_id = $%d", len(args))
	}
	query += ` ORDER BY name`

	disciplines := []models.Discipline{}
	if err := r.db.SelectContext(ctx, &disciplines, query, args...); err != nil {
		return nil, fmt.Errorf("list disciplines: %w", err)
	}
	return disciplines, nil
}

// CreateDiscipline inserts a single discipline. The next catalog import
// discards it along with everything else in the table.
func (r *CatalogRepository) CreateDiscipline(ctx context.Context, discipline *models.Discipline) error {
	if discipline.ID == "" {
		discipline.ID = uuid.NewString()
	}
	const query = `INSERT INTO disciplines (id, name, program_id) VALUES (:id, :name, :program_id)`
	if _, err := r.db.NamedExecContext(ctx, query, discipline); err != nil {
		return fmt.Errorf("create discipline: %w", err)
	}
	return nil
}

// Replace swaps the whole catalog inside one transaction: readers never see
// the emptied tables. Program names must already be deduplicated; discipline
// rows must already be deduplicated per program. The program name→id mapping
// used for linkage is re-read from the store after the inserts rather than
// accumulated in memory, so linkage never depends on insert ordering.
func (r *CatalogRepository) Replace(ctx context.Context, programs []string, disciplines []models.DisciplineSeed) (models.ImportStats, error) {
	stats := models.ImportStats{}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("begin catalog swap: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM programs`); err != nil {
		return stats, fmt.Errorf("clear programs: %w", err)
	}

	for _, name := range programs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO programs (id, name) VALUES ($1, $2)`, uuid.NewString(), name); err != nil {
			stats.SkippedRows++
			r.logger.Warn("program insert skipped", zap.String("program", name), zap.Error(err))
			continue
		}
		stats.Programs++
	}

	idsByName, err := r.programIDs(ctx, tx)
	if err != nil {
		return stats, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM disciplines`); err != nil {
		return stats, fmt.Errorf("clear disciplines: %w", err)
	}

	for _, row := range disciplines {
		programID, ok := idsByName[row.ProgramName]
		if !ok {
			stats.UnresolvedNames++
			r.logger.Warn("discipline group has no resolved program", zap.String("program", row.ProgramName), zap.String("discipline", row.Name))
			continue
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO disciplines (id, name, program_id) VALUES ($1, $2, $3)`, uuid.NewString(), row.Name, programID); err != nil {
			stats.SkippedRows++
			r.logger.Warn("discipline insert skipped", zap.String("discipline", row.Name), zap.Error(err))
			continue
		}
		stats.Disciplines++
	}

	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("commit catalog swap: %w", err)
	}
	return stats, nil
}

func (r *CatalogRepository) programIDs(ctx context.Context, tx *sqlx.Tx) (map[string]string, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id, name FROM programs`)
	if err != nil {
		return nil, fmt.Errorf("read program ids: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	idsByName := make(map[string]string)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan program id: %w", err)
		}
		idsByName[name] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate program ids: %w", err)
	}
	return idsByName, nil
}

// FindProgramByName resolves a program id, passing sql.ErrNoRows through.
func (r *CatalogRepository) FindProgramByName(ctx context.Context, name string) (*models.Program, error) {
	const query = `SELECT id, name, code FROM programs WHERE name = $1 LIMIT 1`
	var program models.Program
	if err := r.db.GetContext(ctx, &program, query, name); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find program by name: %w", err)
	}
	return &program, nil
}
