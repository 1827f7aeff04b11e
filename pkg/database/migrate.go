package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Schema history is strictly additive: tables are created if absent and later
// columns are bolted on with alterations that no-op when the column already
// exists. Nothing here ever drops or rewrites existing data.

var createTables = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		full_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS programs (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		code TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS disciplines (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		program_id TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS syllabi (
		id TEXT PRIMARY KEY,
		owner_id TEXT,
		course TEXT,
		discipline TEXT,
		semester TEXT,
		section TEXT,
		department TEXT,
		credits TEXT,
		coordinator TEXT,
		professors TEXT,
		content TEXT,
		methodology TEXT,
		evaluation TEXT,
		lesson_plan TEXT,
		bibliography TEXT,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS syllabus_requests (
		id TEXT PRIMARY KEY,
		professor_name TEXT NOT NULL,
		professor_email TEXT NOT NULL,
		course TEXT,
		discipline TEXT,
		semester TEXT,
		section TEXT,
		status TEXT NOT NULL,
		assigned_user_id TEXT,
		created_at TIMESTAMP NOT NULL
	)`,
}

// addColumn describes a post-launch additive column.
type addColumn struct {
	table      string
	column     string
	definition string
}

var addColumns = []addColumn{
	{"users", "role", "TEXT NOT NULL DEFAULT 'professor'"},
	{"syllabi", "language", "TEXT"},
	{"syllabi", "ethics", "TEXT"},
	{"syllabi", "professor_bio", "TEXT"},
	{"syllabi", "competencies", "TEXT"},
}

// Migrate applies the additive schema. Safe to run on every startup.
func Migrate(ctx context.Context, db *sqlx.DB, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, stmt := range createTables {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	for _, ac := range addColumns {
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", ac.table, ac.column, ac.definition)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			if isDuplicateColumn(err) {
				continue
			}
			return fmt.Errorf("add column %s.%s: %w", ac.table, ac.column, err)
		}
		logger.Info("schema column added", zap.String("table", ac.table), zap.String("column", ac.column))
	}

	return nil
}

// isDuplicateColumn matches the duplicate-column error text of both drivers;
// probing the information schema is not portable across them.
func isDuplicateColumn(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate column")
}
