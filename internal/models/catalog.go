package models

// Program is a course of study imported from the catalog seed files.
// The whole table is replaced on every import.
type Program struct {
	ID   string  `db:"id" json:"id"`
	Name string  `db:"name" json:"name"`
	Code *string `db:"code" json:"code,omitempty"`
}

// Discipline belongs to at most one program. Replaced on every import.
type Discipline struct {
	ID        string  `db:"id" json:"id"`
	Name      string  `db:"name" json:"name"`
	ProgramID *string `db:"program_id" json:"program_id,omitempty"`
}

// CatalogFilter narrows catalog browse queries.
type CatalogFilter struct {
	Search    string
	ProgramID string
}

// DisciplineSeed is one deduplicated (program, discipline) pair handed to the
// catalog swap, in insertion order.
type DisciplineSeed struct {
	ProgramName string
	Name        string
}

// ImportStats summarises a catalog import run.
type ImportStats struct {
	Programs        int
	Disciplines     int
	SkippedRows     int
	UnresolvedNames int
}
