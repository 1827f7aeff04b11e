package models

import "time"

// SyllabusFields groups the descriptive text columns of a course plan.
// Credits is text like everything else; plans routinely carry values such
// as "4 (60h)".
type SyllabusFields struct {
	Course       string `db:"course" json:"course"`
	Discipline   string `db:"discipline" json:"discipline"`
	Semester     string `db:"semester" json:"semester"`
	Section      string `db:"section" json:"section"`
	Department   string `db:"department" json:"department"`
	Credits      string `db:"credits" json:"credits"`
	Language     string `db:"language" json:"language"`
	Coordinator  string `db:"coordinator" json:"coordinator"`
	Professors   string `db:"professors" json:"professors"`
	Content      string `db:"content" json:"content"`
	Methodology  string `db:"methodology" json:"methodology"`
	Evaluation   string `db:"evaluation" json:"evaluation"`
	LessonPlan   string `db:"lesson_plan" json:"lesson_plan"`
	Ethics       string `db:"ethics" json:"ethics"`
	ProfessorBio string `db:"professor_bio" json:"professor_bio"`
	Bibliography string `db:"bibliography" json:"references"`
	Competencies string `db:"competencies" json:"competencies"`
}

// Syllabus is a course-plan record owned by exactly one user. The owner
// reference is not constrained and may dangle after external edits.
type Syllabus struct {
	ID      string `db:"id" json:"id"`
	OwnerID string `db:"owner_id" json:"owner_id"`
	SyllabusFields
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	// OwnerName is joined from users on reads; empty when the owner is gone.
	OwnerName string `db:"owner_name" json:"owner_name,omitempty"`
}

// SyllabusFilter narrows syllabus listings. Program matches the course
// column, Discipline the discipline column, both as substrings.
type SyllabusFilter struct {
	Program    string
	Discipline string
}
