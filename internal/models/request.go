package models

import "time"

// RequestStatus tracks a syllabus request's lifecycle.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
)

// SyllabusRequest records a professor asking for a syllabus to be produced.
// It is matched to users by exact professor name, not by account linkage.
type SyllabusRequest struct {
	ID             string        `db:"id" json:"id"`
	ProfessorName  string        `db:"professor_name" json:"professor_name"`
	ProfessorEmail string        `db:"professor_email" json:"professor_email"`
	Course         string        `db:"course" json:"course"`
	Discipline     string        `db:"discipline" json:"discipline"`
	Semester       string        `db:"semester" json:"semester"`
	Section        string        `db:"section" json:"section"`
	Status         RequestStatus `db:"status" json:"status"`
	AssignedUserID *string       `db:"assigned_user_id" json:"assigned_user_id,omitempty"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
}
