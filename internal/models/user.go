package models

import "time"

// UserRole represents the roles recognised by the system. Registration always
// produces a professor; promotion happens outside the API.
type UserRole string

const (
	RoleProfessor UserRole = "professor"
	RoleAdmin     UserRole = "admin"
)

// User represents an application user stored in the users table.
type User struct {
	ID           string    `db:"id" json:"id"`
	FullName     string    `db:"full_name" json:"full_name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Public returns the user fields safe to expose in responses.
func (u *User) Public() UserInfo {
	return UserInfo{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// UserInfo describes a user in API responses; never carries the hash.
type UserInfo struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
