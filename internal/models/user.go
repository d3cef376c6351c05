package models

import (
	"strings"
	"time"
)

// UserRole is the canonical role vocabulary. Earlier mobile builds shipped the
// Portuguese spellings, so ParseRole still accepts them at the boundary.
type UserRole string

const (
	RoleTeacher UserRole = "teacher"
	RoleStudent UserRole = "student"
)

// ParseRole translates any accepted role spelling into the canonical value.
func ParseRole(raw string) (UserRole, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "teacher", "professor":
		return RoleTeacher, true
	case "student", "aluno":
		return RoleStudent, true
	default:
		return "", false
	}
}

// User represents an application user stored in the users table. Password
// hashes never serialize.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	Bio          string    `db:"bio" json:"bio,omitempty"`
	Subject      string    `db:"subject" json:"subject,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role   *UserRole
	Search string
}
