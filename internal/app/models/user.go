package models

import (
	"time"
)

// User defines the identity record backed by the 'users' table.
type User struct {
	ID         int64     `json:"id" db:"id"`
	Email      string    `json:"email" db:"email"`
	Password   string    `json:"-" db:"password"` // bcrypt hash, excluded from JSON
	Name       string    `json:"name" db:"name"`
	Role       RoleType  `json:"role" db:"role"`
	Department string    `json:"department" db:"department"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// Lecturer defines the lecturer profile backed by the 'lecturers' table.
// Courses is the set of course codes the lecturer may open sessions for;
// order carries no meaning, membership does.
type Lecturer struct {
	ID      int64    `json:"id" db:"id"`
	UserID  int64    `json:"userId" db:"user_id"`
	StaffID string   `json:"staffId" db:"staff_id"`
	Courses []string `json:"courses" db:"courses"`

	User *User `json:"user,omitempty"` // relation, no db tag
}

// HasCourse reports whether the lecturer is authorized for the course code.
func (l *Lecturer) HasCourse(courseCode string) bool {
	for _, c := range l.Courses {
		if c == courseCode {
			return true
		}
	}
	return false
}

// Student defines the student profile backed by the 'students' table.
type Student struct {
	ID       int64  `json:"id" db:"id"`
	UserID   int64  `json:"userId" db:"user_id"`
	MatricNo string `json:"matricNo" db:"matric_no"`
	Level    string `json:"level" db:"level"` // string-encoded tier, e.g. "300"

	User *User `json:"user,omitempty"` // relation, no db tag
}
