package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent  RoleType = "STUDENT"
	RoleLecturer RoleType = "LECTURER"
)

// AttendanceStatus is the recorded state of a presence fact. Only PRESENT is
// written today; the column exists so absence reconciliation can be added
// without a schema change.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "PRESENT"
)
