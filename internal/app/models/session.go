package models

import (
	"time"
)

// AttendanceSession is one lecturer-opened attendance window for a course,
// backed by the 'attendance_sessions' table. The signed QR token is stored
// alongside the row so it can be re-displayed for the lifetime of the window.
type AttendanceSession struct {
	ID         string    `json:"id" db:"id"` // UUID
	CourseCode string    `json:"courseCode" db:"course_code"`
	LecturerID int64     `json:"lecturerId" db:"lecturer_id"`
	QRToken    string    `json:"-" db:"qr_token"`
	StartTime  time.Time `json:"startTime" db:"start_time"`
	EndTime    time.Time `json:"endTime" db:"end_time"`
	IsActive   bool      `json:"isActive" db:"is_active"`
}

// IsOpen reports whether the window accepts scans at the given instant.
// Both the manual active flag and the expiry have to hold; a lecturer may
// close a session before its end time, and a stale token may outlive it.
func (s *AttendanceSession) IsOpen(now time.Time) bool {
	return s.IsActive && !now.After(s.EndTime)
}

// SessionSummary is a session row together with its present count, as listed
// on the lecturer dashboard.
type SessionSummary struct {
	AttendanceSession
	AttendeeCount int64 `json:"attendeeCount" db:"attendee_count"`
}
