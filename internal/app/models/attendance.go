package models

import (
	"time"
)

// AttendanceRecord is one presence fact backed by the 'attendance_records'
// table. Uniqueness over (session_id, student_id) is enforced by the database;
// records are append-only and never updated or deleted.
type AttendanceRecord struct {
	ID        int64            `json:"id" db:"id"`
	SessionID string           `json:"sessionId" db:"session_id"`
	StudentID int64            `json:"studentId" db:"student_id"`
	Status    AttendanceStatus `json:"status" db:"status"`
	MarkedAt  time.Time        `json:"markedAt" db:"marked_at"`
}

// HistoryEntry is a record joined with its session, as shown in the student's
// chronological history.
type HistoryEntry struct {
	RecordID    int64            `json:"recordId" db:"record_id"`
	CourseCode  string           `json:"courseCode" db:"course_code"`
	SessionDate time.Time        `json:"sessionDate" db:"session_date"`
	MarkedAt    time.Time        `json:"markedAt" db:"marked_at"`
	Status      AttendanceStatus `json:"status" db:"status"`
}

// SessionReport is the aggregate handed to the CSV and PDF exporters.
// Rows are ordered by sign-in time.
type SessionReport struct {
	SessionID    string       `json:"sessionId"`
	CourseCode   string       `json:"courseCode"`
	SessionDate  time.Time    `json:"sessionDate"`
	TotalPresent int          `json:"totalPresent"`
	Rows         []*ReportRow `json:"rows"`
}

// ReportRow is one present student in a session report, joined through the
// student profile to the user record.
type ReportRow struct {
	Name       string           `json:"name" db:"name"`
	Email      string           `json:"email" db:"email"`
	MatricNo   string           `json:"matricNo" db:"matric_no"`
	Department string           `json:"department" db:"department"`
	SignedInAt time.Time        `json:"signedInAt" db:"signed_in_at"`
	Status     AttendanceStatus `json:"status" db:"status"`
}
