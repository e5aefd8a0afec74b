package dto

import "time"

// OpenSessionRequest represents the payload for opening an attendance session.
type OpenSessionRequest struct {
	CourseCode string `json:"courseCode" binding:"required" example:"CSC101"`
}

// SessionResponse represents an attendance session.
type SessionResponse struct {
	ID            string    `json:"id" example:"6f1e9a52-6f6e-4f09-9d63-2b1f3f6a77b1"`
	CourseCode    string    `json:"courseCode" example:"CSC101"`
	LecturerID    int64     `json:"lecturerId" example:"1"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	IsActive      bool      `json:"isActive" example:"true"`
	AttendeeCount int64     `json:"attendeeCount" example:"0"`
}

// OpenSessionResponse is returned when a session is opened. The token is the
// signed QR payload students scan to mark attendance.
type OpenSessionResponse struct {
	Session *SessionResponse `json:"session"`
	Token   string           `json:"token"`
	QRURL   string           `json:"qrUrl" example:"/api/v1/sessions/6f1e9a52/qr"`
}

// LiveCountResponse reports how many students have marked so far.
type LiveCountResponse struct {
	SessionID string `json:"sessionId"`
	Count     int64  `json:"count" example:"37"`
}

// CloseExpiredResponse reports how many stale sessions were closed.
type CloseExpiredResponse struct {
	Closed int64 `json:"closed" example:"2"`
}

// SessionReportResponse is the aggregated report for one session.
type SessionReportResponse struct {
	SessionID    string             `json:"sessionId"`
	CourseCode   string             `json:"courseCode" example:"CSC101"`
	SessionDate  time.Time          `json:"sessionDate"`
	TotalPresent int                `json:"totalPresent" example:"37"`
	Students     []ReportRowPayload `json:"students"`
}

// ReportRowPayload is one student row inside a session report.
type ReportRowPayload struct {
	Name       string    `json:"name" example:"Ada Obi"`
	MatricNo   string    `json:"matricNo" example:"CSC/2021/044"`
	Department string    `json:"department" example:"Computer Science"`
	SignedInAt time.Time `json:"signedInAt"`
}
