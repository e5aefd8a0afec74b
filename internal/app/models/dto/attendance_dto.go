package dto

import "time"

// MarkAttendanceRequest carries the scanned QR token.
type MarkAttendanceRequest struct {
	Token string `json:"token" binding:"required"`
}

// MarkAttendanceResponse confirms a mark and returns the student's updated
// standing in the course. Re-scanning the same session returns the same shape.
type MarkAttendanceResponse struct {
	SessionID  string `json:"sessionId"`
	CourseCode string `json:"courseCode" example:"CSC101"`
	Attended   int64  `json:"attended" example:"9"`
	Total      int64  `json:"total" example:"12"`
	Percentage int    `json:"percentage" example:"75"`
}

// CourseStats is a student's attendance standing in one course.
type CourseStats struct {
	CourseCode string `json:"courseCode" example:"CSC101"`
	Attended   int64  `json:"attended" example:"9"`
	Total      int64  `json:"total" example:"12"`
	Percentage int    `json:"percentage" example:"75"`
}

// StudentStatsResponse aggregates standings across every course the
// student has records in.
type StudentStatsResponse struct {
	StudentID int64         `json:"studentId" example:"1"`
	Courses   []CourseStats `json:"courses"`
}

// HistoryEntryPayload is one row in a student's attendance history.
type HistoryEntryPayload struct {
	RecordID    int64     `json:"recordId" example:"15"`
	CourseCode  string    `json:"courseCode" example:"CSC101"`
	SessionDate time.Time `json:"sessionDate"`
	MarkedAt    time.Time `json:"markedAt"`
	Status      string    `json:"status" example:"PRESENT"`
}

// HistoryResponse is a paginated slice of a student's history.
type HistoryResponse struct {
	StudentID int64                 `json:"studentId" example:"1"`
	Page      int                   `json:"page" example:"1"`
	PageSize  int                   `json:"pageSize" example:"20"`
	Entries   []HistoryEntryPayload `json:"entries"`
}
