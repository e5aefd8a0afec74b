package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/seyi/unimark/internal/app/models"
	"github.com/seyi/unimark/internal/app/models/dto"
	"github.com/seyi/unimark/internal/app/repositories"
	"github.com/seyi/unimark/internal/pkg/apperrors"
)

// ReportService assembles per-session attendance reports for export
type ReportService struct {
	sessionRepo    repositories.ISessionRepository
	attendanceRepo repositories.IAttendanceRepository
	logger         zerolog.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	sessionRepo repositories.ISessionRepository,
	attendanceRepo repositories.IAttendanceRepository,
	logger zerolog.Logger,
) *ReportService {
	return &ReportService{
		sessionRepo:    sessionRepo,
		attendanceRepo: attendanceRepo,
		logger:         logger,
	}
}

// SessionReport builds the report for one session, rows ordered by sign-in
// time. Only the owning lecturer may read it.
func (s *ReportService) SessionReport(ctx context.Context, lecturerID int64, sessionID string) (*models.SessionReport, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.LecturerID != lecturerID {
		return nil, apperrors.ErrPermissionDenied
	}

	rows, err := s.attendanceRepo.RowsForSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return &models.SessionReport{
		SessionID:    session.ID,
		CourseCode:   session.CourseCode,
		SessionDate:  session.StartTime,
		TotalPresent: len(rows),
		Rows:         rows,
	}, nil
}

// BuildReportResponse converts a report to its API representation.
func BuildReportResponse(report *models.SessionReport) *dto.SessionReportResponse {
	students := make([]dto.ReportRowPayload, 0, len(report.Rows))
	for _, row := range report.Rows {
		students = append(students, dto.ReportRowPayload{
			Name:       row.Name,
			MatricNo:   row.MatricNo,
			Department: row.Department,
			SignedInAt: row.SignedInAt,
		})
	}
	return &dto.SessionReportResponse{
		SessionID:    report.SessionID,
		CourseCode:   report.CourseCode,
		SessionDate:  report.SessionDate,
		TotalPresent: report.TotalPresent,
		Students:     students,
	}
}
