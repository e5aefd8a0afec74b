package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/seyi/unimark/internal/app/models"
	"github.com/seyi/unimark/internal/app/models/dto"
	"github.com/seyi/unimark/internal/app/repositories"
	"github.com/seyi/unimark/internal/cache"
	"github.com/seyi/unimark/internal/pkg/apperrors"
	"github.com/seyi/unimark/internal/pkg/metrics"
	"github.com/seyi/unimark/internal/pkg/qrtoken"
)

// AttendanceService records scans and aggregates attendance figures
type AttendanceService struct {
	sessionRepo    repositories.ISessionRepository
	attendanceRepo repositories.IAttendanceRepository
	signer         *qrtoken.Signer
	liveCounter    *cache.LiveCounter
	logger         zerolog.Logger
}

// NewAttendanceService creates a new AttendanceService
func NewAttendanceService(
	sessionRepo repositories.ISessionRepository,
	attendanceRepo repositories.IAttendanceRepository,
	signer *qrtoken.Signer,
	liveCounter *cache.LiveCounter,
	logger zerolog.Logger,
) *AttendanceService {
	return &AttendanceService{
		sessionRepo:    sessionRepo,
		attendanceRepo: attendanceRepo,
		signer:         signer,
		liveCounter:    liveCounter,
		logger:         logger,
	}
}

// Mark verifies a scanned token and records the student's attendance. A
// repeat scan of the same session is accepted and returns the same response
// without creating a second record. The stored session window, not the
// token's embedded expiry, decides whether the session is still open.
func (s *AttendanceService) Mark(ctx context.Context, studentID int64, token string) (*dto.MarkAttendanceResponse, error) {
	claims, err := s.signer.Verify(token)
	if err != nil {
		if errors.Is(err, qrtoken.ErrExpired) {
			metrics.AttendanceRejected.WithLabelValues("token_expired").Inc()
			return nil, apperrors.ErrQRTokenExpired
		}
		metrics.AttendanceRejected.WithLabelValues("token_invalid").Inc()
		return nil, apperrors.ErrQRTokenInvalid
	}

	session, err := s.sessionRepo.GetByID(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrSessionNotFound) {
			metrics.AttendanceRejected.WithLabelValues("session_not_found").Inc()
		}
		return nil, err
	}
	if !session.IsOpen(time.Now()) {
		metrics.AttendanceRejected.WithLabelValues("session_closed").Inc()
		return nil, apperrors.ErrSessionClosed
	}

	record := &models.AttendanceRecord{
		SessionID: session.ID,
		StudentID: studentID,
		Status:    models.StatusPresent,
		MarkedAt:  time.Now(),
	}
	created, err := s.attendanceRepo.Mark(ctx, record)
	if err != nil {
		return nil, err
	}
	if created {
		metrics.AttendanceMarked.Inc()
		s.liveCounter.Incr(ctx, session.ID)
		s.logger.Info().
			Str("sessionId", session.ID).
			Int64("studentId", studentID).
			Str("courseCode", session.CourseCode).
			Msg("Attendance marked")
	}

	attended, err := s.attendanceRepo.CountForStudentCourse(ctx, studentID, session.CourseCode)
	if err != nil {
		return nil, err
	}
	total, err := s.sessionRepo.CountByCourse(ctx, session.CourseCode)
	if err != nil {
		return nil, err
	}

	return &dto.MarkAttendanceResponse{
		SessionID:  session.ID,
		CourseCode: session.CourseCode,
		Attended:   attended,
		Total:      total,
		Percentage: percentage(attended, total),
	}, nil
}

// StatsForStudent computes the student's standing in every course they have
// records in.
func (s *AttendanceService) StatsForStudent(ctx context.Context, studentID int64) (*dto.StudentStatsResponse, error) {
	courses, err := s.attendanceRepo.CoursesForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	stats := make([]dto.CourseStats, 0, len(courses))
	for _, code := range courses {
		attended, err := s.attendanceRepo.CountForStudentCourse(ctx, studentID, code)
		if err != nil {
			return nil, err
		}
		total, err := s.sessionRepo.CountByCourse(ctx, code)
		if err != nil {
			return nil, err
		}
		stats = append(stats, dto.CourseStats{
			CourseCode: code,
			Attended:   attended,
			Total:      total,
			Percentage: percentage(attended, total),
		})
	}

	return &dto.StudentStatsResponse{StudentID: studentID, Courses: stats}, nil
}

// History retrieves a page of the student's attendance records, newest first.
func (s *AttendanceService) History(ctx context.Context, studentID int64, page, pageSize int) (*dto.HistoryResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	entries, err := s.attendanceRepo.HistoryForStudent(ctx, studentID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	payload := make([]dto.HistoryEntryPayload, 0, len(entries))
	for _, e := range entries {
		payload = append(payload, dto.HistoryEntryPayload{
			RecordID:    e.RecordID,
			CourseCode:  e.CourseCode,
			SessionDate: e.SessionDate,
			MarkedAt:    e.MarkedAt,
			Status:      string(e.Status),
		})
	}

	return &dto.HistoryResponse{
		StudentID: studentID,
		Page:      page,
		PageSize:  pageSize,
		Entries:   payload,
	}, nil
}

// percentage rounds attended/total to the nearest whole percent.
func percentage(attended, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(attended) / float64(total) * 100))
}
