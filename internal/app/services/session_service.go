package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/seyi/unimark/internal/app/models"
	"github.com/seyi/unimark/internal/app/models/dto"
	"github.com/seyi/unimark/internal/app/repositories"
	"github.com/seyi/unimark/internal/cache"
	"github.com/seyi/unimark/internal/pkg/apperrors"
	"github.com/seyi/unimark/internal/pkg/metrics"
	"github.com/seyi/unimark/internal/pkg/qrtoken"
	qrcode "github.com/skip2/go-qrcode"
)

// SessionService handles the lifecycle of attendance sessions
type SessionService struct {
	sessionRepo    repositories.ISessionRepository
	attendanceRepo repositories.IAttendanceRepository
	userRepo       repositories.IUserRepository
	signer         *qrtoken.Signer
	liveCounter    *cache.LiveCounter
	logger         zerolog.Logger
}

// NewSessionService creates a new SessionService
func NewSessionService(
	sessionRepo repositories.ISessionRepository,
	attendanceRepo repositories.IAttendanceRepository,
	userRepo repositories.IUserRepository,
	signer *qrtoken.Signer,
	liveCounter *cache.LiveCounter,
	logger zerolog.Logger,
) *SessionService {
	return &SessionService{
		sessionRepo:    sessionRepo,
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
		signer:         signer,
		liveCounter:    liveCounter,
		logger:         logger,
	}
}

// Open starts a time-boxed attendance session for one of the lecturer's
// courses and returns the signed QR token students will scan.
func (s *SessionService) Open(ctx context.Context, lecturerID int64, courseCode string) (*models.AttendanceSession, error) {
	courseCode = strings.ToUpper(strings.TrimSpace(courseCode))
	lecturer, err := s.userRepo.GetLecturerByID(ctx, lecturerID)
	if err != nil {
		return nil, err
	}
	if !lecturer.HasCourse(courseCode) {
		return nil, apperrors.ErrCourseNotAssigned
	}

	sessionID := uuid.New().String()
	token, expiresAt, err := s.signer.Sign(sessionID, lecturerID, courseCode)
	if err != nil {
		return nil, fmt.Errorf("signing session token: %w", err)
	}

	session := &models.AttendanceSession{
		ID:         sessionID,
		CourseCode: courseCode,
		LecturerID: lecturerID,
		QRToken:    token,
		StartTime:  time.Now(),
		EndTime:    expiresAt,
		IsActive:   true,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	metrics.SessionsOpened.Inc()
	s.logger.Info().
		Str("sessionId", sessionID).
		Str("courseCode", courseCode).
		Int64("lecturerId", lecturerID).
		Time("endTime", expiresAt).
		Msg("Attendance session opened")

	return session, nil
}

// Close ends a session early. Only the owning lecturer may close it.
func (s *SessionService) Close(ctx context.Context, lecturerID int64, sessionID string) error {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.LecturerID != lecturerID {
		return apperrors.ErrPermissionDenied
	}

	if err := s.sessionRepo.Close(ctx, sessionID); err != nil {
		return err
	}
	s.liveCounter.Forget(ctx, sessionID)

	s.logger.Info().Str("sessionId", sessionID).Msg("Attendance session closed")
	return nil
}

// CloseExpired deactivates every session whose window has passed.
func (s *SessionService) CloseExpired(ctx context.Context) (int64, error) {
	closed, err := s.sessionRepo.CloseExpired(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if closed > 0 {
		s.logger.Info().Int64("closed", closed).Msg("Expired sessions deactivated")
	}
	return closed, nil
}

// List retrieves a lecturer's sessions newest first.
func (s *SessionService) List(ctx context.Context, lecturerID int64, limit, offset int) ([]*models.SessionSummary, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.sessionRepo.ListByLecturer(ctx, lecturerID, limit, offset)
}

// LiveCount returns how many students have marked so far. The cached counter
// is preferred; storage is the fallback when the cache has no entry.
func (s *SessionService) LiveCount(ctx context.Context, lecturerID int64, sessionID string) (int64, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	if session.LecturerID != lecturerID {
		return 0, apperrors.ErrPermissionDenied
	}

	if count, ok := s.liveCounter.Get(ctx, sessionID); ok {
		return count, nil
	}
	return s.attendanceRepo.CountBySession(ctx, sessionID)
}

// QRImage renders the session's token as a PNG for projection.
func (s *SessionService) QRImage(ctx context.Context, lecturerID int64, sessionID string, size int) ([]byte, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.LecturerID != lecturerID {
		return nil, apperrors.ErrPermissionDenied
	}
	if !session.IsOpen(time.Now()) {
		return nil, apperrors.ErrSessionClosed
	}

	if size <= 0 || size > 1024 {
		size = 512
	}
	png, err := qrcode.Encode(session.QRToken, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encoding QR image: %w", err)
	}
	return png, nil
}

// BuildSessionResponse converts a session to its API representation.
func BuildSessionResponse(session *models.AttendanceSession, attendeeCount int64) *dto.SessionResponse {
	return &dto.SessionResponse{
		ID:            session.ID,
		CourseCode:    session.CourseCode,
		LecturerID:    session.LecturerID,
		StartTime:     session.StartTime,
		EndTime:       session.EndTime,
		IsActive:      session.IsActive,
		AttendeeCount: attendeeCount,
	}
}
