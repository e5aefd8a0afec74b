package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/seyi/unimark/internal/pkg/apperrors"
)

func TestOpenSessionReturnsSignedToken(t *testing.T) {
	ctx := context.Background()
	sessionSvc, _, userRepo, sessionRepo, _ := newTestStack(t)
	lecturer := userRepo.addLecturer("STF-0001", "CSC101")

	session, err := sessionSvc.Open(ctx, lecturer.ID, "CSC101")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	if session.QRToken == "" {
		t.Error("session has no QR token")
	}
	if !session.IsActive {
		t.Error("new session should be active")
	}
	window := session.EndTime.Sub(session.StartTime)
	if window < 14*time.Minute || window > 16*time.Minute {
		t.Errorf("session window = %v, want ~15m", window)
	}
	if _, ok := sessionRepo.sessions[session.ID]; !ok {
		t.Error("session was not persisted")
	}
}

func TestOpenSessionForUnassignedCourse(t *testing.T) {
	ctx := context.Background()
	sessionSvc, _, userRepo, sessionRepo, _ := newTestStack(t)
	lecturer := userRepo.addLecturer("STF-0001", "CSC101")

	_, err := sessionSvc.Open(ctx, lecturer.ID, "MTH201")
	if !errors.Is(err, apperrors.ErrCourseNotAssigned) {
		t.Errorf("Open error = %v, want ErrCourseNotAssigned", err)
	}
	if len(sessionRepo.sessions) != 0 {
		t.Error("session created despite unassigned course")
	}
}

func TestCloseSessionOwnership(t *testing.T) {
	ctx := context.Background()
	sessionSvc, _, userRepo, sessionRepo, _ := newTestStack(t)
	owner := userRepo.addLecturer("STF-0001", "CSC101")
	other := userRepo.addLecturer("STF-0002", "MTH201")

	session, err := sessionSvc.Open(ctx, owner.ID, "CSC101")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	if err := sessionSvc.Close(ctx, other.ID, session.ID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("Close by non-owner error = %v, want ErrPermissionDenied", err)
	}
	if !sessionRepo.sessions[session.ID].IsActive {
		t.Error("session closed by non-owner")
	}

	if err := sessionSvc.Close(ctx, owner.ID, session.ID); err != nil {
		t.Fatalf("Close by owner returned error: %v", err)
	}
	if sessionRepo.sessions[session.ID].IsActive {
		t.Error("session still active after owner close")
	}
}

func TestCloseExpiredSweep(t *testing.T) {
	ctx := context.Background()
	sessionSvc, _, userRepo, sessionRepo, _ := newTestStack(t)
	lecturer := userRepo.addLecturer("STF-0001", "CSC101")

	stale, err := sessionSvc.Open(ctx, lecturer.ID, "CSC101")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	sessionRepo.sessions[stale.ID].EndTime = time.Now().Add(-time.Hour)

	fresh, err := sessionSvc.Open(ctx, lecturer.ID, "CSC101")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	closed, err := sessionSvc.CloseExpired(ctx)
	if err != nil {
		t.Fatalf("CloseExpired returned error: %v", err)
	}
	if closed != 1 {
		t.Errorf("closed = %d, want 1", closed)
	}
	if sessionRepo.sessions[stale.ID].IsActive {
		t.Error("stale session still active")
	}
	if !sessionRepo.sessions[fresh.ID].IsActive {
		t.Error("fresh session was closed")
	}
}

func TestLiveCountFallsBackToStorage(t *testing.T) {
	ctx := context.Background()
	sessionSvc, attendanceSvc, userRepo, _, _ := newTestStack(t)
	lecturer := userRepo.addLecturer("STF-0001", "CSC101")

	session, err := sessionSvc.Open(ctx, lecturer.ID, "CSC101")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	for studentID := int64(1); studentID <= 3; studentID++ {
		if _, err := attendanceSvc.Mark(ctx, studentID, session.QRToken); err != nil {
			t.Fatalf("Mark returned error: %v", err)
		}
	}

	count, err := sessionSvc.LiveCount(ctx, lecturer.ID, session.ID)
	if err != nil {
		t.Fatalf("LiveCount returned error: %v", err)
	}
	if count != 3 {
		t.Errorf("LiveCount = %d, want 3", count)
	}
}

func TestQRImageRequiresOpenSession(t *testing.T) {
	ctx := context.Background()
	sessionSvc, _, userRepo, sessionRepo, _ := newTestStack(t)
	lecturer := userRepo.addLecturer("STF-0001", "CSC101")

	session, err := sessionSvc.Open(ctx, lecturer.ID, "CSC101")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	png, err := sessionSvc.QRImage(ctx, lecturer.ID, session.ID, 256)
	if err != nil {
		t.Fatalf("QRImage returned error: %v", err)
	}
	if len(png) == 0 {
		t.Error("QRImage returned empty payload")
	}

	sessionRepo.sessions[session.ID].IsActive = false
	if _, err := sessionSvc.QRImage(ctx, lecturer.ID, session.ID, 256); !errors.Is(err, apperrors.ErrSessionClosed) {
		t.Errorf("QRImage on closed session error = %v, want ErrSessionClosed", err)
	}
}

func TestReportOwnership(t *testing.T) {
	ctx := context.Background()
	sessionSvc, attendanceSvc, userRepo, sessionRepo, attendanceRepo := newTestStack(t)
	owner := userRepo.addLecturer("STF-0001", "CSC101")
	other := userRepo.addLecturer("STF-0002", "MTH201")

	reportSvc := NewReportService(sessionRepo, attendanceRepo, zerolog.Nop())

	session, err := sessionSvc.Open(ctx, owner.ID, "CSC101")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if _, err := attendanceSvc.Mark(ctx, 42, session.QRToken); err != nil {
		t.Fatalf("Mark returned error: %v", err)
	}

	if _, err := reportSvc.SessionReport(ctx, other.ID, session.ID); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("report by non-owner error = %v, want ErrPermissionDenied", err)
	}

	report, err := reportSvc.SessionReport(ctx, owner.ID, session.ID)
	if err != nil {
		t.Fatalf("SessionReport returned error: %v", err)
	}
	if report.TotalPresent != 1 || len(report.Rows) != 1 {
		t.Errorf("report = %d present, %d rows, want 1/1", report.TotalPresent, len(report.Rows))
	}
	if report.CourseCode != "CSC101" {
		t.Errorf("CourseCode = %q, want CSC101", report.CourseCode)
	}
}
