package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/seyi/unimark/internal/cache"
	"github.com/seyi/unimark/internal/pkg/apperrors"
	"github.com/seyi/unimark/internal/pkg/qrtoken"
)

func newTestStack(t *testing.T) (*SessionService, *AttendanceService, *fakeUserRepo, *fakeSessionRepo, *fakeAttendanceRepo) {
	t.Helper()
	userRepo := newFakeUserRepo()
	sessionRepo := newFakeSessionRepo()
	attendanceRepo := newFakeAttendanceRepo(sessionRepo)
	signer := qrtoken.NewSigner("test-scan-secret", 15*time.Minute, "unimark.test")
	counter := cache.NewLiveCounter(nil)
	nop := zerolog.Nop()

	sessionSvc := NewSessionService(sessionRepo, attendanceRepo, userRepo, signer, counter, nop)
	attendanceSvc := NewAttendanceService(sessionRepo, attendanceRepo, signer, counter, nop)
	return sessionSvc, attendanceSvc, userRepo, sessionRepo, attendanceRepo
}

func TestMarkCreatesRecordAndComputesStats(t *testing.T) {
	ctx := context.Background()
	sessionSvc, attendanceSvc, userRepo, _, attendanceRepo := newTestStack(t)
	lecturer := userRepo.addLecturer("STF-0001", "CSC101")

	session, err := sessionSvc.Open(ctx, lecturer.ID, "CSC101")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	resp, err := attendanceSvc.Mark(ctx, 42, session.QRToken)
	if err != nil {
		t.Fatalf("Mark returned error: %v", err)
	}

	if resp.CourseCode != "CSC101" {
		t.Errorf("CourseCode = %q, want CSC101", resp.CourseCode)
	}
	if resp.Attended != 1 || resp.Total != 1 || resp.Percentage != 100 {
		t.Errorf("stats = %d/%d (%d%%), want 1/1 (100%%)", resp.Attended, resp.Total, resp.Percentage)
	}
	if len(attendanceRepo.records) != 1 {
		t.Errorf("record count = %d, want 1", len(attendanceRepo.records))
	}
}

func TestMarkIsIdempotentForRepeatScans(t *testing.T) {
	ctx := context.Background()
	sessionSvc, attendanceSvc, userRepo, _, attendanceRepo := newTestStack(t)
	lecturer := userRepo.addLecturer("STF-0001", "CSC101")

	session, err := sessionSvc.Open(ctx, lecturer.ID, "CSC101")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	first, err := attendanceSvc.Mark(ctx, 42, session.QRToken)
	if err != nil {
		t.Fatalf("first Mark returned error: %v", err)
	}
	second, err := attendanceSvc.Mark(ctx, 42, session.QRToken)
	if err != nil {
		t.Fatalf("repeat Mark returned error: %v", err)
	}

	if len(attendanceRepo.records) != 1 {
		t.Errorf("record count after repeat scan = %d, want 1", len(attendanceRepo.records))
	}
	if first.Percentage != second.Percentage || first.Attended != second.Attended {
		t.Errorf("repeat scan changed stats: %+v vs %+v", first, second)
	}
}

func TestMarkFailsWhenSessionClosed(t *testing.T) {
	ctx := context.Background()
	sessionSvc, attendanceSvc, userRepo, sessionRepo, attendanceRepo := newTestStack(t)
	lecturer := userRepo.addLecturer("STF-0001", "CSC101")

	session, err := sessionSvc.Open(ctx, lecturer.ID, "CSC101")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	tests := []struct {
		name  string
		setup func()
	}{
		{
			name:  "manually closed",
			setup: func() { sessionRepo.sessions[session.ID].IsActive = false },
		},
		{
			name: "window passed",
			setup: func() {
				sessionRepo.sessions[session.ID].IsActive = true
				sessionRepo.sessions[session.ID].EndTime = time.Now().Add(-time.Minute)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			_, err := attendanceSvc.Mark(ctx, 42, session.QRToken)
			if !errors.Is(err, apperrors.ErrSessionClosed) {
				t.Errorf("Mark error = %v, want ErrSessionClosed", err)
			}
			if len(attendanceRepo.records) != 0 {
				t.Errorf("record created for closed session")
			}
		})
	}
}

func TestMarkRejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	_, attendanceSvc, _, _, _ := newTestStack(t)

	expiredSigner := qrtoken.NewSigner("test-scan-secret", -time.Minute, "unimark.test")
	expiredToken, _, err := expiredSigner.Sign("some-session", 1, "CSC101")
	if err != nil {
		t.Fatalf("signing expired token: %v", err)
	}

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{name: "garbage", token: "not.a.token", want: apperrors.ErrQRTokenInvalid},
		{name: "expired", token: expiredToken, want: apperrors.ErrQRTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := attendanceSvc.Mark(ctx, 42, tt.token)
			if !errors.Is(err, tt.want) {
				t.Errorf("Mark error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMarkUnknownSession(t *testing.T) {
	ctx := context.Background()
	_, attendanceSvc, _, _, _ := newTestStack(t)

	signer := qrtoken.NewSigner("test-scan-secret", 15*time.Minute, "unimark.test")
	token, _, err := signer.Sign("ghost-session", 1, "CSC101")
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}

	if _, err := attendanceSvc.Mark(ctx, 42, token); !errors.Is(err, apperrors.ErrSessionNotFound) {
		t.Errorf("Mark error = %v, want ErrSessionNotFound", err)
	}
}

func TestStatsForStudentAcrossCourses(t *testing.T) {
	ctx := context.Background()
	sessionSvc, attendanceSvc, userRepo, _, _ := newTestStack(t)
	lecturer := userRepo.addLecturer("STF-0001", "CSC101", "CSC102")

	// three CSC101 sessions, student attends two
	var tokens []string
	for i := 0; i < 3; i++ {
		session, err := sessionSvc.Open(ctx, lecturer.ID, "CSC101")
		if err != nil {
			t.Fatalf("Open returned error: %v", err)
		}
		tokens = append(tokens, session.QRToken)
	}
	for _, token := range tokens[:2] {
		if _, err := attendanceSvc.Mark(ctx, 42, token); err != nil {
			t.Fatalf("Mark returned error: %v", err)
		}
	}

	resp, err := attendanceSvc.StatsForStudent(ctx, 42)
	if err != nil {
		t.Fatalf("StatsForStudent returned error: %v", err)
	}
	if len(resp.Courses) != 1 {
		t.Fatalf("course count = %d, want 1", len(resp.Courses))
	}

	cs := resp.Courses[0]
	if cs.CourseCode != "CSC101" || cs.Attended != 2 || cs.Total != 3 {
		t.Errorf("stats = %+v, want CSC101 2/3", cs)
	}
	if cs.Percentage != 67 {
		t.Errorf("Percentage = %d, want 67", cs.Percentage)
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name     string
		attended int64
		total    int64
		want     int
	}{
		{name: "zero sessions", attended: 0, total: 0, want: 0},
		{name: "none attended", attended: 0, total: 5, want: 0},
		{name: "all attended", attended: 5, total: 5, want: 100},
		{name: "two thirds rounds up", attended: 2, total: 3, want: 67},
		{name: "one third rounds down", attended: 1, total: 3, want: 33},
		{name: "half rounds away from zero", attended: 1, total: 8, want: 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := percentage(tt.attended, tt.total); got != tt.want {
				t.Errorf("percentage(%d, %d) = %d, want %d", tt.attended, tt.total, got, tt.want)
			}
		})
	}
}
