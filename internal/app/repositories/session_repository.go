package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/seyi/unimark/internal/app/models"
	"github.com/seyi/unimark/internal/pkg/apperrors"
)

// ISessionRepository defines the interface for attendance session storage
type ISessionRepository interface {
	Create(ctx context.Context, session *models.AttendanceSession) error
	GetByID(ctx context.Context, id string) (*models.AttendanceSession, error)
	Close(ctx context.Context, id string) error
	CloseExpired(ctx context.Context, now time.Time) (int64, error)
	ListByLecturer(ctx context.Context, lecturerID int64, limit, offset int) ([]*models.SessionSummary, error)
	CountByCourse(ctx context.Context, courseCode string) (int64, error)
}

// SessionRepository handles database operations for attendance sessions
type SessionRepository struct {
	db *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new attendance session
func (r *SessionRepository) Create(ctx context.Context, session *models.AttendanceSession) error {
	query := `
		INSERT INTO attendance_sessions (id, course_code, lecturer_id, qr_token, start_time, end_time, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		session.ID,
		session.CourseCode,
		session.LecturerID,
		session.QRToken,
		session.StartTime,
		session.EndTime,
		session.IsActive,
	)
	if err != nil {
		return fmt.Errorf("error creating attendance session: %w", err)
	}
	return nil
}

// GetByID retrieves a session by its ID
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*models.AttendanceSession, error) {
	query := `
		SELECT id, course_code, lecturer_id, qr_token, start_time, end_time, is_active
		FROM attendance_sessions
		WHERE id = $1
	`

	var session models.AttendanceSession
	err := r.db.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.CourseCode,
		&session.LecturerID,
		&session.QRToken,
		&session.StartTime,
		&session.EndTime,
		&session.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("error retrieving session: %w", err)
	}

	return &session, nil
}

// Close marks a session inactive. Closing an already closed session is a no-op.
func (r *SessionRepository) Close(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `UPDATE attendance_sessions SET is_active = false WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error closing session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSessionNotFound
	}
	return nil
}

// CloseExpired deactivates every active session whose end time has passed
// and returns how many rows changed.
func (r *SessionRepository) CloseExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE attendance_sessions SET is_active = false WHERE is_active AND end_time < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("error closing expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListByLecturer retrieves a lecturer's sessions newest first, each with the
// number of students who marked attendance.
func (r *SessionRepository) ListByLecturer(ctx context.Context, lecturerID int64, limit, offset int) ([]*models.SessionSummary, error) {
	queryBuilder := squirrel.Select(
		"s.id", "s.course_code", "s.lecturer_id", "s.start_time", "s.end_time", "s.is_active",
		"COUNT(ar.id) AS attendee_count",
	).
		From("attendance_sessions s").
		LeftJoin("attendance_records ar ON ar.session_id = s.id").
		Where("s.lecturer_id = ?", lecturerID).
		GroupBy("s.id").
		OrderBy("s.start_time DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(squirrel.Dollar)

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building session list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing sessions: %w", err)
	}
	defer rows.Close()

	var summaries []*models.SessionSummary
	for rows.Next() {
		var s models.SessionSummary
		err := rows.Scan(
			&s.ID,
			&s.CourseCode,
			&s.LecturerID,
			&s.StartTime,
			&s.EndTime,
			&s.IsActive,
			&s.AttendeeCount,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning session row: %w", err)
		}
		summaries = append(summaries, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating session rows: %w", err)
	}

	return summaries, nil
}

// CountByCourse returns how many sessions have been held for a course.
func (r *SessionRepository) CountByCourse(ctx context.Context, courseCode string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM attendance_sessions WHERE course_code = $1`, courseCode).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting sessions for course: %w", err)
	}
	return count, nil
}
