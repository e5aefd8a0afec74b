package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/seyi/unimark/internal/app/models"
)

// IAttendanceRepository defines the interface for attendance record storage
type IAttendanceRepository interface {
	Mark(ctx context.Context, record *models.AttendanceRecord) (bool, error)
	CountBySession(ctx context.Context, sessionID string) (int64, error)
	CountForStudentCourse(ctx context.Context, studentID int64, courseCode string) (int64, error)
	CoursesForStudent(ctx context.Context, studentID int64) ([]string, error)
	HistoryForStudent(ctx context.Context, studentID int64, limit, offset int) ([]*models.HistoryEntry, error)
	RowsForSession(ctx context.Context, sessionID string) ([]*models.ReportRow, error)
}

// AttendanceRepository handles database operations for attendance records
type AttendanceRepository struct {
	db *pgxpool.Pool
}

// NewAttendanceRepository creates a new AttendanceRepository
func NewAttendanceRepository(db *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Mark records a student's attendance for a session. A student can hold at
// most one record per session; a repeat mark leaves the first row untouched.
// Returns true when a new row was inserted.
func (r *AttendanceRepository) Mark(ctx context.Context, record *models.AttendanceRecord) (bool, error) {
	query := `
		INSERT INTO attendance_records (session_id, student_id, status, marked_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id, student_id) DO NOTHING
	`

	tag, err := r.db.Exec(ctx, query,
		record.SessionID,
		record.StudentID,
		record.Status,
		record.MarkedAt,
	)
	if err != nil {
		return false, fmt.Errorf("error marking attendance: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// CountBySession returns how many students have marked for a session.
func (r *AttendanceRepository) CountBySession(ctx context.Context, sessionID string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM attendance_records WHERE session_id = $1`, sessionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting attendance for session: %w", err)
	}
	return count, nil
}

// CountForStudentCourse returns how many sessions of a course the student attended.
func (r *AttendanceRepository) CountForStudentCourse(ctx context.Context, studentID int64, courseCode string) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM attendance_records ar
		JOIN attendance_sessions s ON s.id = ar.session_id
		WHERE ar.student_id = $1 AND s.course_code = $2
	`

	var count int64
	err := r.db.QueryRow(ctx, query, studentID, courseCode).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting attendance for student: %w", err)
	}
	return count, nil
}

// CoursesForStudent returns the distinct course codes a student has records in.
func (r *AttendanceRepository) CoursesForStudent(ctx context.Context, studentID int64) ([]string, error) {
	query := `
		SELECT DISTINCT s.course_code
		FROM attendance_records ar
		JOIN attendance_sessions s ON s.id = ar.session_id
		WHERE ar.student_id = $1
		ORDER BY s.course_code
	`

	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing courses for student: %w", err)
	}
	defer rows.Close()

	var courses []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("error scanning course code: %w", err)
		}
		courses = append(courses, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course codes: %w", err)
	}

	return courses, nil
}

// HistoryForStudent retrieves a student's attendance records newest first.
func (r *AttendanceRepository) HistoryForStudent(ctx context.Context, studentID int64, limit, offset int) ([]*models.HistoryEntry, error) {
	queryBuilder := squirrel.Select(
		"ar.id", "s.course_code", "s.start_time", "ar.marked_at", "ar.status",
	).
		From("attendance_records ar").
		Join("attendance_sessions s ON s.id = ar.session_id").
		Where("ar.student_id = ?", studentID).
		OrderBy("ar.marked_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(squirrel.Dollar)

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building history query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving attendance history: %w", err)
	}
	defer rows.Close()

	var entries []*models.HistoryEntry
	for rows.Next() {
		var e models.HistoryEntry
		err := rows.Scan(&e.RecordID, &e.CourseCode, &e.SessionDate, &e.MarkedAt, &e.Status)
		if err != nil {
			return nil, fmt.Errorf("error scanning history row: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history rows: %w", err)
	}

	return entries, nil
}

// RowsForSession retrieves the report rows for a session ordered by sign-in time.
func (r *AttendanceRepository) RowsForSession(ctx context.Context, sessionID string) ([]*models.ReportRow, error) {
	query := `
		SELECT u.name, u.email, st.matric_no, u.department, ar.marked_at, ar.status
		FROM attendance_records ar
		JOIN students st ON st.id = ar.student_id
		JOIN users u ON u.id = st.user_id
		WHERE ar.session_id = $1
		ORDER BY ar.marked_at ASC
	`

	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving session report rows: %w", err)
	}
	defer rows.Close()

	var report []*models.ReportRow
	for rows.Next() {
		var row models.ReportRow
		err := rows.Scan(&row.Name, &row.Email, &row.MatricNo, &row.Department, &row.SignedInAt, &row.Status)
		if err != nil {
			return nil, fmt.Errorf("error scanning report row: %w", err)
		}
		report = append(report, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report rows: %w", err)
	}

	return report, nil
}
