package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/seyi/unimark/internal/app/models"
	"github.com/seyi/unimark/internal/pkg/apperrors"
	"github.com/seyi/unimark/internal/pkg/dberrors"
)

// IUserRepository defines the interface for user-related database operations
type IUserRepository interface {
	CreateLecturer(ctx context.Context, user *models.User, lecturer *models.Lecturer) error
	CreateStudent(ctx context.Context, user *models.User, student *models.Student) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	GetLecturerByID(ctx context.Context, id int64) (*models.Lecturer, error)
	GetLecturerByUserID(ctx context.Context, userID int64) (*models.Lecturer, error)
	GetStudentByID(ctx context.Context, id int64) (*models.Student, error)
	GetStudentByUserID(ctx context.Context, userID int64) (*models.Student, error)
}

// UserRepository handles database operations for users and their role profiles
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// CreateLecturer inserts a user and its lecturer profile in one transaction.
func (r *UserRepository) CreateLecturer(ctx context.Context, user *models.User, lecturer *models.Lecturer) error {
	return r.createWithProfile(ctx, user, func(ctx context.Context, tx pgx.Tx) error {
		query := `
			INSERT INTO lecturers (user_id, staff_id, courses)
			VALUES ($1, $2, $3)
			RETURNING id
		`
		err := tx.QueryRow(ctx, query, user.ID, lecturer.StaffID, lecturer.Courses).Scan(&lecturer.ID)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, "lecturers_staff_id_key") {
				return apperrors.ErrStaffIDExists
			}
			return fmt.Errorf("error creating lecturer profile: %w", err)
		}
		lecturer.UserID = user.ID
		return nil
	})
}

// CreateStudent inserts a user and its student profile in one transaction.
func (r *UserRepository) CreateStudent(ctx context.Context, user *models.User, student *models.Student) error {
	return r.createWithProfile(ctx, user, func(ctx context.Context, tx pgx.Tx) error {
		query := `
			INSERT INTO students (user_id, matric_no, level)
			VALUES ($1, $2, $3)
			RETURNING id
		`
		err := tx.QueryRow(ctx, query, user.ID, student.MatricNo, student.Level).Scan(&student.ID)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, "students_matric_no_key") {
				return apperrors.ErrMatricNoExists
			}
			return fmt.Errorf("error creating student profile: %w", err)
		}
		student.UserID = user.ID
		return nil
	})
}

// createWithProfile inserts the user row, then hands the open transaction to
// the profile insert. Either both rows land or neither does.
func (r *UserRepository) createWithProfile(ctx context.Context, user *models.User, insertProfile func(context.Context, pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO users (email, password, name, role, department)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err = tx.QueryRow(ctx, query,
		user.Email,
		user.Password,
		user.Name,
		user.Role,
		user.Department,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error creating user: %w", err)
	}

	if err := insertProfile(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing user creation: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by email
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, password, name, role, department, created_at
		FROM users
		WHERE email = $1
	`

	var user models.User
	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.Password,
		&user.Name,
		&user.Role,
		&user.Department,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user by email: %w", err)
	}

	return &user, nil
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT id, email, password, name, role, department, created_at
		FROM users
		WHERE id = $1
	`

	var user models.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.Password,
		&user.Name,
		&user.Role,
		&user.Department,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user by ID: %w", err)
	}

	return &user, nil
}

// EmailExists checks if an email already exists
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking email existence: %w", err)
	}
	return exists, nil
}

// GetLecturerByID retrieves a lecturer profile with its user by profile ID.
func (r *UserRepository) GetLecturerByID(ctx context.Context, id int64) (*models.Lecturer, error) {
	return r.getLecturer(ctx, "l.id = $1", id)
}

// GetLecturerByUserID retrieves a lecturer profile with its user by user ID.
func (r *UserRepository) GetLecturerByUserID(ctx context.Context, userID int64) (*models.Lecturer, error) {
	return r.getLecturer(ctx, "l.user_id = $1", userID)
}

func (r *UserRepository) getLecturer(ctx context.Context, where string, arg any) (*models.Lecturer, error) {
	query := `
		SELECT l.id, l.user_id, l.staff_id, l.courses,
			u.id, u.email, u.name, u.role, u.department, u.created_at
		FROM lecturers l
		JOIN users u ON u.id = l.user_id
		WHERE ` + where

	var lecturer models.Lecturer
	var user models.User
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&lecturer.ID,
		&lecturer.UserID,
		&lecturer.StaffID,
		&lecturer.Courses,
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Role,
		&user.Department,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLecturerNotFound
		}
		return nil, fmt.Errorf("error retrieving lecturer: %w", err)
	}

	lecturer.User = &user
	return &lecturer, nil
}

// GetStudentByID retrieves a student profile with its user by profile ID.
func (r *UserRepository) GetStudentByID(ctx context.Context, id int64) (*models.Student, error) {
	return r.getStudent(ctx, "s.id = $1", id)
}

// GetStudentByUserID retrieves a student profile with its user by user ID.
func (r *UserRepository) GetStudentByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	return r.getStudent(ctx, "s.user_id = $1", userID)
}

func (r *UserRepository) getStudent(ctx context.Context, where string, arg any) (*models.Student, error) {
	query := `
		SELECT s.id, s.user_id, s.matric_no, s.level,
			u.id, u.email, u.name, u.role, u.department, u.created_at
		FROM students s
		JOIN users u ON u.id = s.user_id
		WHERE ` + where

	var student models.Student
	var user models.User
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&student.ID,
		&student.UserID,
		&student.MatricNo,
		&student.Level,
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Role,
		&user.Department,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	student.User = &user
	return &student, nil
}
