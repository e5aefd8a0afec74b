// Package seed creates demo accounts for development environments.
package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	appModels "github.com/seyi/unimark/internal/app/models"
	appRepos "github.com/seyi/unimark/internal/app/repositories"
	"github.com/seyi/unimark/internal/pkg/apperrors"
	"github.com/seyi/unimark/internal/pkg/auth"
)

// CreateDefaultData creates a demo lecturer and student if they don't exist.
// Safe to run on every startup.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating demo accounts...")

	password, err := auth.HashPassword("Password123!")
	if err != nil {
		return err
	}

	var finalErr error

	lecturerUser := &appModels.User{
		Email:      "lecturer@unimark.dev",
		Password:   password,
		Name:       "Demo Lecturer",
		Role:       appModels.RoleLecturer,
		Department: "Computer Science",
	}
	lecturer := &appModels.Lecturer{
		StaffID: "STF-0001",
		Courses: []string{"CSC101", "CSC102"},
	}
	err = userRepo.CreateLecturer(ctx, lecturerUser, lecturer)
	if err != nil && !isAlreadySeeded(err) {
		lgr.Error().Err(err).Msg("Error creating demo lecturer")
		finalErr = errors.Join(finalErr, err)
	}

	studentUser := &appModels.User{
		Email:      "student@unimark.dev",
		Password:   password,
		Name:       "Demo Student",
		Role:       appModels.RoleStudent,
		Department: "Computer Science",
	}
	student := &appModels.Student{
		MatricNo: "CSC/2021/001",
		Level:    "300",
	}
	err = userRepo.CreateStudent(ctx, studentUser, student)
	if err != nil && !isAlreadySeeded(err) {
		lgr.Error().Err(err).Msg("Error creating demo student")
		finalErr = errors.Join(finalErr, err)
	}

	return finalErr
}

func isAlreadySeeded(err error) bool {
	return errors.Is(err, apperrors.ErrEmailAlreadyExists) ||
		errors.Is(err, apperrors.ErrStaffIDExists) ||
		errors.Is(err, apperrors.ErrMatricNoExists)
}
