package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/seyi/unimark/internal/app/models"
	"github.com/seyi/unimark/internal/app/models/dto"
	"github.com/seyi/unimark/internal/app/repositories"
	"github.com/seyi/unimark/internal/pkg/apperrors"
	"github.com/seyi/unimark/internal/pkg/auth"
)

// AuthService handles registration and login
type AuthService struct {
	userRepo   repositories.IUserRepository
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repositories.IUserRepository, jwtService *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Register creates a user with its role profile and returns an auth token.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	role := models.RoleType(strings.ToUpper(req.Role))
	if err := validateRoleFields(role, req); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("checking email: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Password:   hashed,
		Name:       strings.TrimSpace(req.Name),
		Role:       role,
		Department: strings.TrimSpace(req.Department),
	}

	var profileID int64
	profile := &dto.UserProfile{}

	switch role {
	case models.RoleLecturer:
		lecturer := &models.Lecturer{
			StaffID: strings.TrimSpace(req.StaffID),
			Courses: normalizeCourses(req.Courses),
		}
		if err := s.userRepo.CreateLecturer(ctx, user, lecturer); err != nil {
			return nil, err
		}
		profileID = lecturer.ID
		profile.StaffID = lecturer.StaffID
		profile.Courses = lecturer.Courses
	case models.RoleStudent:
		student := &models.Student{
			MatricNo: strings.TrimSpace(req.MatricNo),
			Level:    strings.TrimSpace(req.Level),
		}
		if err := s.userRepo.CreateStudent(ctx, user, student); err != nil {
			return nil, err
		}
		profileID = student.ID
		profile.MatricNo = student.MatricNo
		profile.Level = student.Level
	}

	s.logger.Info().
		Str("email", user.Email).
		Str("role", string(role)).
		Int64("userId", user.ID).
		Msg("User registered")

	token, expiresIn, err := s.jwtService.GenerateToken(user, profileID)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	fillProfile(profile, user, profileID)
	return &dto.AuthResponse{Token: token, ExpiresIn: expiresIn, User: profile}, nil
}

// Login authenticates a user by email and password.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		s.logger.Warn().Str("email", user.Email).Msg("Failed login attempt")
		return nil, apperrors.ErrInvalidCredentials
	}

	profile := &dto.UserProfile{}
	var profileID int64

	switch user.Role {
	case models.RoleLecturer:
		lecturer, err := s.userRepo.GetLecturerByUserID(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		profileID = lecturer.ID
		profile.StaffID = lecturer.StaffID
		profile.Courses = lecturer.Courses
	case models.RoleStudent:
		student, err := s.userRepo.GetStudentByUserID(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		profileID = student.ID
		profile.MatricNo = student.MatricNo
		profile.Level = student.Level
	}

	token, expiresIn, err := s.jwtService.GenerateToken(user, profileID)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	fillProfile(profile, user, profileID)
	return &dto.AuthResponse{Token: token, ExpiresIn: expiresIn, User: profile}, nil
}

// validateRoleFields enforces the role-specific registration fields.
func validateRoleFields(role models.RoleType, req *dto.RegisterRequest) error {
	switch role {
	case models.RoleLecturer:
		if strings.TrimSpace(req.StaffID) == "" {
			return apperrors.NewBadRequestError("staffId is required for lecturer registration")
		}
		if len(normalizeCourses(req.Courses)) == 0 {
			return apperrors.NewBadRequestError("at least one course code is required for lecturer registration")
		}
	case models.RoleStudent:
		if strings.TrimSpace(req.MatricNo) == "" {
			return apperrors.NewBadRequestError("matricNo is required for student registration")
		}
		if strings.TrimSpace(req.Level) == "" {
			return apperrors.NewBadRequestError("level is required for student registration")
		}
	default:
		return apperrors.NewBadRequestError("role must be STUDENT or LECTURER")
	}
	return nil
}

// normalizeCourses trims, uppercases and de-duplicates course codes.
func normalizeCourses(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	var out []string
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}

func fillProfile(profile *dto.UserProfile, user *models.User, profileID int64) {
	profile.ID = user.ID
	profile.Email = user.Email
	profile.Name = user.Name
	profile.Role = string(user.Role)
	profile.Department = user.Department
	profile.ProfileID = profileID
}
