package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/seyi/unimark/internal/app/models/dto"
	"github.com/seyi/unimark/internal/pkg/apperrors"
	"github.com/seyi/unimark/internal/pkg/auth"
)

func newAuthService() (*AuthService, *fakeUserRepo) {
	userRepo := newFakeUserRepo()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-login-secret",
		AccessTokenExp: 24 * time.Hour,
		TokenIssuer:    "unimark.test",
	})
	return NewAuthService(userRepo, jwtService, zerolog.Nop()), userRepo
}

func studentRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Email:      "ada@uni.test",
		Password:   "Password123!",
		Name:       "Ada Obi",
		Role:       "STUDENT",
		Department: "Computer Science",
		MatricNo:   "CSC/2021/044",
		Level:      "300",
	}
}

func lecturerRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Email:      "dike@uni.test",
		Password:   "Password123!",
		Name:       "Dr. Dike",
		Role:       "LECTURER",
		Department: "Computer Science",
		StaffID:    "STF-0042",
		Courses:    []string{"csc101", "CSC101", " csc102 "},
	}
}

func TestRegisterStudent(t *testing.T) {
	svc, userRepo := newAuthService()

	resp, err := svc.Register(context.Background(), studentRequest())
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if resp.Token == "" {
		t.Error("no token issued")
	}
	if resp.User.Role != "STUDENT" || resp.User.MatricNo != "CSC/2021/044" {
		t.Errorf("unexpected profile: %+v", resp.User)
	}
	if len(userRepo.students) != 1 {
		t.Errorf("student count = %d, want 1", len(userRepo.students))
	}
}

func TestRegisterLecturerNormalizesCourses(t *testing.T) {
	svc, _ := newAuthService()

	resp, err := svc.Register(context.Background(), lecturerRequest())
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	courses := resp.User.Courses
	if len(courses) != 2 || courses[0] != "CSC101" || courses[1] != "CSC102" {
		t.Errorf("courses = %v, want [CSC101 CSC102]", courses)
	}
}

func TestRegisterRoleFieldValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.RegisterRequest)
	}{
		{
			name:   "student without matric number",
			mutate: func(r *dto.RegisterRequest) { r.Role = "STUDENT"; r.MatricNo = "" },
		},
		{
			name:   "student without level",
			mutate: func(r *dto.RegisterRequest) { r.Role = "STUDENT"; r.Level = "" },
		},
		{
			name:   "lecturer without staff ID",
			mutate: func(r *dto.RegisterRequest) { r.StaffID = "" },
		},
		{
			name:   "lecturer without courses",
			mutate: func(r *dto.RegisterRequest) { r.Courses = nil },
		},
		{
			name:   "lecturer with only blank courses",
			mutate: func(r *dto.RegisterRequest) { r.Courses = []string{"", "  "} },
		},
		{
			name:   "unknown role",
			mutate: func(r *dto.RegisterRequest) { r.Role = "ADMIN" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, userRepo := newAuthService()
			req := lecturerRequest()
			if tt.name == "student without matric number" || tt.name == "student without level" {
				req = studentRequest()
			}
			tt.mutate(req)

			_, err := svc.Register(context.Background(), req)
			if !errors.Is(err, apperrors.ErrBadRequest) {
				t.Errorf("Register error = %v, want ErrBadRequest", err)
			}
			if len(userRepo.users) != 0 {
				t.Error("user created despite invalid request")
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, studentRequest()); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}
	if _, err := svc.Register(ctx, studentRequest()); !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		t.Errorf("duplicate Register error = %v, want ErrEmailAlreadyExists", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, studentRequest()); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "ada@uni.test", Password: "Password123!"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if resp.Token == "" || resp.User.MatricNo != "CSC/2021/044" {
		t.Errorf("unexpected login response: %+v", resp.User)
	}

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "ada@uni.test", Password: "wrong"})
	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("bad password error = %v, want ErrInvalidCredentials", err)
	}

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "ghost@uni.test", Password: "Password123!"})
	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v, want ErrInvalidCredentials", err)
	}
}
