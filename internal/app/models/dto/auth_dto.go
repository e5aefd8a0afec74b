package dto

// RegisterRequest represents the payload for user registration.
// Lecturers must supply a staff ID and at least one course code;
// students must supply a matric number and level.
type RegisterRequest struct {
	Email      string   `json:"email" binding:"required,email" example:"ada@uni.edu"`
	Password   string   `json:"password" binding:"required,min=8" example:"Password123!"`
	Name       string   `json:"name" binding:"required" example:"Ada Obi"`
	Role       string   `json:"role" binding:"required,oneof=STUDENT LECTURER" example:"STUDENT"`
	Department string   `json:"department" binding:"required" example:"Computer Science"`
	StaffID    string   `json:"staffId,omitempty" example:"STF-0042"`
	Courses    []string `json:"courses,omitempty" example:"CSC101,CSC102"`
	MatricNo   string   `json:"matricNo,omitempty" example:"CSC/2021/044"`
	Level      string   `json:"level,omitempty" example:"300"`
}

// LoginRequest represents the payload for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"ada@uni.edu"`
	Password string `json:"password" binding:"required" example:"Password123!"`
}

// AuthResponse is returned by both register and login.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expiresIn" example:"86400"`
	User      *UserProfile `json:"user"`
}

// UserProfile is the public view of an authenticated user.
type UserProfile struct {
	ID         int64    `json:"id" example:"1"`
	Email      string   `json:"email" example:"ada@uni.edu"`
	Name       string   `json:"name" example:"Ada Obi"`
	Role       string   `json:"role" example:"STUDENT"`
	Department string   `json:"department" example:"Computer Science"`
	ProfileID  int64    `json:"profileId" example:"1"`
	StaffID    string   `json:"staffId,omitempty"`
	Courses    []string `json:"courses,omitempty"`
	MatricNo   string   `json:"matricNo,omitempty"`
	Level      string   `json:"level,omitempty"`
}
