package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/focalfinder/focalfinder-api/internal/domain/user"
)

// SignupRequest for POST /auth/signup
type SignupRequest struct {
	FirstName string `json:"firstName" validate:"required,notblank,max=100"`
	LastName  string `json:"lastName" validate:"required,notblank,max=100"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	Role      string `json:"role" validate:"required,role"`
	Specialty string `json:"specialty" validate:"omitempty,max=100"`
}

// LoginRequest for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest for POST /auth/refresh and /auth/logout
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// AuthResponse returned after login/signup
type AuthResponse struct {
	User   UserResponse   `json:"user"`
	Tokens TokensResponse `json:"tokens"`
}

// UserResponse represents user in API response
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      string    `json:"role"`
	Specialty *string   `json:"specialty,omitempty"`
	CreatedAt string    `json:"createdAt"`
}

// TokensResponse represents tokens in API response
type TokensResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"` // seconds until access token expires
	TokenType    string `json:"tokenType"`
}

// NewUserResponse creates UserResponse from a user
func NewUserResponse(u *user.User) UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
	if u.Specialty.Valid {
		resp.Specialty = &u.Specialty.String
	}
	return resp
}
