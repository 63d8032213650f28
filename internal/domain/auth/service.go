package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/focalfinder/focalfinder-api/internal/domain/user"
	"github.com/focalfinder/focalfinder-api/internal/pkg/jwt"
	"github.com/focalfinder/focalfinder-api/internal/pkg/password"
)

// Service handles authentication business logic
type Service struct {
	userRepo   user.Repository
	jwtService *jwt.Service
	hasher     *password.Hasher
	refresh    RefreshStore
	now        func() time.Time
}

// NewService creates auth service
func NewService(userRepo user.Repository, jwtService *jwt.Service, hasher *password.Hasher, refresh RefreshStore) *Service {
	return &Service{
		userRepo:   userRepo,
		jwtService: jwtService,
		hasher:     hasher,
		refresh:    refresh,
		now:        time.Now,
	}
}

// Signup creates new user account
func (s *Service) Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)

	if !user.IsValidRole(req.Role) {
		return nil, ErrInvalidRole
	}

	// 1. Check if email exists
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	// 2. Hash password
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	// 3. Create user
	now := s.now().UTC()
	u := &user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    normalizeName(req.FirstName),
		LastName:     normalizeName(req.LastName),
		Role:         user.Role(req.Role),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if specialty := normalizeName(req.Specialty); specialty != "" {
		u.Specialty = sql.NullString{String: specialty, Valid: true}
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		// Lost a race with a concurrent signup for the same address.
		if errors.Is(err, user.ErrEmailTaken) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	// 4. Generate tokens
	return s.generateTokens(ctx, u)
}

// Login authenticates user
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	u, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}
	if u == nil || !s.hasher.Verify(req.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokens(ctx, u)
}

// Refresh rotates a refresh token and issues a new token pair
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	if refreshToken == "" {
		return nil, ErrRefreshTokenRequired
	}

	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	// Consuming deletes the old token so it cannot be replayed.
	userID, err := s.refresh.Consume(ctx, jwt.HashRefreshToken(refreshToken))
	if err != nil {
		if errors.Is(err, ErrInvalidRefreshToken) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if userID != claims.UserID {
		return nil, ErrInvalidRefreshToken
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	return s.generateTokens(ctx, u)
}

// Logout invalidates refresh token
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.refresh.Delete(ctx, jwt.HashRefreshToken(refreshToken))
}

// GetCurrentUser returns current user by ID
func (s *Service) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	resp := NewUserResponse(u)
	return &resp, nil
}

// AccessTTL is the lifetime of issued access tokens, used for the session cookie.
func (s *Service) AccessTTL() time.Duration {
	return s.jwtService.AccessTTL()
}

// generateTokens creates access and refresh tokens
func (s *Service) generateTokens(ctx context.Context, u *user.User) (*AuthResponse, error) {
	access, err := s.jwtService.GenerateAccessToken(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}

	refresh, err := s.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, err
	}

	if err := s.refresh.Save(ctx, jwt.HashRefreshToken(refresh.Value), u.ID, s.jwtService.RefreshTTL()); err != nil {
		return nil, err
	}

	return &AuthResponse{
		User: NewUserResponse(u),
		Tokens: TokensResponse{
			AccessToken:  access.Value,
			RefreshToken: refresh.Value,
			ExpiresIn:    int(s.jwtService.AccessTTL().Seconds()),
			TokenType:    "Bearer",
		},
	}, nil
}
