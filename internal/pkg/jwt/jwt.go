package jwt

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	issuer = "focalfinder-api"
)

// Claims are carried by both token types. Role is empty on refresh tokens.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role,omitempty"`
	Type   string    `json:"type"`
	jwt.RegisteredClaims
}

// Token is a signed token together with its id and expiry.
type Token struct {
	Value     string
	ID        string
	ExpiresAt time.Time
}

// Service issues and verifies HS256 tokens.
type Service struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewService creates JWT service
func NewService(secret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// GenerateAccessToken issues an access token for the user and role.
func (s *Service) GenerateAccessToken(userID uuid.UUID, role string) (*Token, error) {
	return s.issue(userID, role, TokenTypeAccess, s.accessTTL)
}

// GenerateRefreshToken issues a refresh token for the user.
func (s *Service) GenerateRefreshToken(userID uuid.UUID) (*Token, error) {
	return s.issue(userID, "", TokenTypeRefresh, s.refreshTTL)
}

func (s *Service) issue(userID uuid.UUID, role, tokenType string, ttl time.Duration) (*Token, error) {
	now := s.now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		Type:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &Token{Value: signed, ID: claims.ID, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// ValidateAccessToken validates and parses access token
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.parse(tokenString, TokenTypeAccess)
}

// ValidateRefreshToken validates and parses refresh token
func (s *Service) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return s.parse(tokenString, TokenTypeRefresh)
}

func (s *Service) parse(tokenString, tokenType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Type != tokenType || claims.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// HashRefreshToken hashes refresh token for storage
func HashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (s *Service) AccessTTL() time.Duration  { return s.accessTTL }
func (s *Service) RefreshTTL() time.Duration { return s.refreshTTL }
