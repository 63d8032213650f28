package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/focalfinder/focalfinder-api/internal/pkg/jwt"
	"github.com/focalfinder/focalfinder-api/internal/pkg/response"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	RoleKey   contextKey = "role"
)

// DefaultAuthCookie is the session cookie set by the auth endpoints.
const DefaultAuthCookie = "auth-token"

// TokenFromRequest returns the bearer token from the Authorization header,
// falling back to the session cookie.
func TokenFromRequest(r *http.Request, cookieName string) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", errors.New("invalid authorization header format")
		}
		return strings.TrimSpace(parts[1]), nil
	}

	if cookieName != "" {
		if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
			return c.Value, nil
		}
	}

	return "", errors.New("missing credentials")
}

// Auth returns middleware that validates the access token and stores the
// caller's id and role in the request context.
func Auth(jwtService *jwt.Service, cookieName string) func(http.Handler) http.Handler {
	return authenticate(jwtService, func(r *http.Request) (string, error) {
		return TokenFromRequest(r, cookieName)
	})
}

// WebSocketAuth is Auth that also accepts the token as the "token" query
// parameter. Browsers cannot set headers on a WebSocket handshake.
func WebSocketAuth(jwtService *jwt.Service, cookieName string) func(http.Handler) http.Handler {
	return authenticate(jwtService, func(r *http.Request) (string, error) {
		if token := r.URL.Query().Get("token"); token != "" {
			return token, nil
		}
		return TokenFromRequest(r, cookieName)
	})
}

func authenticate(jwtService *jwt.Service, extract func(*http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := extract(r)
			if err != nil {
				response.Unauthorized(w, "Authentication required")
				return
			}

			claims, err := jwtService.ValidateAccessToken(token)
			if err != nil {
				if errors.Is(err, jwt.ErrExpiredToken) {
					response.Unauthorized(w, "Token expired")
				} else {
					response.Unauthorized(w, "Invalid token")
				}
				return
			}

			ctx := WithIdentity(r.Context(), claims.UserID, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithIdentity stores an authenticated user in ctx.
func WithIdentity(ctx context.Context, userID uuid.UUID, role string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, RoleKey, role)
}

// GetUserID extracts user ID from context
func GetUserID(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(UserIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// GetRole extracts role from context
func GetRole(ctx context.Context) string {
	if role, ok := ctx.Value(RoleKey).(string); ok {
		return role
	}
	return ""
}

// RequireRole returns middleware that checks user role
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userRole := GetRole(r.Context())
			for _, role := range roles {
				if userRole == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.Forbidden(w, "Insufficient permissions")
		})
	}
}

// RequirePhotographer returns middleware that requires photographer role
func RequirePhotographer() func(http.Handler) http.Handler {
	return RequireRole("photographer")
}

// RequireClient returns middleware that requires client role
func RequireClient() func(http.Handler) http.Handler {
	return RequireRole("client")
}
