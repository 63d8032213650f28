package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/focalfinder/focalfinder-api/internal/pkg/jwt"
)

func protectedHandler(t *testing.T, wantUser uuid.UUID, wantRole string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := GetUserID(r.Context()); got != wantUser {
			t.Errorf("expected user %s, got %s", wantUser, got)
		}
		if got := GetRole(r.Context()); got != wantRole {
			t.Errorf("expected role %q, got %q", wantRole, got)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddlewareAllowsBearerToken(t *testing.T) {
	jwtSvc := jwt.NewService("secret", time.Minute, time.Hour)
	userID := uuid.New()
	token, err := jwtSvc.GenerateAccessToken(userID, "client")
	if err != nil {
		t.Fatalf("token gen failed: %v", err)
	}

	protected := Auth(jwtSvc, DefaultAuthCookie)(protectedHandler(t, userID, "client"))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token.Value)
	w := httptest.NewRecorder()
	protected.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestAuthMiddlewareAllowsSessionCookie(t *testing.T) {
	jwtSvc := jwt.NewService("secret", time.Minute, time.Hour)
	userID := uuid.New()
	token, err := jwtSvc.GenerateAccessToken(userID, "photographer")
	if err != nil {
		t.Fatalf("token gen failed: %v", err)
	}

	protected := Auth(jwtSvc, DefaultAuthCookie)(protectedHandler(t, userID, "photographer"))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: DefaultAuthCookie, Value: token.Value})
	w := httptest.NewRecorder()
	protected.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestAuthMiddlewareRejects(t *testing.T) {
	jwtSvc := jwt.NewService("secret", time.Minute, time.Hour)
	refresh, err := jwtSvc.GenerateRefreshToken(uuid.New())
	if err != nil {
		t.Fatalf("token gen failed: %v", err)
	}

	cases := map[string]string{
		"missing":       "",
		"wrong scheme":  "Basic abc",
		"garbage":       "Bearer not-a-jwt",
		"refresh token": "Bearer " + refresh.Value,
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			called := false
			protected := Auth(jwtSvc, DefaultAuthCookie)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()
			protected.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
			if called {
				t.Fatal("next handler must not run")
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	h := RequireClient()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/bookings", nil)
	req = req.WithContext(WithIdentity(req.Context(), uuid.New(), "photographer"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}

	req = req.WithContext(WithIdentity(req.Context(), uuid.New(), "client"))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
}

func TestWebSocketAuthAcceptsQueryToken(t *testing.T) {
	jwtSvc := jwt.NewService("secret", time.Minute, time.Hour)
	userID := uuid.New()
	token, err := jwtSvc.GenerateAccessToken(userID, "client")
	if err != nil {
		t.Fatalf("token gen failed: %v", err)
	}

	protected := WebSocketAuth(jwtSvc, DefaultAuthCookie)(protectedHandler(t, userID, "client"))

	req := httptest.NewRequest(http.MethodGet, "/ws?token="+token.Value, nil)
	w := httptest.NewRecorder()
	protected.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	// Plain Auth ignores the query parameter.
	w = httptest.NewRecorder()
	Auth(jwtSvc, DefaultAuthCookie)(protectedHandler(t, userID, "client")).ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
