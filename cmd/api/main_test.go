package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focalfinder/focalfinder-api/internal/middleware"
	"github.com/focalfinder/focalfinder-api/internal/pkg/jwt"
)

func newTestRouter(t *testing.T, checks []healthCheck, uploadsDir string) (http.Handler, *jwt.Service) {
	t.Helper()
	jwtService := jwt.NewService("test-secret", time.Hour, 24*time.Hour)
	r := newRouter(routerConfig{
		allowedOrigins: []string{"http://localhost:3000"},
		authCookie:     middleware.DefaultAuthCookie,
		jwt:            jwtService,
		rateLimiter:    middleware.NewRateLimiter(100, 100),
		checks:         checks,
		localUploads:   uploadsDir,
	}, &handlers{})
	return r, jwtService
}

func bearer(t *testing.T, jwtService *jwt.Service, role string) string {
	t.Helper()
	token, err := jwtService.GenerateAccessToken(uuid.New(), role)
	require.NoError(t, err)
	return "Bearer " + token.Value
}

func TestHealthReportsDependencies(t *testing.T) {
	up := healthCheck{name: "database", ping: func(context.Context) error { return nil }}
	down := healthCheck{name: "redis", ping: func(context.Context) error { return errors.New("connection refused") }}

	r, _ := newTestRouter(t, []healthCheck{up}, "")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	r, _ = newTestRouter(t, []healthCheck{up, down}, "")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)
	assert.Contains(t, w.Body.String(), `"redis":"down"`)
}

func TestProtectedRoutesRequireAuthAndRole(t *testing.T) {
	r, jwtService := newTestRouter(t, nil, "")

	tests := []struct {
		name   string
		path   string
		role   string
		status int
	}{
		{"bookings without token", "/api/v1/bookings", "", http.StatusUnauthorized},
		{"conversations without token", "/api/v1/conversations", "", http.StatusUnauthorized},
		{"uploads without token", "/api/v1/uploads", "", http.StatusUnauthorized},
		{"briefs as photographer", "/api/v1/briefs", "photographer", http.StatusForbidden},
		{"profile as client", "/api/v1/photographer/profile", "client", http.StatusForbidden},
		{"packages as client", "/api/v1/photographer/packages", "client", http.StatusForbidden},
		{"websocket without token", "/ws", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.role != "" {
				req.Header.Set("Authorization", bearer(t, jwtService, tt.role))
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestLocalUploadsAreServedWithoutListing(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "attachments"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "attachments", "a.txt"), []byte("hello"), 0o644))

	r, _ := newTestRouter(t, nil, dir)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/attachments/a.txt", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/attachments/", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
