package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/focalfinder/focalfinder-api/internal/domain/auth"
	"github.com/focalfinder/focalfinder-api/internal/domain/booking"
	"github.com/focalfinder/focalfinder-api/internal/domain/brief"
	"github.com/focalfinder/focalfinder-api/internal/domain/conversation"
	"github.com/focalfinder/focalfinder-api/internal/domain/photographer"
	"github.com/focalfinder/focalfinder-api/internal/domain/portfolio"
	"github.com/focalfinder/focalfinder-api/internal/domain/profile"
	"github.com/focalfinder/focalfinder-api/internal/domain/review"
	"github.com/focalfinder/focalfinder-api/internal/domain/servicepackage"
	"github.com/focalfinder/focalfinder-api/internal/domain/upload"
	"github.com/focalfinder/focalfinder-api/internal/middleware"
	"github.com/focalfinder/focalfinder-api/internal/pkg/jwt"
	"github.com/focalfinder/focalfinder-api/internal/pkg/logger"
	"github.com/focalfinder/focalfinder-api/internal/pkg/response"
)

type handlers struct {
	auth         *auth.Handler
	profile      *profile.Handler
	portfolio    *portfolio.Handler
	packages     *servicepackage.Handler
	briefs       *brief.Handler
	bookings     *booking.Handler
	conversation *conversation.Handler
	reviews      *review.Handler
	photographer *photographer.Handler
	uploads      *upload.Handler
}

type routerConfig struct {
	allowedOrigins []string
	authCookie     string
	jwt            *jwt.Service
	rateLimiter    *middleware.RateLimiter
	checks         []healthCheck
	// localUploads is served at /uploads when storage is on disk.
	localUploads string
}

func newRouter(cfg routerConfig, h *handlers) chi.Router {
	authMiddleware := middleware.Auth(cfg.jwt, cfg.authCookie)

	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.allowedOrigins))

	r.Get("/health", healthHandler(cfg.checks))
	r.With(middleware.WebSocketAuth(cfg.jwt, cfg.authCookie)).Get("/ws", h.conversation.WebSocket)

	if cfg.localUploads != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", noListing(http.FileServer(http.Dir(cfg.localUploads)))))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cfg.rateLimiter.Handler)
		r.Use(chimw.Compress(5))

		r.Mount("/auth", h.auth.Routes(authMiddleware))
		r.Mount("/photographers", h.photographer.Routes())
		r.Mount("/reviews", h.reviews.Routes(authMiddleware))

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)

			r.Mount("/bookings", h.bookings.Routes())
			r.Mount("/conversations", h.conversation.Routes())
			r.Mount("/uploads", h.uploads.Routes())

			r.With(middleware.RequireClient()).Mount("/briefs", h.briefs.Routes())

			r.Route("/photographer", func(r chi.Router) {
				r.Use(middleware.RequirePhotographer())
				r.Mount("/profile", h.profile.Routes())
				r.Mount("/portfolio", h.portfolio.Routes())
				r.Mount("/packages", h.packages.Routes())
			})
		})
	})

	return r
}

// noListing hides directory indexes from the file server.
func noListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type healthCheck struct {
	name string
	ping func(ctx context.Context) error
}

// healthHandler reports "ok" when every dependency answers and "degraded"
// with a 503 otherwise.
func healthHandler(checks []healthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := "ok"
		deps := make(map[string]string, len(checks))
		for _, c := range checks {
			if err := c.ping(ctx); err != nil {
				logger.LogWarn(ctx, "health check failed", "dependency", c.name, "error", err)
				deps[c.name] = "down"
				status = "degraded"
				continue
			}
			deps[c.name] = "up"
		}

		body := map[string]interface{}{"status": status, "dependencies": deps}
		if status != "ok" {
			response.JSON(w, http.StatusServiceUnavailable, body)
			return
		}
		response.OK(w, body)
	}
}
