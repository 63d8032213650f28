package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/focalfinder/focalfinder-api/internal/config"
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
	"github.com/focalfinder/focalfinder-api/internal/domain/user"
	"github.com/focalfinder/focalfinder-api/internal/middleware"
	"github.com/focalfinder/focalfinder-api/internal/pkg/database"
	"github.com/focalfinder/focalfinder-api/internal/pkg/imaging"
	"github.com/focalfinder/focalfinder-api/internal/pkg/jwt"
	"github.com/focalfinder/focalfinder-api/internal/pkg/logger"
	"github.com/focalfinder/focalfinder-api/internal/pkg/password"
	"github.com/focalfinder/focalfinder-api/internal/pkg/storage"
	"github.com/focalfinder/focalfinder-api/migrations"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting FocalFinder API")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	if cfg.MigrationsAuto {
		if err := database.Migrate(db, migrations.FS); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
	}

	redisClient, err := database.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redisClient)

	store, err := newStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialise storage")
	}
	images := imaging.NewProcessor(imaging.DefaultConfig())

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	profileRepo := profile.NewRepository(db)
	portfolioRepo := portfolio.NewRepository(db)
	packageRepo := servicepackage.NewRepository(db)
	briefRepo := brief.NewRepository(db)
	bookingRepo := booking.NewRepository(db)
	conversationRepo := conversation.NewRepository(db)
	reviewRepo := review.NewRepository(db)
	directoryRepo := photographer.NewRepository(db)

	// ---------- WebSocket hub ----------
	hub := conversation.NewHub(redisClient)
	go hub.Run()

	// ---------- Services ----------
	authService := auth.NewService(userRepo, jwtService, password.NewHasher(bcrypt.DefaultCost), auth.NewRedisRefreshStore(redisClient))
	profileService := profile.NewService(profileRepo, store, images)
	portfolioService := portfolio.NewService(portfolioRepo, profileRepo, store, images)
	packageService := servicepackage.NewService(packageRepo, profileRepo)
	briefService := brief.NewService(briefRepo)
	conversationService := conversation.NewService(conversationRepo, userRepo, bookingRepo, hub, conversation.NewMessageLimiter(redisClient))
	bookingService := booking.NewService(bookingRepo, userRepo, briefRepo, conversationService)
	reviewService := review.NewService(reviewRepo, bookingRepo)
	directoryService := photographer.NewService(directoryRepo, userRepo, profileRepo, packageRepo, portfolioRepo, reviewService)
	uploadService := upload.NewService(store, cfg.UploadMaxBytes)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go rateLimiter.Cleanup(ctx, time.Minute)

	handlers := &handlers{
		auth: auth.NewHandler(authService, auth.CookieConfig{
			Name:   cfg.AuthCookieName,
			Secure: cfg.AuthCookieSecure,
		}),
		profile:      profile.NewHandler(profileService, cfg.UploadMaxBytes),
		portfolio:    portfolio.NewHandler(portfolioService, cfg.UploadMaxBytes),
		packages:     servicepackage.NewHandler(packageService),
		briefs:       brief.NewHandler(briefService),
		bookings:     booking.NewHandler(bookingService),
		conversation: conversation.NewHandler(conversationService, hub, cfg.AllowedOrigins),
		reviews:      review.NewHandler(reviewService),
		photographer: photographer.NewHandler(directoryService),
		uploads:      upload.NewHandler(uploadService, cfg.UploadMaxBytes),
	}

	checks := []healthCheck{{name: "database", ping: db.PingContext}}
	if redisClient != nil {
		checks = append(checks, healthCheck{name: "redis", ping: func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}})
	}

	localDir := ""
	if local, ok := store.(*storage.LocalStorage); ok {
		localDir = local.BasePath()
	}

	r := newRouter(routerConfig{
		allowedOrigins: cfg.AllowedOrigins,
		authCookie:     cfg.AuthCookieName,
		jwt:            jwtService,
		rateLimiter:    rateLimiter,
		checks:         checks,
		localUploads:   localDir,
	}, handlers)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	hub.Shutdown()
	stop()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

func newStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	if cfg.UsesLocalStorage() {
		return storage.NewLocalStorage(cfg.StorageLocalPath, cfg.StoragePublicURL)
	}
	return storage.NewS3Storage(ctx, storage.S3Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		PublicURL: cfg.StoragePublicURL,
	})
}
