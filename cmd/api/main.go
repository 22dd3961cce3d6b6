// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/carterperez-dev/blogspace/internal/admin"
	"github.com/carterperez-dev/blogspace/internal/auth"
	"github.com/carterperez-dev/blogspace/internal/blog"
	"github.com/carterperez-dev/blogspace/internal/config"
	"github.com/carterperez-dev/blogspace/internal/core"
	"github.com/carterperez-dev/blogspace/internal/health"
	"github.com/carterperez-dev/blogspace/internal/middleware"
	"github.com/carterperez-dev/blogspace/internal/otp"
	"github.com/carterperez-dev/blogspace/internal/profile"
	"github.com/carterperez-dev/blogspace/internal/relationship"
	"github.com/carterperez-dev/blogspace/internal/server"
	"github.com/carterperez-dev/blogspace/internal/user"
)

const (
	drainDelay      = 5 * time.Second
	cleanupInterval = time.Hour
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Optional in every environment; containers inject real env vars.
	_ = godotenv.Load() //nolint:errcheck // .env is optional

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized", "algorithm", "ES256")

	smsSender, err := otp.NewSender(cfg.SMS, logger)
	if err != nil {
		return err
	}
	logger.Info("sms sender initialized", "provider", cfg.SMS.Provider)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo)
	userHandler := user.NewHandler(userSvc)
	userProvider := user.NewAuthProvider(userSvc)

	authRepo := auth.NewRepository(db.DB)
	authSvc := auth.NewService(
		authRepo,
		userProvider,
		jwtManager,
		auth.NewRedisBlacklist(redis),
		cfg.JWT,
		logger,
	)
	authHandler := auth.NewHandler(authSvc)

	otpRepo := otp.NewRepository(db.DB)
	otpSvc := otp.NewService(
		otpRepo,
		userProvider,
		authSvc,
		smsSender,
		cfg.OTP,
		logger,
	)
	otpHandler := otp.NewHandler(otpSvc)

	relationshipRepo := relationship.NewRepository(db.DB)
	relationshipSvc := relationship.NewService(relationshipRepo, userProvider)
	relationshipHandler := relationship.NewHandler(relationshipSvc)

	blogRepo := blog.NewRepository(db.DB)
	blogSvc := blog.NewService(blogRepo, relationshipSvc)
	blogHandler := blog.NewHandler(blogSvc)

	profileRepo := profile.NewRepository(db.DB)
	profileSvc := profile.NewService(profileRepo, userSvc)
	profileHandler := profile.NewHandler(profileSvc)

	healthHandler := health.NewHandler(db, redis)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		Repo:       admin.NewRepository(db.DB),
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

	go authSvc.StartCleanup(ctx, cleanupInterval)
	go otpSvc.StartCleanup(ctx, cleanupInterval)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics)
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())
	router.Handle("/metrics", promhttp.Handler())

	authenticator := middleware.Authenticator(authSvc)
	optionalAuth := middleware.OptionalAuth(authSvc)
	adminOnly := middleware.RequireAdmin

	// OTP issuance gets a much tighter per-IP budget than the rest of
	// the API; each request can cost an SMS.
	otpLimiter := middleware.NewRateLimiter(
		redis.Client,
		middleware.RateLimitConfig{
			Limit:    middleware.PerMinute(cfg.RateLimit.OTPRequests, 2),
			KeyFunc:  middleware.KeyByIP,
			FailOpen: true,
		},
	).Handler

	router.Route("/v1", func(r chi.Router) {
		otpHandler.RegisterRoutes(r, otpLimiter)
		authHandler.RegisterRoutes(r, authenticator)

		userHandler.RegisterRoutes(r)
		userHandler.RegisterAdminRoutes(r, authenticator, adminOnly)

		profileHandler.RegisterRoutes(r, authenticator)
		relationshipHandler.RegisterRoutes(r, authenticator)
		blogHandler.RegisterRoutes(r, authenticator, optionalAuth, adminOnly)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
