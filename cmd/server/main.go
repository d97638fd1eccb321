package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ecoguard/backend/internal/config"
	"github.com/ecoguard/backend/internal/delivery/http"
	"github.com/ecoguard/backend/internal/domain"
	"github.com/ecoguard/backend/internal/repository/memory"
	"github.com/ecoguard/backend/internal/repository/postgres"
	redisrepo "github.com/ecoguard/backend/internal/repository/redis"
	"github.com/ecoguard/backend/internal/service"
)

func main() {
	// Configuration
	cfg := config.Load()
	log := config.NewLogger(cfg.LogLevel, cfg.IsDevelopment())
	if !cfg.EnvFileLoaded {
		log.Info().Msg("No .env file found, using system environment")
	}

	// Session store
	store, closeStore := openSessionStore(cfg, log)
	defer closeStore()

	// Dependency Injection: Services
	mlBridge := service.NewMLBridge(service.MLBridgeConfig{
		LifestyleURL:   cfg.LifestyleServiceURL,
		VisionURL:      cfg.VisionServiceURL,
		SensorURL:      cfg.SensorServiceURL,
		SensorDisabled: cfg.SensorDisabled,
		LifestyleDelay: cfg.LifestyleDelay,
		VisionDelay:    cfg.VisionDelay,
	}, log)
	dashboardSvc := service.NewDashboardService(mlBridge, mlBridge, mlBridge, cfg.ScoringTimeout, log)
	wizardSvc := service.NewWizardService(dashboardSvc, cfg.WizardTTL, log)
	sessionSvc := service.NewSessionService(store, service.NewIdentityClient(cfg.IdentityUserinfoURL), cfg.SessionTTL, log)

	// Fiber App; the write timeout leaves room for the slowest model call
	app := fiber.New(fiber.Config{
		AppName:      "EcoGuard API v1.0",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.ScoringTimeout + 10*time.Second,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: http.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization," + http.SessionHeader,
	}))

	// Routes
	http.SetupRoutes(app, http.NewHandler(dashboardSvc, wizardSvc, sessionSvc, mlBridge))

	// Graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server starting")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}

// openSessionStore prefers Redis, then PostgreSQL, and falls back to memory
// when neither is configured or reachable.
func openSessionStore(cfg *config.Config, log zerolog.Logger) (domain.SessionStore, func()) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		store := redisrepo.NewSessionCache(client)
		err := store.Health(ctx)
		if err == nil {
			log.Info().Str("addr", cfg.RedisAddr).Msg("Connected to Redis")
			return store, func() { _ = client.Close() }
		}
		log.Warn().Err(err).Msg("Could not connect to Redis")
		_ = client.Close()
	}

	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err == nil {
			repo := postgres.NewSessionRepository(pool)
			if err = repo.Health(ctx); err == nil {
				err = repo.EnsureSchema(ctx)
			}
			if err == nil {
				if n, purgeErr := repo.PurgeExpired(ctx); purgeErr == nil && n > 0 {
					log.Info().Int64("sessions", n).Msg("Purged expired sessions")
				}
				log.Info().Msg("Connected to PostgreSQL")
				return repo, pool.Close
			}
			pool.Close()
		}
		log.Warn().Err(err).Msg("Could not connect to database")
	}

	log.Info().Msg("Using in-memory session store")
	return memory.NewSessionStore(), func() {}
}
