package api

import (
	"context"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bloodlaac/fabricat/internal/api/handler"
	"github.com/bloodlaac/fabricat/internal/api/middleware"
	"github.com/bloodlaac/fabricat/internal/core/service"
	"github.com/bloodlaac/fabricat/internal/infrastructure/queue"
	"github.com/bloodlaac/fabricat/internal/pkg/config"

	mongodb "github.com/bloodlaac/fabricat/internal/infrastructure/db/mongo"
	redisdb "github.com/bloodlaac/fabricat/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The history recorder workers run until ctx is cancelled.
func NewRouter(ctx context.Context, db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	historyRepo := mongodb.NewHistoryRepository(db)
	recentCache := redisdb.NewRecentGamesCache(rdb)

	hasher := service.NewArgon2Hasher(cfg.ArgonMemoryKiB, cfg.ArgonIterations, cfg.ArgonParallelism)
	codec := service.NewJWTCodec(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, hasher, codec, log)
	historyService := service.NewHistoryService(historyRepo, recentCache, log)

	recorder := queue.NewRecorder(cfg.RecorderWorkers, historyService, log)
	recorder.Start(ctx)

	authHandler := handler.NewAuthHandler(authService)
	historyHandler := handler.NewHistoryHandler(historyService, recorder)
	authMiddleware := middleware.Auth(codec)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/refresh", authHandler.Refresh)

	// --- History routes (bearer auth) ---
	history := e.Group("/history", authMiddleware)
	history.GET("/games/me", historyHandler.MyRecentGames)
	history.GET("/games/:session_code/me", historyHandler.MyGameStats)

	// --- Internal routes (game engine callbacks, not exposed publicly) ---
	e.POST("/internal/history/sessions", historyHandler.RecordSession)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
