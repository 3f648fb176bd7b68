package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"alcyxob/annual-plan/internal/api"
	"alcyxob/annual-plan/internal/config"
	"alcyxob/annual-plan/internal/domain"
	"alcyxob/annual-plan/internal/notify"
	"alcyxob/annual-plan/internal/planner"
	"alcyxob/annual-plan/internal/repository"
	"alcyxob/annual-plan/internal/repository/mongo"
	"alcyxob/annual-plan/internal/repository/sqlite"
	"alcyxob/annual-plan/internal/service"
	"alcyxob/annual-plan/internal/storage"
)

// @title Annual Training Plan API
// @version 1.0
// @description Periodized annual plans for golf players: generation, manual adjustment, progress and coach review.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("could not load config", slog.Any("error", err))
		os.Exit(1)
	}

	level := new(slog.LevelVar)
	level.Set(config.ParseLevel(cfg.Log.Level))
	logger := newLogger(os.Stdout, cfg.Log.Format, level)
	slog.SetDefault(logger)
	config.Watch(level, logger)
	logger.Info("starting annual plan server", slog.String("driver", cfg.Database.Driver))

	// --- Record store ---
	store, closeStore, err := openStore(cfg.Database, logger)
	if err != nil {
		logger.Error("could not open record store", slog.Any("error", err))
		os.Exit(1)
	}
	defer closeStore()

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(context.Background(), cfg.S3, logger)
	if err != nil {
		logger.Error("failed to initialize S3 storage", slog.Any("error", err))
		os.Exit(1)
	}

	// --- Notifications ---
	sinks := notify.FanOut{notify.NewLogSink(logger)}
	if cfg.Telegram.Token != "" {
		tg, err := notify.NewTelegramSink(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			logger.Error("failed to initialize telegram sink", slog.Any("error", err))
			os.Exit(1)
		}
		sinks = append(sinks, tg)
	}

	// --- Initialize Services ---
	restDay, _ := cfg.Generation.RestDay() // validated by LoadConfig
	defaults := service.PlanDefaults{Mode: domain.GenerationMode(cfg.Generation.Mode), RestWeekday: restDay}
	clock := service.Clock(service.SystemClock)

	deps := api.Dependencies{
		Tokens:    service.NewTokenService(cfg.JWT.Secret, cfg.JWT.Expiration, clock),
		Plans:     service.NewPlanService(store, planner.NewRand(cfg.Generation.Seed), defaults, clock, logger),
		Adjust:    service.NewAdjustmentService(store, clock, logger),
		Progress:  service.NewProgressService(store, clock, logger),
		Review:    service.NewReviewService(store, sinks, clock, logger),
		Exports:   service.NewExportService(store, fileStorage, cfg.S3.ExportPrefix, cfg.S3.URLExpiry, clock, logger),
		Templates: service.NewTemplateService(store.Templates()),
		Logger:    logger,
		RateLimit: cfg.Server.RateLimit.RPS,
		RateBurst: cfg.Server.RateLimit.Burst,
	}

	// --- Weekly digest ---
	if cfg.Digest.Enabled {
		scheduler := cron.New(cron.WithLocation(time.UTC))
		job := service.NewDigestJob(store, sinks, clock, logger)
		_, err := scheduler.AddFunc(cfg.Digest.Schedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			sent, err := job.Run(ctx)
			if err != nil {
				logger.Error("weekly digest failed", slog.Any("error", err))
				return
			}
			logger.Info("weekly digest sent", slog.Int("plans", sent))
		})
		if err != nil {
			logger.Error("invalid digest schedule", slog.String("schedule", cfg.Digest.Schedule), slog.Any("error", err))
			os.Exit(1)
		}
		scheduler.Start()
		defer func() { <-scheduler.Stop().Done() }()
		logger.Info("weekly digest scheduled", slog.String("schedule", cfg.Digest.Schedule))
	}

	// --- Initialize Gin Engine ---
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, deps)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server listening", slog.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("server forced to shutdown", slog.Any("error", err))
	}
	logger.Info("server exiting")
}

func newLogger(w io.Writer, format string, level slog.Leveler) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// openStore connects the configured backend. The returned func releases it.
func openStore(cfg config.DatabaseConfig, logger *slog.Logger) (repository.Store, func(), error) {
	switch cfg.Driver {
	case "sqlite":
		db, err := sqlite.OpenDB(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("sqlite database ready", slog.String("path", cfg.Path))
		return sqlite.NewStore(db), func() {
			if err := db.Close(); err != nil {
				logger.Error("failed to close sqlite", slog.Any("error", err))
			}
		}, nil

	case "mongo", "":
		client, err := mongo.ConnectDB(cfg.URI)
		if err != nil {
			return nil, nil, err
		}
		store := mongo.NewStore(client, cfg.Name)

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := mongo.EnsureIndexes(ctx, store.Database()); err != nil {
			_ = mongo.DisconnectDB(client)
			return nil, nil, err
		}
		logger.Info("mongo database ready", slog.String("database", cfg.Name))
		return store, func() {
			logger.Info("disconnecting MongoDB")
			if err := mongo.DisconnectDB(client); err != nil {
				logger.Error("failed to disconnect MongoDB", slog.Any("error", err))
			}
		}, nil

	default:
		return nil, nil, errors.New("unknown database driver " + cfg.Driver)
	}
}
