package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/annual-plan/internal/cli"
	"alcyxob/annual-plan/internal/config"
	"alcyxob/annual-plan/internal/domain"
	"alcyxob/annual-plan/internal/notify"
	"alcyxob/annual-plan/internal/planner"
	"alcyxob/annual-plan/internal/repository/sqlite"
	"alcyxob/annual-plan/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.ParseLevel(cfg.Log.Level)}))
	clock := service.Clock(service.SystemClock)

	app := &cli.App{
		// store commands run with coach rights
		Actor:  domain.Actor{ID: primitive.NilObjectID, Role: domain.RoleCoach},
		DBPath: cfg.Database.Path,
		// tables for people, JSON for pipes
		JSON: !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}
	if cfg.JWT.Secret != "" {
		app.Tokens = service.NewTokenService(cfg.JWT.Secret, cfg.JWT.Expiration, clock)
	}

	var closeDB func() error
	defer func() {
		if closeDB != nil {
			closeDB()
		}
	}()
	app.Connect = func(dbPath string) error {
		db, err := sqlite.OpenDB(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		closeDB = db.Close
		migrator, err := sqlite.NewMigrator(db)
		if err != nil {
			return err
		}
		restDay, _ := cfg.Generation.RestDay()
		defaults := service.PlanDefaults{Mode: domain.GenerationMode(cfg.Generation.Mode), RestWeekday: restDay}

		store := sqlite.NewStore(db)
		app.Migrator = migrator
		app.Plans = service.NewPlanService(store, planner.NewRand(cfg.Generation.Seed), defaults, clock, logger)
		app.Review = service.NewReviewService(store, notify.NewLogSink(logger), clock, logger)
		app.Progress = service.NewProgressService(store, clock, logger)
		return nil
	}

	start := time.Now()
	err = cli.NewRootCmd(app).Execute()
	logger.Debug("command finished", slog.Duration("elapsed", time.Since(start)))
	return err
}
