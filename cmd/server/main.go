package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/benote/benote-core/internal/config"
	"github.com/benote/benote-core/internal/convert"
	"github.com/benote/benote-core/internal/database"
	"github.com/benote/benote-core/internal/handlers"
	"github.com/benote/benote-core/internal/logging"
	"github.com/benote/benote-core/internal/middleware"
	"github.com/benote/benote-core/internal/modules"
	"github.com/benote/benote-core/internal/permissions"
	"github.com/benote/benote-core/internal/routes"
	"github.com/benote/benote-core/internal/services"
	"github.com/benote/benote-core/internal/store"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	stdout := logging.Setup(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err.Error())
		os.Exit(1)
	}

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err.Error())
		os.Exit(1)
	}

	mods := modules.All()
	if err := database.Migrate(db, mods); err != nil {
		slog.Error("migration failed", "error", err.Error())
		os.Exit(1)
	}

	// Relationship graph, rejected at startup when inconsistent
	graph, err := modules.Graph(mods)
	if err != nil {
		slog.Error("relationship graph invalid", "error", err.Error())
		os.Exit(1)
	}
	stats := graph.Stats()
	slog.Info("relationship graph compiled",
		"nodes", stats.Nodes, "edges", stats.Edges,
		"cascade", stats.Cascade, "restrict", stats.Restrict, "set_null", stats.SetNull)

	// Database log handler (ERROR+ async batch)
	dbLogHandler := logging.NewDBHandler(db, 5*time.Second)
	slog.SetDefault(slog.New(logging.NewFanout(
		logging.Sink{Handler: stdout},
		logging.Sink{Handler: dbLogHandler, Level: slog.LevelError},
	)))

	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cfg.LogRetention, cleanupDone)

	// Capability presets
	presets := permissions.DefaultPresets()
	if cfg.PresetsPath != "" {
		presets, err = permissions.LoadPresets(cfg.PresetsPath)
		if err != nil {
			slog.Error("failed to load capability presets", "path", cfg.PresetsPath, "error", err.Error())
			os.Exit(1)
		}
	}
	slog.Info("capability presets loaded", "presets", presets.Names())

	// Services
	svc := services.New(store.New(db, graph), presets, convert.TextConverter{}, cfg.NotificationsPageSize)

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	if err := svc.Accounts.SeedBadges(seedCtx); err != nil {
		slog.Error("badge seeding failed", "error", err.Error())
	}
	cancelSeed()

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err.Error())
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecureHeaders())

	routes.Setup(app, handlers.NewHealthHandler(db, graph, len(mods)))

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err.Error())
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err.Error())
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err.Error())
		}
	}

	slog.Info("server stopped")
}
