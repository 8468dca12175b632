package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/codingships/honestSpanish-sub001/internal/app"
	"github.com/codingships/honestSpanish-sub001/internal/collab"
	"github.com/codingships/honestSpanish-sub001/internal/config"
	"github.com/codingships/honestSpanish-sub001/internal/controller/handlers"
	"github.com/codingships/honestSpanish-sub001/internal/repository"
	"github.com/codingships/honestSpanish-sub001/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	availRepo := repository.NewAvailabilityRepository(pool)
	teacherRepo := repository.NewTeacherRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)

	availabilityService := service.NewAvailabilityService(availRepo, teacherRepo, logger)
	slotService := service.NewSlotService(availRepo, teacherRepo, sessionRepo, logger)
	sessionService := service.NewSessionService(
		sessionRepo,
		slotService,
		collab.NewNoopMeetingLinkProvider(),
		collab.NewConsoleReportPublisher(logger),
		logger,
	)

	server := app.NewServer(cfg.HTTPAddr, logger)
	handlers.New(availabilityService, slotService, sessionService).Register(server.Echo())

	logger.Info("Starting scheduling API",
		zap.String("environment", cfg.Environment),
		zap.String("addr", cfg.HTTPAddr))

	if err := server.Start(ctx); err != nil {
		logger.Fatal("Server stopped with error", zap.Error(err))
	}

	logger.Info("Server stopped")
}
