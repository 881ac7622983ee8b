package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/avoronin/tutor-platform/internal/app"
	"github.com/avoronin/tutor-platform/internal/config"
	"github.com/avoronin/tutor-platform/internal/notify"
	"github.com/avoronin/tutor-platform/internal/repository"
	"github.com/avoronin/tutor-platform/internal/repository/base"
	"github.com/avoronin/tutor-platform/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	// Применяем миграции перед стартом
	migrator, err := app.NewMigrator(pool, "migrations", logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	engine := buildEngine(cfg, pool, logger)

	// Фоновая сверка рейтингов
	reconciler := app.NewReconciler(engine.Tutors, cfg.ReconcileInterval, logger)
	reconciler.Start(ctx)

	logger.Info("Tutor platform engine started",
		zap.String("environment", cfg.Environment))

	<-ctx.Done()

	reconciler.Stop()
	logger.Info("Shutdown complete")
}

func buildEngine(cfg *config.Config, pool *pgxpool.Pool, logger *zap.Logger) *app.Engine {
	baseRepo := base.NewRepository(pool)
	userRepo := repository.NewUserRepository(baseRepo)
	bookingRepo := repository.NewBookingRepository(baseRepo)
	reviewRepo := repository.NewReviewRepository(baseRepo)

	// Уведомления опциональны: без токена движок работает молча
	var notifier service.Notifier
	if cfg.TelegramToken != "" {
		tg, err := notify.NewTelegramNotifier(cfg.TelegramToken, userRepo, logger)
		if err != nil {
			logger.Error("Failed to create telegram notifier, notifications disabled", zap.Error(err))
		} else {
			notifier = tg
		}
	}

	return app.NewEngine(pool, userRepo, bookingRepo, reviewRepo, notifier, logger)
}
