package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/avoronin/tutor-platform/internal/service"
)

// Reconciler управляет фоновой сверкой агрегатов рейтинга.
// Агрегат на профиле — производный кэш; периодический полный пересчёт
// лечит обновления, потерянные при создании отзывов.
type Reconciler struct {
	tutorService *service.TutorService
	interval     time.Duration
	logger       *zap.Logger
	stopChan     chan struct{}
}

// NewReconciler создаёт новый реконсилятор
func NewReconciler(tutorService *service.TutorService, interval time.Duration, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		tutorService: tutorService,
		interval:     interval,
		logger:       logger,
		stopChan:     make(chan struct{}),
	}
}

// Start запускает фоновую задачу
func (r *Reconciler) Start(ctx context.Context) {
	r.logger.Info("Starting rating reconciler", zap.Duration("interval", r.interval))
	go r.run(ctx)
}

// Stop останавливает фоновую задачу
func (r *Reconciler) Stop() {
	r.logger.Info("Stopping rating reconciler")
	close(r.stopChan)
}

func (r *Reconciler) run(ctx context.Context) {
	// Первый запуск сразу при старте
	r.reconcile(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.reconcile(ctx)
		case <-r.stopChan:
			r.logger.Info("Rating reconciliation task stopped")
			return
		case <-ctx.Done():
			r.logger.Info("Rating reconciliation task cancelled")
			return
		}
	}
}

func (r *Reconciler) reconcile(ctx context.Context) {
	r.logger.Info("Starting rating reconciliation")

	err := r.tutorService.ReconcileRatings(ctx)
	if err != nil {
		r.logger.Error("Rating reconciliation finished with errors", zap.Error(err))
		return
	}

	r.logger.Info("Rating reconciliation completed")
}
