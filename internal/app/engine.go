package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/avoronin/tutor-platform/internal/repository"
	"github.com/avoronin/tutor-platform/internal/service"
)

// Engine собранное ядро платформы: сервисы бронирования, отзывов и
// профилей репетиторов поверх общего пула соединений. Транспортный слой
// (HTTP, бот) живёт снаружи и работает через эти сервисы.
type Engine struct {
	Users    *repository.UserRepository
	Bookings *service.BookingService
	Reviews  *service.ReviewService
	Tutors   *service.TutorService
}

// NewEngine связывает готовые репозитории и сервисы
func NewEngine(
	pool *pgxpool.Pool,
	userRepo *repository.UserRepository,
	bookingRepo *repository.BookingRepository,
	reviewRepo *repository.ReviewRepository,
	notifier service.Notifier,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		Users:    userRepo,
		Bookings: service.NewBookingService(pool, userRepo, bookingRepo, notifier, logger),
		Reviews:  service.NewReviewService(userRepo, reviewRepo, logger),
		Tutors:   service.NewTutorService(userRepo, bookingRepo, reviewRepo, logger),
	}
}
