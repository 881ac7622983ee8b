package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/avoronin/tutor-platform/internal/model"
)

// Интерфейсы хранилищ, которые потребляют сервисы.
// Реализации живут в internal/repository.

type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	UpdateRatingAggregate(ctx context.Context, tutorID uuid.UUID, rating float64, reviewCount int) error
	UpdateAvailability(ctx context.Context, tutorID uuid.UUID, availability []model.DayAvailability) error
	ListTutorIDs(ctx context.Context) ([]uuid.UUID, error)
}

type BookingStore interface {
	LockTutorTx(ctx context.Context, tx pgx.Tx, tutorID uuid.UUID) error
	CreateTx(ctx context.Context, tx pgx.Tx, booking *model.Booking) error
	GetActiveByTutorTx(ctx context.Context, tx pgx.Tx, tutorID uuid.UUID) ([]*model.Booking, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	GetByStudentID(ctx context.Context, studentID uuid.UUID) ([]*model.Booking, error)
	GetByTutorID(ctx context.Context, tutorID uuid.UUID) ([]*model.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.BookingStatus) (*model.Booking, error)
	CountByTutor(ctx context.Context, tutorID uuid.UUID) (int64, error)
	CountByTutorSince(ctx context.Context, tutorID uuid.UUID, since time.Time) (int64, error)
	CountPendingByTutor(ctx context.Context, tutorID uuid.UUID) (int64, error)
}

type ReviewStore interface {
	Create(ctx context.Context, review *model.Review) error
	GetByTutorID(ctx context.Context, tutorID uuid.UUID) ([]*model.Review, error)
	GetByStudentID(ctx context.Context, studentID uuid.UUID) ([]*model.Review, error)
}
