package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/avoronin/tutor-platform/internal/model"
)

// Notifier уведомляет участников о событиях бронирования.
// Уведомления best-effort: реализация логирует сбои и ничего не возвращает.
type Notifier interface {
	BookingCreated(ctx context.Context, booking *model.Booking)
	BookingStatusChanged(ctx context.Context, booking *model.Booking)
}

type BookingService struct {
	pool        *pgxpool.Pool
	userRepo    UserStore
	bookingRepo BookingStore
	notifier    Notifier
	logger      *zap.Logger
}

func NewBookingService(
	pool *pgxpool.Pool,
	userRepo UserStore,
	bookingRepo BookingStore,
	notifier Notifier,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		pool:        pool,
		userRepo:    userRepo,
		bookingRepo: bookingRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

// CreateBooking создаёт бронирование занятия у репетитора.
// Проверка конфликтов и вставка выполняются в одной транзакции под
// advisory-блокировкой календаря репетитора, поэтому два конкурентных
// запроса на пересекающиеся интервалы не могут пройти оба.
func (s *BookingService) CreateBooking(
	ctx context.Context,
	studentID, tutorID uuid.UUID,
	start, end time.Time,
	subject, notes string,
) (*model.Booking, error) {
	interval, err := model.NewInterval(start, end)
	if err != nil {
		return nil, err
	}

	// Ставка читается на момент создания, цена дальше не пересчитывается
	tutor, err := s.userRepo.GetByID(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("get tutor: %w", err)
	}

	if tutor == nil || !tutor.IsTutor() {
		return nil, ErrTutorNotFound
	}

	price, err := model.CalculatePrice(interval, tutor.HourlyRate)
	if err != nil {
		return nil, err
	}

	// Начинаем транзакцию
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Сериализуем проверку и вставку по календарю этого репетитора
	err = s.bookingRepo.LockTutorTx(ctx, tx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("lock tutor: %w", err)
	}

	existing, err := s.bookingRepo.GetActiveByTutorTx(ctx, tx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("get existing bookings: %w", err)
	}

	if conflict := findConflict(interval, existing); conflict != nil {
		s.logger.Info("Booking rejected: slot conflict",
			zap.String("tutor_id", tutorID.String()),
			zap.Time("start", start),
			zap.Time("end", end),
			zap.String("conflicting_booking_id", conflict.ID.String()),
		)
		return nil, ErrSlotConflict
	}

	booking := &model.Booking{
		StudentID: studentID,
		TutorID:   tutorID,
		Date:      bookingDate(interval.Start),
		StartTime: interval.Start,
		EndTime:   interval.End,
		Subject:   subject,
		Price:     price,
		Status:    model.BookingStatusPending,
		Notes:     notes,
	}

	err = s.bookingRepo.CreateTx(ctx, tx, booking)
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	// Коммитим транзакцию
	err = tx.Commit(ctx)
	if err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("student_id", studentID.String()),
		zap.String("tutor_id", tutorID.String()),
		zap.String("subject", subject),
		zap.Float64("price", price),
	)

	booking.Tutor = tutor

	if s.notifier != nil {
		s.notifier.BookingCreated(ctx, booking)
	}

	return booking, nil
}

// TransitionStatus переводит бронирование в новый статус.
// Разрешено только участникам бронирования и только по графу переходов.
func (s *BookingService) TransitionStatus(
	ctx context.Context,
	bookingID uuid.UUID,
	newStatus model.BookingStatus,
	actorID uuid.UUID,
) (*model.Booking, error) {
	if !model.IsValidBookingStatus(newStatus) {
		return nil, ErrInvalidTransition
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}

	if booking == nil {
		return nil, ErrBookingNotFound
	}

	if !booking.IsParticipant(actorID) {
		return nil, ErrUnauthorized
	}

	if !booking.CanTransitionTo(newStatus) {
		return nil, ErrInvalidTransition
	}

	// Запись compare-and-swap от прочитанного статуса: если конкурентный
	// переход успел раньше, проверка графа выше делалась по устаревшему
	// состоянию и запись не проходит. Бронирования не удаляются, поэтому
	// промах означает именно смену статуса.
	updated, err := s.bookingRepo.UpdateStatus(ctx, bookingID, booking.Status, newStatus)
	if err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	if updated == nil {
		return nil, ErrInvalidTransition
	}

	s.logger.Info("Booking status changed",
		zap.String("booking_id", bookingID.String()),
		zap.String("actor_id", actorID.String()),
		zap.String("from", string(booking.Status)),
		zap.String("to", string(newStatus)),
	)

	if s.notifier != nil {
		s.notifier.BookingStatusChanged(ctx, updated)
	}

	return updated, nil
}

// GetByID получает бронирование по ID
func (s *BookingService) GetByID(ctx context.Context, bookingID uuid.UUID) (*model.Booking, error) {
	return s.bookingRepo.GetByID(ctx, bookingID)
}

// GetStudentBookings получает все бронирования студента
func (s *BookingService) GetStudentBookings(ctx context.Context, studentID uuid.UUID) ([]*model.Booking, error) {
	return s.bookingRepo.GetByStudentID(ctx, studentID)
}

// GetTutorBookings получает все бронирования репетитора
func (s *BookingService) GetTutorBookings(ctx context.Context, tutorID uuid.UUID) ([]*model.Booking, error) {
	return s.bookingRepo.GetByTutorID(ctx, tutorID)
}

// findConflict возвращает первое активное бронирование, интервал которого
// пересекается с кандидатом, или nil если конфликтов нет
func findConflict(candidate model.Interval, existing []*model.Booking) *model.Booking {
	for _, booking := range existing {
		if !booking.IsActive() {
			continue
		}
		if candidate.Overlaps(booking.Interval()) {
			return booking
		}
	}
	return nil
}

// bookingDate возвращает календарную дату занятия. Дата всегда в UTC,
// чтобы сравнения по датам (статистика за месяц) считались в одной зоне.
func bookingDate(start time.Time) time.Time {
	u := start.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
