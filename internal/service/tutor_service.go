package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avoronin/tutor-platform/internal/model"
)

// TutorStats сводка для кабинета репетитора
type TutorStats struct {
	TotalSessions   int64   `json:"total_sessions"`
	ThisMonth       int64   `json:"this_month"`
	PendingBookings int64   `json:"pending_bookings"`
	AvgRating       float64 `json:"avg_rating"`
}

type TutorService struct {
	userRepo    UserStore
	bookingRepo BookingStore
	reviewRepo  ReviewStore
	logger      *zap.Logger
}

func NewTutorService(
	userRepo UserStore,
	bookingRepo BookingStore,
	reviewRepo ReviewStore,
	logger *zap.Logger,
) *TutorService {
	return &TutorService{
		userRepo:    userRepo,
		bookingRepo: bookingRepo,
		reviewRepo:  reviewRepo,
		logger:      logger,
	}
}

// GetTutor получает профиль репетитора
func (s *TutorService) GetTutor(ctx context.Context, tutorID uuid.UUID) (*model.User, error) {
	tutor, err := s.userRepo.GetByID(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("get tutor: %w", err)
	}

	if tutor == nil || !tutor.IsTutor() {
		return nil, ErrTutorNotFound
	}

	return tutor, nil
}

// Stats собирает сводку по занятиям и рейтингу репетитора.
// AvgRating считается по живому набору отзывов, не по кэшу на профиле.
func (s *TutorService) Stats(ctx context.Context, tutorID uuid.UUID) (*TutorStats, error) {
	total, err := s.bookingRepo.CountByTutor(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}

	// Даты занятий хранятся нормализованными в UTC (см. bookingDate),
	// поэтому и граница месяца считается в UTC
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	thisMonth, err := s.bookingRepo.CountByTutorSince(ctx, tutorID, monthStart)
	if err != nil {
		return nil, fmt.Errorf("count sessions this month: %w", err)
	}

	pending, err := s.bookingRepo.CountPendingByTutor(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("count pending bookings: %w", err)
	}

	reviews, err := s.reviewRepo.GetByTutorID(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("get reviews: %w", err)
	}

	avgRating, _ := model.RecomputeRating(reviews)

	return &TutorStats{
		TotalSessions:   total,
		ThisMonth:       thisMonth,
		PendingBookings: pending,
		AvgRating:       avgRating,
	}, nil
}

// SetAvailability обновляет недельный шаблон доступности репетитора.
// Шаблон информационный: единственный фильтр при создании бронирования —
// проверка конфликтов, шаблон на неё не влияет.
func (s *TutorService) SetAvailability(ctx context.Context, tutorID uuid.UUID, availability []model.DayAvailability) error {
	if err := validateAvailability(availability); err != nil {
		return err
	}

	tutor, err := s.userRepo.GetByID(ctx, tutorID)
	if err != nil {
		return fmt.Errorf("get tutor: %w", err)
	}

	if tutor == nil || !tutor.IsTutor() {
		return ErrTutorNotFound
	}

	err = s.userRepo.UpdateAvailability(ctx, tutorID, availability)
	if err != nil {
		return fmt.Errorf("update availability: %w", err)
	}

	s.logger.Info("Availability updated",
		zap.String("tutor_id", tutorID.String()),
		zap.Int("days", len(availability)),
	)

	return nil
}

// ReconcileRatings пересчитывает агрегаты рейтинга всех репетиторов.
// Страхует от потерянных обновлений агрегата при создании отзыва.
func (s *TutorService) ReconcileRatings(ctx context.Context) error {
	tutorIDs, err := s.userRepo.ListTutorIDs(ctx)
	if err != nil {
		return fmt.Errorf("list tutors: %w", err)
	}

	var failed int
	for _, tutorID := range tutorIDs {
		reviews, err := s.reviewRepo.GetByTutorID(ctx, tutorID)
		if err != nil {
			s.logger.Error("Failed to read reviews for reconciliation",
				zap.String("tutor_id", tutorID.String()),
				zap.Error(err))
			failed++
			continue
		}

		rating, count := model.RecomputeRating(reviews)

		err = s.userRepo.UpdateRatingAggregate(ctx, tutorID, rating, count)
		if err != nil {
			s.logger.Error("Failed to reconcile tutor rating",
				zap.String("tutor_id", tutorID.String()),
				zap.Error(err))
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("reconcile ratings: %d of %d tutors failed", failed, len(tutorIDs))
	}

	return nil
}

var weekdays = map[string]bool{
	"Monday":    true,
	"Tuesday":   true,
	"Wednesday": true,
	"Thursday":  true,
	"Friday":    true,
	"Saturday":  true,
	"Sunday":    true,
}

// validateAvailability проверяет дни недели и формат времени в шаблоне
func validateAvailability(availability []model.DayAvailability) error {
	for _, day := range availability {
		if !weekdays[day.Day] {
			return ErrInvalidAvailability
		}
		for _, slot := range day.Slots {
			start, err := time.Parse("15:04", slot.StartTime)
			if err != nil {
				return ErrInvalidAvailability
			}
			end, err := time.Parse("15:04", slot.EndTime)
			if err != nil {
				return ErrInvalidAvailability
			}
			if !end.After(start) {
				return ErrInvalidAvailability
			}
		}
	}
	return nil
}
