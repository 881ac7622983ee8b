package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/avoronin/tutor-platform/internal/model"
)

type ReviewService struct {
	userRepo   UserStore
	reviewRepo ReviewStore
	logger     *zap.Logger
}

func NewReviewService(
	userRepo UserStore,
	reviewRepo ReviewStore,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		userRepo:   userRepo,
		reviewRepo: reviewRepo,
		logger:     logger,
	}
}

// CreateReview создаёт отзыв и обновляет агрегат рейтинга репетитора.
// Отзыв — первичные данные, агрегат — производный кэш: сбой обновления
// агрегата не откатывает отзыв, фоновая сверка доведёт значение позже.
func (s *ReviewService) CreateReview(
	ctx context.Context,
	studentID, tutorID uuid.UUID,
	rating int,
	comment string,
) (*model.Review, error) {
	if rating < model.MinRating || rating > model.MaxRating {
		return nil, model.ErrInvalidRating
	}

	if comment == "" {
		return nil, ErrEmptyComment
	}

	tutor, err := s.userRepo.GetByID(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("get tutor: %w", err)
	}

	if tutor == nil || !tutor.IsTutor() {
		return nil, ErrTutorNotFound
	}

	review := &model.Review{
		StudentID: studentID,
		TutorID:   tutorID,
		Rating:    rating,
		Comment:   comment,
	}

	err = s.reviewRepo.Create(ctx, review)
	if err != nil {
		// ErrDuplicateReview отдаём как есть: второй отзыв той же пары запрещён
		return nil, err
	}

	s.logger.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("student_id", studentID.String()),
		zap.String("tutor_id", tutorID.String()),
		zap.Int("rating", rating),
	)

	// Пересчитываем агрегат по полному набору отзывов с ограниченным
	// числом повторов. Окончательный сбой только логируем.
	backoff := retry.WithMaxRetries(3, retry.NewExponential(100*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		return retry.RetryableError(s.RefreshTutorRating(ctx, tutorID))
	})
	if err != nil {
		s.logger.Error("Failed to refresh tutor rating, will be reconciled later",
			zap.String("tutor_id", tutorID.String()),
			zap.Error(err),
		)
	}

	return review, nil
}

// RefreshTutorRating пересчитывает агрегат рейтинга репетитора по полному
// набору его отзывов. Идемпотентно; инкрементальных обновлений нет намеренно —
// полный пересчёт самовосстанавливается после потерянных обновлений.
func (s *ReviewService) RefreshTutorRating(ctx context.Context, tutorID uuid.UUID) error {
	reviews, err := s.reviewRepo.GetByTutorID(ctx, tutorID)
	if err != nil {
		return fmt.Errorf("get reviews: %w", err)
	}

	rating, count := model.RecomputeRating(reviews)

	err = s.userRepo.UpdateRatingAggregate(ctx, tutorID, rating, count)
	if err != nil {
		return fmt.Errorf("update aggregate: %w", err)
	}

	return nil
}

// GetTutorReviews получает все отзывы о репетиторе
func (s *ReviewService) GetTutorReviews(ctx context.Context, tutorID uuid.UUID) ([]*model.Review, error) {
	return s.reviewRepo.GetByTutorID(ctx, tutorID)
}

// GetStudentReviews получает все отзывы, оставленные студентом
func (s *ReviewService) GetStudentReviews(ctx context.Context, studentID uuid.UUID) ([]*model.Review, error) {
	return s.reviewRepo.GetByStudentID(ctx, studentID)
}
