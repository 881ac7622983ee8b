package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avoronin/tutor-platform/internal/model"
	"github.com/avoronin/tutor-platform/internal/repository"
)

func newReviewFixture(t *testing.T) (*ReviewService, *fakeUserStore, *fakeReviewStore, *model.User) {
	t.Helper()

	tutor := &model.User{ID: uuid.New(), Name: "Анна", Role: model.UserRoleTutor}
	users := newFakeUserStore(tutor)
	reviews := &fakeReviewStore{}
	svc := NewReviewService(users, reviews, zap.NewNop())

	return svc, users, reviews, tutor
}

func TestCreateReview_OK(t *testing.T) {
	svc, users, _, tutor := newReviewFixture(t)

	review, err := svc.CreateReview(context.Background(), uuid.New(), tutor.ID, 5, "отличный преподаватель")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if review.ID == uuid.Nil {
		t.Fatalf("expected review to get an id")
	}

	// Агрегат пересчитан по полному набору отзывов
	if users.lastRating != 5.0 || users.lastCount != 1 {
		t.Fatalf("expected aggregate (5.0, 1), got (%v, %d)", users.lastRating, users.lastCount)
	}
}

func TestCreateReview_Duplicate(t *testing.T) {
	svc, users, reviews, tutor := newReviewFixture(t)
	reviews.createErr = repository.ErrDuplicateReview

	_, err := svc.CreateReview(context.Background(), uuid.New(), tutor.ID, 3, "повторный отзыв")
	if !errors.Is(err, repository.ErrDuplicateReview) {
		t.Fatalf("expected ErrDuplicateReview, got %v", err)
	}
	if users.aggregateCalls != 0 {
		t.Fatalf("expected no aggregate update after rejected review, got %d calls", users.aggregateCalls)
	}
}

func TestCreateReview_AggregateFailureKeepsReview(t *testing.T) {
	// Отзыв — первичные данные: сбой записи агрегата не откатывает отзыв
	svc, users, reviews, tutor := newReviewFixture(t)
	users.aggregateErr = errors.New("connection lost")

	review, err := svc.CreateReview(context.Background(), uuid.New(), tutor.ID, 4, "хорошо объясняет")
	if err != nil {
		t.Fatalf("expected review to be created despite aggregate failure, got %v", err)
	}
	if review == nil || len(reviews.reviews) != 1 {
		t.Fatalf("expected review to be persisted")
	}
	if users.aggregateCalls == 0 {
		t.Fatalf("expected aggregate update to be attempted")
	}
}

func TestCreateReview_InvalidRating(t *testing.T) {
	svc, _, _, tutor := newReviewFixture(t)

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.CreateReview(context.Background(), uuid.New(), tutor.ID, rating, "текст")
		if !errors.Is(err, model.ErrInvalidRating) {
			t.Fatalf("rating %d: expected ErrInvalidRating, got %v", rating, err)
		}
	}
}

func TestCreateReview_EmptyComment(t *testing.T) {
	svc, _, _, tutor := newReviewFixture(t)

	_, err := svc.CreateReview(context.Background(), uuid.New(), tutor.ID, 4, "")
	if !errors.Is(err, ErrEmptyComment) {
		t.Fatalf("expected ErrEmptyComment, got %v", err)
	}
}

func TestCreateReview_TutorNotFound(t *testing.T) {
	svc, _, _, _ := newReviewFixture(t)

	_, err := svc.CreateReview(context.Background(), uuid.New(), uuid.New(), 4, "текст")
	if !errors.Is(err, ErrTutorNotFound) {
		t.Fatalf("expected ErrTutorNotFound, got %v", err)
	}
}

func TestRefreshTutorRating_FullRecompute(t *testing.T) {
	svc, users, reviews, tutor := newReviewFixture(t)
	for _, rating := range []int{5, 4, 3} {
		reviews.reviews = append(reviews.reviews, &model.Review{
			ID:      uuid.New(),
			TutorID: tutor.ID,
			Rating:  rating,
		})
	}

	if err := svc.RefreshTutorRating(context.Background(), tutor.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if users.lastRating != 4.0 || users.lastCount != 3 {
		t.Fatalf("expected aggregate (4.0, 3), got (%v, %d)", users.lastRating, users.lastCount)
	}
}
