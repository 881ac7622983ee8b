package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/avoronin/tutor-platform/internal/model"
)

// Фейковые хранилища в памяти для тестов сервисов.

type fakeUserStore struct {
	users map[uuid.UUID]*model.User

	aggregateErr   error
	aggregateCalls int
	lastRating     float64
	lastCount      int
}

func newFakeUserStore(users ...*model.User) *fakeUserStore {
	f := &fakeUserStore{users: make(map[uuid.UUID]*model.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	return f.users[id], nil
}

func (f *fakeUserStore) UpdateRatingAggregate(_ context.Context, tutorID uuid.UUID, rating float64, reviewCount int) error {
	f.aggregateCalls++
	if f.aggregateErr != nil {
		return f.aggregateErr
	}
	f.lastRating = rating
	f.lastCount = reviewCount
	if tutor, ok := f.users[tutorID]; ok {
		tutor.Rating = rating
		tutor.ReviewCount = reviewCount
	}
	return nil
}

func (f *fakeUserStore) UpdateAvailability(_ context.Context, tutorID uuid.UUID, availability []model.DayAvailability) error {
	if tutor, ok := f.users[tutorID]; ok {
		tutor.Availability = availability
	}
	return nil
}

func (f *fakeUserStore) ListTutorIDs(_ context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id, u := range f.users {
		if u.IsTutor() {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// fakeBookingStore различает снимок, который видит сервис при чтении,
// и фактический статус строки на момент записи: так воспроизводится
// конкурентный переход между чтением и compare-and-swap записью.
type fakeBookingStore struct {
	snapshots map[uuid.UUID]*model.Booking
	current   map[uuid.UUID]model.BookingStatus
}

func newFakeBookingStore(bookings ...*model.Booking) *fakeBookingStore {
	f := &fakeBookingStore{
		snapshots: make(map[uuid.UUID]*model.Booking),
		current:   make(map[uuid.UUID]model.BookingStatus),
	}
	for _, b := range bookings {
		f.snapshots[b.ID] = b
		f.current[b.ID] = b.Status
	}
	return f
}

func (f *fakeBookingStore) GetByID(_ context.Context, id uuid.UUID) (*model.Booking, error) {
	booking, ok := f.snapshots[id]
	if !ok {
		return nil, nil
	}
	snapshot := *booking
	return &snapshot, nil
}

func (f *fakeBookingStore) UpdateStatus(_ context.Context, id uuid.UUID, from, to model.BookingStatus) (*model.Booking, error) {
	status, ok := f.current[id]
	if !ok || status != from {
		return nil, nil
	}
	f.current[id] = to
	updated := *f.snapshots[id]
	updated.Status = to
	updated.UpdatedAt = time.Now()
	f.snapshots[id] = &updated
	result := updated
	return &result, nil
}

func (f *fakeBookingStore) LockTutorTx(context.Context, pgx.Tx, uuid.UUID) error {
	return nil
}

func (f *fakeBookingStore) CreateTx(context.Context, pgx.Tx, *model.Booking) error {
	return nil
}

func (f *fakeBookingStore) GetActiveByTutorTx(context.Context, pgx.Tx, uuid.UUID) ([]*model.Booking, error) {
	return nil, nil
}

func (f *fakeBookingStore) GetByStudentID(context.Context, uuid.UUID) ([]*model.Booking, error) {
	return nil, nil
}

func (f *fakeBookingStore) GetByTutorID(context.Context, uuid.UUID) ([]*model.Booking, error) {
	return nil, nil
}

func (f *fakeBookingStore) CountByTutor(context.Context, uuid.UUID) (int64, error) {
	return 0, nil
}

func (f *fakeBookingStore) CountByTutorSince(context.Context, uuid.UUID, time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeBookingStore) CountPendingByTutor(context.Context, uuid.UUID) (int64, error) {
	return 0, nil
}

type fakeReviewStore struct {
	reviews   []*model.Review
	createErr error
}

func (f *fakeReviewStore) Create(_ context.Context, review *model.Review) error {
	if f.createErr != nil {
		return f.createErr
	}
	review.ID = uuid.New()
	review.CreatedAt = time.Now()
	f.reviews = append(f.reviews, review)
	return nil
}

func (f *fakeReviewStore) GetByTutorID(_ context.Context, tutorID uuid.UUID) ([]*model.Review, error) {
	var result []*model.Review
	for _, r := range f.reviews {
		if r.TutorID == tutorID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (f *fakeReviewStore) GetByStudentID(_ context.Context, studentID uuid.UUID) ([]*model.Review, error) {
	var result []*model.Review
	for _, r := range f.reviews {
		if r.StudentID == studentID {
			result = append(result, r)
		}
	}
	return result, nil
}
