package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"   // Ожидает подтверждения репетитора
	BookingStatusConfirmed BookingStatus = "confirmed" // Подтверждено
	BookingStatusCompleted BookingStatus = "completed" // Занятие проведено
	BookingStatusCancelled BookingStatus = "cancelled" // Отменено
)

// statusTransitions граф допустимых переходов статуса.
// completed и cancelled — терминальные состояния.
var statusTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusCompleted: {},
	BookingStatusCancelled: {},
}

// IsValidBookingStatus проверяет что статус входит в известный набор
func IsValidBookingStatus(status BookingStatus) bool {
	_, ok := statusTransitions[status]
	return ok
}

type Booking struct {
	ID        uuid.UUID     `json:"id"`
	StudentID uuid.UUID     `json:"student_id"`
	TutorID   uuid.UUID     `json:"tutor_id"`
	Date      time.Time     `json:"date"` // Календарная дата занятия (совпадает с датой StartTime)
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Subject   string        `json:"subject"`
	Price     float64       `json:"price"` // Фиксируется при создании, дальше не пересчитывается
	Status    BookingStatus `json:"status"`
	Notes     string        `json:"notes"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	// Дополнительные поля для удобства (не из БД)
	Student *User `json:"student,omitempty"`
	Tutor   *User `json:"tutor,omitempty"`
}

// Interval возвращает забронированный временной интервал
func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// IsActive активное бронирование занимает слот в календаре репетитора
func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

// CanTransitionTo проверяет допустим ли переход в новый статус по графу переходов
func (b *Booking) CanTransitionTo(status BookingStatus) bool {
	for _, next := range statusTransitions[b.Status] {
		if next == status {
			return true
		}
	}
	return false
}

// IsParticipant проверяет что пользователь — студент или репетитор этого бронирования
func (b *Booking) IsParticipant(userID uuid.UUID) bool {
	return b.StudentID == userID || b.TutorID == userID
}
