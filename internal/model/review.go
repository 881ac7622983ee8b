package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

const (
	MinRating = 1
	MaxRating = 5
)

// Review отзыв студента о репетиторе.
// Создаётся один раз и больше не изменяется; не более одного отзыва
// на пару (студент, репетитор).
type Review struct {
	ID        uuid.UUID `json:"id"`
	StudentID uuid.UUID `json:"student_id"`
	TutorID   uuid.UUID `json:"tutor_id"`
	Rating    int       `json:"rating"` // 1..5
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`

	// Дополнительные поля для удобства (не из БД)
	Student *User `json:"student,omitempty"`
}

// RecomputeRating пересчитывает агрегат рейтинга по полному набору отзывов.
// Чистая функция: среднее арифметическое оценок, (0, 0) для пустого набора.
func RecomputeRating(reviews []*Review) (rating float64, count int) {
	if len(reviews) == 0 {
		return 0, 0
	}
	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews)), len(reviews)
}
