package model

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleStudent UserRole = "student"
	UserRoleTutor   UserRole = "tutor"
)

// AvailabilitySlot временное окно в шаблоне доступности, время в формате "15:04"
type AvailabilitySlot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available bool   `json:"available"`
}

// DayAvailability шаблон доступности репетитора на день недели
type DayAvailability struct {
	Day   string             `json:"day"` // Monday..Sunday
	Slots []AvailabilitySlot `json:"slots"`
}

type User struct {
	ID             uuid.UUID         `json:"id"`
	Name           string            `json:"name"`
	Email          string            `json:"email"`
	Role           UserRole          `json:"role"`
	Bio            string            `json:"bio"`
	Subjects       []string          `json:"subjects"`
	HourlyRate     float64           `json:"hourly_rate"`
	Experience     string            `json:"experience"`
	Qualifications string            `json:"qualifications"`
	Availability   []DayAvailability `json:"availability"`
	Rating         float64           `json:"rating"`       // Производный агрегат, см. RecomputeRating
	ReviewCount    int               `json:"review_count"` // Производный агрегат
	TelegramChatID *int64            `json:"telegram_chat_id"` // указатель - может быть nil
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// IsTutor проверяет что пользователь — репетитор
func (u *User) IsTutor() bool {
	return u.Role == UserRoleTutor
}
