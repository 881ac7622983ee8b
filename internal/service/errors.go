package service

import "errors"

var (
	ErrTutorNotFound   = errors.New("tutor not found")
	ErrBookingNotFound = errors.New("booking not found")

	// ErrSlotConflict кандидат пересекается с активным бронированием репетитора.
	// Повторять запрос с тем же интервалом бессмысленно — нужен другой слот.
	ErrSlotConflict = errors.New("time slot is not available")

	ErrInvalidTransition = errors.New("invalid booking status transition")
	ErrUnauthorized      = errors.New("no permission for this booking")

	ErrEmptyComment        = errors.New("comment is required")
	ErrInvalidAvailability = errors.New("invalid availability template")
)
