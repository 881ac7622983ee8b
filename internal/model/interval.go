package model

import (
	"errors"
	"time"
)

var ErrInvalidInterval = errors.New("invalid interval")

// Interval полуоткрытый временной интервал [Start, End)
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewInterval создаёт интервал и валидирует границы
func NewInterval(start, end time.Time) (Interval, error) {
	if start.IsZero() || end.IsZero() {
		return Interval{}, ErrInvalidInterval
	}
	if !end.After(start) {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{Start: start, End: end}, nil
}

// Overlaps проверяет пересечение двух интервалов.
// Интервалы, соприкасающиеся только границей, не пересекаются.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// DurationHours возвращает длительность интервала в часах (дробное значение)
func (i Interval) DurationHours() float64 {
	return i.End.Sub(i.Start).Hours()
}
