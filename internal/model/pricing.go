package model

import "errors"

var ErrInvalidRate = errors.New("invalid hourly rate")

// CalculatePrice считает стоимость занятия: длительность в часах * почасовая ставка.
// Округление до валютных единиц остаётся на вызывающей стороне.
func CalculatePrice(interval Interval, hourlyRate float64) (float64, error) {
	if hourlyRate < 0 {
		return 0, ErrInvalidRate
	}
	return interval.DurationHours() * hourlyRate, nil
}
