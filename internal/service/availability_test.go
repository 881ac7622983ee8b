package service

import (
	"errors"
	"testing"

	"github.com/avoronin/tutor-platform/internal/model"
)

func TestValidateAvailability_OK(t *testing.T) {
	availability := []model.DayAvailability{
		{
			Day: "Monday",
			Slots: []model.AvailabilitySlot{
				{StartTime: "09:00", EndTime: "12:00", Available: true},
				{StartTime: "14:00", EndTime: "18:00", Available: true},
			},
		},
		{Day: "Sunday"},
	}

	if err := validateAvailability(availability); err != nil {
		t.Fatalf("expected valid availability, got %v", err)
	}
}

func TestValidateAvailability_UnknownDay(t *testing.T) {
	availability := []model.DayAvailability{
		{Day: "Funday"},
	}

	err := validateAvailability(availability)
	if !errors.Is(err, ErrInvalidAvailability) {
		t.Fatalf("expected ErrInvalidAvailability, got %v", err)
	}
}

func TestValidateAvailability_BadTimeFormat(t *testing.T) {
	availability := []model.DayAvailability{
		{
			Day:   "Tuesday",
			Slots: []model.AvailabilitySlot{{StartTime: "9am", EndTime: "10:00"}},
		},
	}

	err := validateAvailability(availability)
	if !errors.Is(err, ErrInvalidAvailability) {
		t.Fatalf("expected ErrInvalidAvailability, got %v", err)
	}
}

func TestValidateAvailability_InvertedSlot(t *testing.T) {
	availability := []model.DayAvailability{
		{
			Day:   "Wednesday",
			Slots: []model.AvailabilitySlot{{StartTime: "12:00", EndTime: "12:00"}},
		},
	}

	err := validateAvailability(availability)
	if !errors.Is(err, ErrInvalidAvailability) {
		t.Fatalf("expected ErrInvalidAvailability, got %v", err)
	}
}

func TestValidateAvailability_Empty(t *testing.T) {
	if err := validateAvailability(nil); err != nil {
		t.Fatalf("expected empty availability to be valid, got %v", err)
	}
}
