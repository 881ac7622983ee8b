package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	if !isUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatalf("expected 23505 to be a unique violation")
	}
}

func TestIsUniqueViolation_Wrapped(t *testing.T) {
	err := fmt.Errorf("create review: %w", &pgconn.PgError{Code: "23505"})
	if !isUniqueViolation(err) {
		t.Fatalf("expected wrapped 23505 to be a unique violation")
	}
}

func TestIsUniqueViolation_OtherCode(t *testing.T) {
	// 23503 — нарушение внешнего ключа
	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatalf("expected foreign key violation not to match")
	}
}

func TestIsUniqueViolation_PlainError(t *testing.T) {
	if isUniqueViolation(errors.New("connection refused")) {
		t.Fatalf("expected plain error not to match")
	}
}
