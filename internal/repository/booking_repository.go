package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/avoronin/tutor-platform/internal/model"
	"github.com/avoronin/tutor-platform/internal/repository/base"
)

type BookingRepository struct {
	*base.Repository
}

func NewBookingRepository(b *base.Repository) *BookingRepository {
	return &BookingRepository{Repository: b}
}

const bookingColumns = `id, student_id, tutor_id, date, start_time, end_time,
		subject, price, status, notes, created_at, updated_at`

// LockTutorTx берёт advisory-блокировку на календарь репетитора
// до конца транзакции. Сериализует проверку конфликтов и вставку
// для одного репетитора между конкурентными запросами.
func (r *BookingRepository) LockTutorTx(ctx context.Context, tx pgx.Tx, tutorID uuid.UUID) error {
	_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`, tutorID)
	if err != nil {
		return fmt.Errorf("lock tutor calendar: %w", err)
	}
	return nil
}

// CreateTx создаёт бронирование внутри транзакции
func (r *BookingRepository) CreateTx(ctx context.Context, tx pgx.Tx, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (student_id, tutor_id, date, start_time, end_time, subject, price, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRow(
		ctx, query,
		booking.StudentID,
		booking.TutorID,
		booking.Date,
		booking.StartTime,
		booking.EndTime,
		booking.Subject,
		booking.Price,
		booking.Status,
		booking.Notes,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

// GetActiveByTutorTx получает активные бронирования репетитора внутри транзакции.
// Активными считаются только pending и confirmed: отменённые освобождают слот,
// завершённые — история.
func (r *BookingRepository) GetActiveByTutorTx(ctx context.Context, tx pgx.Tx, tutorID uuid.UUID) ([]*model.Booking, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM bookings
		WHERE tutor_id = $1 AND status IN ('pending', 'confirmed')
		ORDER BY start_time
	`, bookingColumns)

	rows, err := tx.Query(ctx, query, tutorID)
	if err != nil {
		return nil, fmt.Errorf("get active bookings by tutor: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// GetByID получает бронирование по ID
func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE id = $1`, bookingColumns)

	booking, err := scanBooking(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return booking, nil
}

// GetByStudentID получает все бронирования студента
func (r *BookingRepository) GetByStudentID(ctx context.Context, studentID uuid.UUID) ([]*model.Booking, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM bookings
		WHERE student_id = $1
		ORDER BY created_at DESC
	`, bookingColumns)

	rows, err := r.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("get bookings by student: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// GetByTutorID получает все бронирования репетитора
func (r *BookingRepository) GetByTutorID(ctx context.Context, tutorID uuid.UUID) ([]*model.Booking, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM bookings
		WHERE tutor_id = $1
		ORDER BY created_at DESC
	`, bookingColumns)

	rows, err := r.Query(ctx, query, tutorID)
	if err != nil {
		return nil, fmt.Errorf("get bookings by tutor: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// UpdateStatus обновляет статус бронирования и возвращает обновлённую запись.
// Запись по принципу compare-and-swap: строка меняется только если статус
// всё ещё равен прочитанному ранее. При промахе (конкурентный переход успел
// раньше) возвращает (nil, nil). Другие поля не затрагиваются.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.BookingStatus) (*model.Booking, error) {
	query := fmt.Sprintf(`
		UPDATE bookings
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
		RETURNING %s
	`, bookingColumns)

	booking, err := scanBooking(r.QueryRow(ctx, query, to, id, from))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	return booking, nil
}

// CountByTutor считает все бронирования репетитора
func (r *BookingRepository) CountByTutor(ctx context.Context, tutorID uuid.UUID) (int64, error) {
	var count int64
	err := r.QueryRow(ctx, `SELECT count(*) FROM bookings WHERE tutor_id = $1`, tutorID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count bookings by tutor: %w", err)
	}
	return count, nil
}

// CountByTutorSince считает бронирования репетитора с датой занятия не раньше указанной
func (r *BookingRepository) CountByTutorSince(ctx context.Context, tutorID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := r.QueryRow(
		ctx,
		`SELECT count(*) FROM bookings WHERE tutor_id = $1 AND date >= $2`,
		tutorID, since,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count bookings by tutor since: %w", err)
	}
	return count, nil
}

// CountPendingByTutor считает бронирования репетитора, ожидающие подтверждения
func (r *BookingRepository) CountPendingByTutor(ctx context.Context, tutorID uuid.UUID) (int64, error) {
	var count int64
	err := r.QueryRow(
		ctx,
		`SELECT count(*) FROM bookings WHERE tutor_id = $1 AND status = 'pending'`,
		tutorID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count pending bookings by tutor: %w", err)
	}
	return count, nil
}

// scanBooking читает бронирование из строки результата
func scanBooking(row pgx.Row) (*model.Booking, error) {
	var booking model.Booking
	err := row.Scan(
		&booking.ID,
		&booking.StudentID,
		&booking.TutorID,
		&booking.Date,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Subject,
		&booking.Price,
		&booking.Status,
		&booking.Notes,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func collectBookings(rows pgx.Rows) ([]*model.Booking, error) {
	var bookings []*model.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}
