package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/avoronin/tutor-platform/internal/model"
	"github.com/avoronin/tutor-platform/internal/repository/base"
)

type UserRepository struct {
	*base.Repository
}

func NewUserRepository(b *base.Repository) *UserRepository {
	return &UserRepository{Repository: b}
}

const userColumns = `id, name, email, role, bio, subjects, hourly_rate, experience,
		qualifications, availability, rating, review_count, telegram_chat_id,
		created_at, updated_at`

// Create создаёт нового пользователя
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	availability, err := json.Marshal(user.Availability)
	if err != nil {
		return fmt.Errorf("marshal availability: %w", err)
	}

	query := `
		INSERT INTO users (name, email, role, bio, subjects, hourly_rate, experience,
			qualifications, availability, telegram_chat_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, rating, review_count, created_at, updated_at
	`

	err = r.QueryRow(
		ctx, query,
		user.Name,
		user.Email,
		user.Role,
		user.Bio,
		user.Subjects,
		user.HourlyRate,
		user.Experience,
		user.Qualifications,
		availability,
		user.TelegramChatID,
	).Scan(&user.ID, &user.Rating, &user.ReviewCount, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByID получает пользователя по ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	user, err := scanUser(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return user, nil
}

// UpdateRatingAggregate записывает производный агрегат рейтинга репетитора
func (r *UserRepository) UpdateRatingAggregate(ctx context.Context, tutorID uuid.UUID, rating float64, reviewCount int) error {
	query := `
		UPDATE users
		SET rating = $1, review_count = $2, updated_at = now()
		WHERE id = $3 AND role = 'tutor'
	`

	affected, err := r.ExecAffected(ctx, query, rating, reviewCount, tutorID)
	if err != nil {
		return fmt.Errorf("update rating aggregate: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("tutor not found")
	}

	return nil
}

// UpdateAvailability обновляет шаблон доступности репетитора
func (r *UserRepository) UpdateAvailability(ctx context.Context, tutorID uuid.UUID, availability []model.DayAvailability) error {
	raw, err := json.Marshal(availability)
	if err != nil {
		return fmt.Errorf("marshal availability: %w", err)
	}

	query := `
		UPDATE users
		SET availability = $1, updated_at = now()
		WHERE id = $2 AND role = 'tutor'
	`

	affected, err := r.ExecAffected(ctx, query, raw, tutorID)
	if err != nil {
		return fmt.Errorf("update availability: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("tutor not found")
	}

	return nil
}

// ListTutorIDs получает идентификаторы всех репетиторов
func (r *UserRepository) ListTutorIDs(ctx context.Context) ([]uuid.UUID, error) {
	query := `SELECT id FROM users WHERE role = 'tutor' ORDER BY created_at`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tutor ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan tutor id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// scanUser читает пользователя из строки результата
func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	var availability []byte

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Role,
		&user.Bio,
		&user.Subjects,
		&user.HourlyRate,
		&user.Experience,
		&user.Qualifications,
		&availability,
		&user.Rating,
		&user.ReviewCount,
		&user.TelegramChatID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(availability) > 0 {
		if err := json.Unmarshal(availability, &user.Availability); err != nil {
			return nil, fmt.Errorf("unmarshal availability: %w", err)
		}
	}

	return &user, nil
}
