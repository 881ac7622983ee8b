package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/avoronin/tutor-platform/internal/model"
	"github.com/avoronin/tutor-platform/internal/repository/base"
)

// ErrDuplicateReview повторный отзыв той же пары (студент, репетитор).
// Единственность обеспечивает uniq-индекс в БД.
var ErrDuplicateReview = errors.New("student has already reviewed this tutor")

type ReviewRepository struct {
	*base.Repository
}

func NewReviewRepository(b *base.Repository) *ReviewRepository {
	return &ReviewRepository{Repository: b}
}

// Create создаёт отзыв. Отзывы не обновляются и не удаляются.
func (r *ReviewRepository) Create(ctx context.Context, review *model.Review) error {
	query := `
		INSERT INTO reviews (student_id, tutor_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		review.StudentID,
		review.TutorID,
		review.Rating,
		review.Comment,
	).Scan(&review.ID, &review.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateReview
		}
		return fmt.Errorf("create review: %w", err)
	}

	return nil
}

// isUniqueViolation проверяет что ошибка — нарушение unique-констрейнта (23505)
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// GetByTutorID получает все отзывы о репетиторе, новые первыми.
// Имя студента подтягивается для отображения.
func (r *ReviewRepository) GetByTutorID(ctx context.Context, tutorID uuid.UUID) ([]*model.Review, error) {
	query := `
		SELECT r.id, r.student_id, r.tutor_id, r.rating, r.comment, r.created_at, u.name
		FROM reviews r
		JOIN users u ON u.id = r.student_id
		WHERE r.tutor_id = $1
		ORDER BY r.created_at DESC
	`

	rows, err := r.Query(ctx, query, tutorID)
	if err != nil {
		return nil, fmt.Errorf("get reviews by tutor: %w", err)
	}
	defer rows.Close()

	var reviews []*model.Review
	for rows.Next() {
		var review model.Review
		var studentName string
		err := rows.Scan(
			&review.ID,
			&review.StudentID,
			&review.TutorID,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
			&studentName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		review.Student = &model.User{ID: review.StudentID, Name: studentName}
		reviews = append(reviews, &review)
	}

	return reviews, rows.Err()
}

// GetByStudentID получает все отзывы, оставленные студентом
func (r *ReviewRepository) GetByStudentID(ctx context.Context, studentID uuid.UUID) ([]*model.Review, error) {
	query := `
		SELECT id, student_id, tutor_id, rating, comment, created_at
		FROM reviews
		WHERE student_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("get reviews by student: %w", err)
	}
	defer rows.Close()

	var reviews []*model.Review
	for rows.Next() {
		var review model.Review
		err := rows.Scan(
			&review.ID,
			&review.StudentID,
			&review.TutorID,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, &review)
	}

	return reviews, rows.Err()
}
