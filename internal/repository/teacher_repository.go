package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/kite_planner/internal/model"
	"github.com/Freeeeeet/kite_planner/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TeacherRepository struct {
	*base.Repository
}

func NewTeacherRepository(pool *pgxpool.Pool) *TeacherRepository {
	return &TeacherRepository{Repository: base.NewRepository(pool)}
}

// GetByID получает учителя по ID
func (r *TeacherRepository) GetByID(ctx context.Context, id int64) (*model.Teacher, error) {
	query := `
		SELECT id, telegram_id, first_name, last_name, is_active, created_at
		FROM teachers
		WHERE id = $1
	`

	var t model.Teacher
	err := r.QueryRow(ctx, query, id).Scan(
		&t.ID,
		&t.TelegramID,
		&t.FirstName,
		&t.LastName,
		&t.IsActive,
		&t.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get teacher by id: %w", err)
	}

	return &t, nil
}

// GetByTelegramID находит учителя, привязанного к Telegram-аккаунту
func (r *TeacherRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Teacher, error) {
	query := `
		SELECT id, telegram_id, first_name, last_name, is_active, created_at
		FROM teachers
		WHERE telegram_id = $1
	`

	var t model.Teacher
	err := r.QueryRow(ctx, query, telegramID).Scan(
		&t.ID,
		&t.TelegramID,
		&t.FirstName,
		&t.LastName,
		&t.IsActive,
		&t.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get teacher by telegram id: %w", err)
	}

	return &t, nil
}

// GetActive получает всех активных учителей
func (r *TeacherRepository) GetActive(ctx context.Context) ([]*model.Teacher, error) {
	query := `
		SELECT id, telegram_id, first_name, last_name, is_active, created_at
		FROM teachers
		WHERE is_active = TRUE
		ORDER BY first_name, last_name
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get active teachers: %w", err)
	}
	defer rows.Close()

	var teachers []*model.Teacher
	for rows.Next() {
		var t model.Teacher
		err := rows.Scan(&t.ID, &t.TelegramID, &t.FirstName, &t.LastName, &t.IsActive, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan teacher: %w", err)
		}
		teachers = append(teachers, &t)
	}

	return teachers, rows.Err()
}
