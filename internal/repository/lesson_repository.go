package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/kite_planner/internal/model"
	"github.com/Freeeeeet/kite_planner/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const lessonColumns = `id, booking_id, teacher_id, commission_per_hour, status, created_at`

type LessonRepository struct {
	*base.Repository
	events *EventRepository
}

func NewLessonRepository(pool *pgxpool.Pool, events *EventRepository) *LessonRepository {
	return &LessonRepository{Repository: base.NewRepository(pool), events: events}
}

// GetByID получает урок вместе с его событиями
func (r *LessonRepository) GetByID(ctx context.Context, id int64) (*model.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE id = $1`

	lesson, err := scanLesson(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lesson by id: %w", err)
	}

	if err := r.attachEvents(ctx, []*model.Lesson{lesson}); err != nil {
		return nil, err
	}

	return lesson, nil
}

// GetByBookingID получает все уроки брони вместе с событиями
func (r *LessonRepository) GetByBookingID(ctx context.Context, bookingID int64) ([]*model.Lesson, error) {
	query := `
		SELECT ` + lessonColumns + `
		FROM lessons
		WHERE booking_id = $1
		ORDER BY id
	`

	rows, err := r.Query(ctx, query, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get lessons by booking: %w", err)
	}
	defer rows.Close()

	var lessons []*model.Lesson
	for rows.Next() {
		lesson, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		lessons = append(lessons, lesson)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lessons: %w", err)
	}

	if err := r.attachEvents(ctx, lessons); err != nil {
		return nil, err
	}

	return lessons, nil
}

func (r *LessonRepository) attachEvents(ctx context.Context, lessons []*model.Lesson) error {
	if len(lessons) == 0 {
		return nil
	}

	byID := make(map[int64]*model.Lesson, len(lessons))
	ids := make([]int64, 0, len(lessons))
	for _, l := range lessons {
		byID[l.ID] = l
		ids = append(ids, l.ID)
	}

	events, err := r.events.GetByLessonIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("attach events: %w", err)
	}

	for _, ev := range events {
		if l, ok := byID[ev.LessonID]; ok {
			l.Events = append(l.Events, ev)
		}
	}

	return nil
}

func scanLesson(row pgx.Row) (*model.Lesson, error) {
	var lesson model.Lesson
	err := row.Scan(
		&lesson.ID,
		&lesson.BookingID,
		&lesson.TeacherID,
		&lesson.CommissionPerHour,
		&lesson.Status,
		&lesson.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}
