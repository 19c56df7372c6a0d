package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/kite_planner/internal/model"
	"github.com/Freeeeeet/kite_planner/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const eventColumns = `id, lesson_id, teacher_id, starts_at, duration_minutes, location, status, kite_ids, batch_id, created_at`

type EventRepository struct {
	*base.Repository
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{Repository: base.NewRepository(pool)}
}

// CreateBatch создаёт все события одной транзакцией: либо все, либо ни одного
func (r *EventRepository) CreateBatch(ctx context.Context, events []*model.Event) error {
	query := `
		INSERT INTO events (lesson_id, teacher_id, starts_at, duration_minutes, location, status, kite_ids, batch_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	return r.InTx(ctx, func(tx pgx.Tx) error {
		for _, ev := range events {
			err := tx.QueryRow(
				ctx, query,
				ev.LessonID,
				ev.TeacherID,
				ev.StartsAt.UTC(),
				ev.DurationMinutes,
				ev.Location,
				ev.Status,
				ev.KiteIDs,
				ev.BatchID,
			).Scan(&ev.ID, &ev.CreatedAt)
			if err != nil {
				return fmt.Errorf("create event for lesson %d: %w", ev.LessonID, err)
			}
		}
		return nil
	})
}

// GetByTeacherAndDate получает события учителя за календарный день (UTC)
func (r *EventRepository) GetByTeacherAndDate(ctx context.Context, teacherID int64, date time.Time) ([]*model.Event, error) {
	y, m, d := date.UTC().Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE teacher_id = $1
		  AND starts_at >= $2
		  AND starts_at < $3
		ORDER BY starts_at, lesson_id
	`

	rows, err := r.Query(ctx, query, teacherID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get events by teacher: %w", err)
	}

	return collectEvents(rows)
}

// GetByLessonIDs получает все события для набора уроков
func (r *EventRepository) GetByLessonIDs(ctx context.Context, lessonIDs []int64) ([]*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE lesson_id = ANY($1)
		ORDER BY starts_at
	`

	rows, err := r.Query(ctx, query, lessonIDs)
	if err != nil {
		return nil, fmt.Errorf("get events by lessons: %w", err)
	}

	return collectEvents(rows)
}

func scanEvent(row pgx.Row) (*model.Event, error) {
	var ev model.Event
	err := row.Scan(
		&ev.ID,
		&ev.LessonID,
		&ev.TeacherID,
		&ev.StartsAt,
		&ev.DurationMinutes,
		&ev.Location,
		&ev.Status,
		&ev.KiteIDs,
		&ev.BatchID,
		&ev.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	ev.StartsAt = ev.StartsAt.UTC()
	return &ev, nil
}

func collectEvents(rows pgx.Rows) ([]*model.Event, error) {
	defer rows.Close()

	var events []*model.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}
