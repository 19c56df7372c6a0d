package model

import (
	"time"

	"github.com/google/uuid"
)

type EventStatus string

const (
	EventStatusPlanned   EventStatus = "planned"
	EventStatusTBC       EventStatus = "tbc"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

// Event is a committed calendar entry for a lesson.
type Event struct {
	ID              int64       `json:"id"`
	LessonID        int64       `json:"lesson_id"`
	TeacherID       int64       `json:"teacher_id"`
	StartsAt        time.Time   `json:"starts_at"` // UTC
	DurationMinutes int         `json:"duration_minutes"`
	Location        Location    `json:"location"`
	Status          EventStatus `json:"status"`
	KiteIDs         []int64     `json:"kite_ids"`
	BatchID         uuid.UUID   `json:"batch_id"` // идентификатор отправки с доски
	CreatedAt       time.Time   `json:"created_at"`
}

// EndsAt возвращает время окончания события
func (e *Event) EndsAt() time.Time {
	return e.StartsAt.Add(time.Duration(e.DurationMinutes) * time.Minute)
}
