package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/kite_planner/internal/model"
)

// EventStore - граница персистентности для событий календаря
type EventStore interface {
	GetByTeacherAndDate(ctx context.Context, teacherID int64, date time.Time) ([]*model.Event, error)
	CreateBatch(ctx context.Context, events []*model.Event) error
}

// LessonStore отдаёт урок вместе с его событиями
type LessonStore interface {
	GetByID(ctx context.Context, id int64) (*model.Lesson, error)
}

// BookingStore отдаёт бронь с пакетом, студентами, уроками и событиями
type BookingStore interface {
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	GetActive(ctx context.Context) ([]*model.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) error
}
