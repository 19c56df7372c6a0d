package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/kite_planner/internal/model"
	"github.com/stretchr/testify/mock"
)

type mockEventStore struct {
	mock.Mock
}

func (m *mockEventStore) GetByTeacherAndDate(ctx context.Context, teacherID int64, date time.Time) ([]*model.Event, error) {
	args := m.Called(ctx, teacherID, date)
	events, _ := args.Get(0).([]*model.Event)
	return events, args.Error(1)
}

func (m *mockEventStore) CreateBatch(ctx context.Context, events []*model.Event) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

type mockLessonStore struct {
	mock.Mock
}

func (m *mockLessonStore) GetByID(ctx context.Context, id int64) (*model.Lesson, error) {
	args := m.Called(ctx, id)
	lesson, _ := args.Get(0).(*model.Lesson)
	return lesson, args.Error(1)
}

type mockBookingStore struct {
	mock.Mock
}

func (m *mockBookingStore) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	args := m.Called(ctx, id)
	booking, _ := args.Get(0).(*model.Booking)
	return booking, args.Error(1)
}

func (m *mockBookingStore) GetActive(ctx context.Context) ([]*model.Booking, error) {
	args := m.Called(ctx)
	bookings, _ := args.Get(0).([]*model.Booking)
	return bookings, args.Error(1)
}

func (m *mockBookingStore) UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
