package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/kite_planner/internal/metrics"
	"github.com/Freeeeeet/kite_planner/internal/model"
	"github.com/Freeeeeet/kite_planner/internal/schedule"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const teacherID int64 = 7

var boardDate = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

type plannerFixture struct {
	svc      *PlannerService
	events   *mockEventStore
	lessons  *mockLessonStore
	bookings *mockBookingStore
}

func newPlannerFixture(t *testing.T) *plannerFixture {
	t.Helper()

	f := &plannerFixture{
		events:   &mockEventStore{},
		lessons:  &mockLessonStore{},
		bookings: &mockBookingStore{},
	}
	f.svc = NewPlannerService(
		f.events,
		f.lessons,
		f.bookings,
		PlannerConfig{
			DefaultCaps:  schedule.DurationCaps{Private: 60, SemiPrivate: 90, Group: 180},
			DefaultStart: 600,
		},
		metrics.NewMetrics("test", prometheus.NewRegistry()),
		zaptest.NewLogger(t),
	)

	t.Cleanup(func() {
		f.events.AssertExpectations(t)
		f.lessons.AssertExpectations(t)
		f.bookings.AssertExpectations(t)
	})
	return f
}

func (f *plannerFixture) open(t *testing.T, events ...*model.Event) *Board {
	t.Helper()
	f.events.On("GetByTeacherAndDate", mock.Anything, teacherID, boardDate).Return(events, nil).Once()

	board, err := f.svc.OpenBoard(context.Background(), teacherID, boardDate)
	require.NoError(t, err)
	return board
}

// expectLesson wires the stores for Enqueue of one lesson of the booking
func (f *plannerFixture) expectLesson(lesson *model.Lesson, booking *model.Booking) {
	f.lessons.On("GetByID", mock.Anything, lesson.ID).Return(lesson, nil).Once()
	f.bookings.On("GetByID", mock.Anything, booking.ID).Return(booking, nil).Once()
}

func newBooking(id int64, total int, students int, lessons ...*model.Lesson) *model.Booking {
	b := &model.Booking{
		ID:      id,
		Status:  model.BookingStatusActive,
		Package: &model.Package{ID: 1, DurationMinutes: total},
		Lessons: lessons,
	}
	for i := 0; i < students; i++ {
		b.Students = append(b.Students, &model.Student{ID: int64(i + 1), FirstName: "Student", LastName: string(rune('A' + i))})
	}
	for _, l := range lessons {
		l.BookingID = id
	}
	return b
}

func newLesson(id, teacher int64, events ...*model.Event) *model.Lesson {
	return &model.Lesson{ID: id, TeacherID: teacher, Status: model.LessonStatusPlanned, Events: events}
}

func eventAt(lessonID int64, hour, minutes int, status model.EventStatus) *model.Event {
	return &model.Event{
		ID:              lessonID * 10,
		LessonID:        lessonID,
		TeacherID:       teacherID,
		StartsAt:        boardDate.Add(time.Duration(hour) * time.Hour),
		DurationMinutes: minutes,
		Location:        model.LocationLosLances,
		Status:          status,
	}
}

func TestPlannerService_OpenBoard(t *testing.T) {
	f := newPlannerFixture(t)

	board := f.open(t, eventAt(99, 9, 60, model.EventStatusPlanned))

	assert.Equal(t, "2025-06-01", board.Date)
	assert.Equal(t, "10:00", board.PreferredTime)
	assert.Len(t, board.Events, 1)
	assert.Equal(t, "09:00", board.FlagTime)
	assert.Empty(t, board.Queue)
	assert.False(t, board.CanSchedule)
}

func TestPlannerService_OpenBoard_StoreError(t *testing.T) {
	f := newPlannerFixture(t)
	f.events.On("GetByTeacherAndDate", mock.Anything, teacherID, boardDate).Return(nil, errors.New("db down")).Once()

	_, err := f.svc.OpenBoard(context.Background(), teacherID, boardDate)

	require.Error(t, err)
	_, err = f.svc.Board(teacherID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestPlannerService_Enqueue_DefaultDurationAndStart(t *testing.T) {
	f := newPlannerFixture(t)
	f.open(t)

	lesson := newLesson(1, teacherID)
	booking := newBooking(10, 120, 2, lesson)
	f.expectLesson(lesson, booking)

	board, err := f.svc.Enqueue(context.Background(), teacherID, 1)
	require.NoError(t, err)

	require.Len(t, board.Queue, 1)
	assert.Equal(t, "10:00", board.Queue[0].StartTime)
	assert.Equal(t, 90, board.Queue[0].Duration)
	assert.Equal(t, []string{"Student A", "Student B"}, board.Queue[0].StudentNames)
	assert.False(t, board.Queue[0].HasGap)
	assert.True(t, board.CanSchedule)
}

func TestPlannerService_Enqueue_SecondLessonSharesRemaining(t *testing.T) {
	f := newPlannerFixture(t)
	f.open(t)

	first := newLesson(1, teacherID)
	second := newLesson(2, teacherID)
	booking := newBooking(10, 120, 2, first, second)
	f.expectLesson(first, booking)
	f.expectLesson(second, booking)

	_, err := f.svc.Enqueue(context.Background(), teacherID, 1)
	require.NoError(t, err)
	board, err := f.svc.Enqueue(context.Background(), teacherID, 2)
	require.NoError(t, err)

	require.Len(t, board.Queue, 2)
	assert.Equal(t, "11:30", board.Queue[1].StartTime)
	assert.Equal(t, 30, board.Queue[1].Duration)
}

func TestPlannerService_Dispatch_ResizeKeepsBookingWithinPackage(t *testing.T) {
	f := newPlannerFixture(t)
	f.open(t)

	first := newLesson(1, teacherID)
	second := newLesson(2, teacherID)
	booking := newBooking(10, 120, 1, first, second)
	f.expectLesson(first, booking)
	f.expectLesson(second, booking)

	_, err := f.svc.Enqueue(context.Background(), teacherID, 1)
	require.NoError(t, err)
	_, err = f.svc.Enqueue(context.Background(), teacherID, 2)
	require.NoError(t, err)

	_, err = f.svc.Dispatch(teacherID, schedule.ResizeLesson{LessonID: 1, Delta: schedule.Step})
	require.NoError(t, err)
	board, err := f.svc.Dispatch(teacherID, schedule.ResizeLesson{LessonID: 2, Delta: schedule.Step})
	require.NoError(t, err)

	total := 0
	for _, it := range board.Queue {
		total += it.Duration
	}
	assert.Equal(t, 120, total)
	assert.Equal(t, 60, board.Queue[0].Duration)
	assert.Equal(t, 60, board.Queue[1].Duration)
}

func TestPlannerService_Enqueue_NoRemainingMinutes(t *testing.T) {
	f := newPlannerFixture(t)
	f.open(t)

	lesson := newLesson(1, teacherID)
	done := newLesson(2, teacherID, &model.Event{LessonID: 2, DurationMinutes: 120, Status: model.EventStatusCompleted, StartsAt: boardDate.AddDate(0, 0, -1)})
	booking := newBooking(10, 120, 1, lesson, done)
	f.expectLesson(lesson, booking)

	_, err := f.svc.Enqueue(context.Background(), teacherID, 1)

	assert.ErrorIs(t, err, ErrNoRemainingMinutes)
}

func TestPlannerService_Enqueue_NotSchedulable(t *testing.T) {
	tests := []struct {
		name   string
		lesson func() *model.Lesson
		status model.BookingStatus
	}{
		{
			name:   "other teacher",
			lesson: func() *model.Lesson { return newLesson(1, teacherID+1) },
			status: model.BookingStatusActive,
		},
		{
			name: "lesson delegated",
			lesson: func() *model.Lesson {
				l := newLesson(1, teacherID)
				l.Status = model.LessonStatusDelegated
				return l
			},
			status: model.BookingStatusActive,
		},
		{
			name: "event already on date",
			lesson: func() *model.Lesson {
				return newLesson(1, teacherID, eventAt(1, 12, 60, model.EventStatusPlanned))
			},
			status: model.BookingStatusActive,
		},
		{
			name:   "booking cancelled",
			lesson: func() *model.Lesson { return newLesson(1, teacherID) },
			status: model.BookingStatusCancelled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPlannerFixture(t)
			f.open(t)

			lesson := tt.lesson()
			booking := newBooking(10, 240, 1, lesson)
			booking.Status = tt.status
			f.expectLesson(lesson, booking)

			_, err := f.svc.Enqueue(context.Background(), teacherID, 1)

			assert.ErrorIs(t, err, ErrLessonNotSchedulable)
			board, err := f.svc.Board(teacherID)
			require.NoError(t, err)
			assert.Empty(t, board.Queue)
		})
	}
}

func TestPlannerService_Enqueue_CancelledEventOnDateIsIgnored(t *testing.T) {
	f := newPlannerFixture(t)
	f.open(t)

	lesson := newLesson(1, teacherID, eventAt(1, 12, 60, model.EventStatusCancelled))
	booking := newBooking(10, 240, 1, lesson)
	f.expectLesson(lesson, booking)

	board, err := f.svc.Enqueue(context.Background(), teacherID, 1)

	require.NoError(t, err)
	assert.Len(t, board.Queue, 1)
}

func TestPlannerService_Enqueue_Duplicate(t *testing.T) {
	f := newPlannerFixture(t)
	f.open(t)

	lesson := newLesson(1, teacherID)
	booking := newBooking(10, 480, 1, lesson)
	f.expectLesson(lesson, booking)
	f.expectLesson(lesson, booking)

	_, err := f.svc.Enqueue(context.Background(), teacherID, 1)
	require.NoError(t, err)
	_, err = f.svc.Enqueue(context.Background(), teacherID, 1)

	assert.ErrorIs(t, err, ErrAlreadyQueued)
}

func TestPlannerService_Enqueue_LessonNotFound(t *testing.T) {
	f := newPlannerFixture(t)
	f.open(t)
	f.lessons.On("GetByID", mock.Anything, int64(404)).Return(nil, nil).Once()

	_, err := f.svc.Enqueue(context.Background(), teacherID, 404)

	assert.ErrorIs(t, err, ErrLessonNotFound)
}

func TestPlannerService_MissingBoardIsNoop(t *testing.T) {
	f := newPlannerFixture(t)

	_, err := f.svc.Enqueue(context.Background(), teacherID, 1)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = f.svc.Dispatch(teacherID, schedule.RetimeLesson{LessonID: 1, Delta: schedule.Step})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = f.svc.Submit(context.Background(), teacherID, model.LocationLosLances)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestPlannerService_EnqueueBooking(t *testing.T) {
	f := newPlannerFixture(t)
	f.open(t)

	mine := newLesson(1, teacherID)
	other := newLesson(2, teacherID+1)
	rest := newLesson(3, teacherID)
	rest.Status = model.LessonStatusRest
	alsoMine := newLesson(4, teacherID)
	booking := newBooking(10, 600, 4, mine, other, rest, alsoMine)
	f.bookings.On("GetByID", mock.Anything, int64(10)).Return(booking, nil).Once()

	board, added, err := f.svc.EnqueueBooking(context.Background(), teacherID, 10, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, added)
	require.Len(t, board.Queue, 2)
	assert.Equal(t, int64(1), board.Queue[0].LessonID)
	assert.Equal(t, 180, board.Queue[0].Duration)
	assert.Equal(t, int64(4), board.Queue[1].LessonID)
	assert.Equal(t, "13:00", board.Queue[1].StartTime)
}

func TestPlannerService_EnqueueBooking_SelectedLessons(t *testing.T) {
	f := newPlannerFixture(t)
	f.open(t)

	booking := newBooking(10, 600, 1, newLesson(1, teacherID), newLesson(2, teacherID))
	f.bookings.On("GetByID", mock.Anything, int64(10)).Return(booking, nil).Once()

	board, added, err := f.svc.EnqueueBooking(context.Background(), teacherID, 10, []int64{2})
	require.NoError(t, err)

	assert.Equal(t, 1, added)
	assert.Equal(t, int64(2), board.Queue[0].LessonID)
}

func TestPlannerService_Dispatch(t *testing.T) {
	f := newPlannerFixture(t)
	f.open(t)
	_, err := f.svc.Dispatch(teacherID, schedule.AddLesson{LessonID: 1, Duration: 60, Remaining: 120})
	require.NoError(t, err)
	_, err = f.svc.Dispatch(teacherID, schedule.AddLesson{LessonID: 2, Duration: 60, Remaining: 120})
	require.NoError(t, err)

	board, err := f.svc.Dispatch(teacherID, schedule.RetimeLesson{LessonID: 2, Delta: 60})
	require.NoError(t, err)
	assert.True(t, board.Queue[1].HasGap)
	assert.Equal(t, 60, board.Queue[1].GapMinutes)

	board, err = f.svc.Dispatch(teacherID, schedule.RemoveGap{LessonID: 2})
	require.NoError(t, err)
	assert.False(t, board.Queue[1].HasGap)
	assert.Equal(t, "11:00", board.Queue[1].StartTime)
}

func TestPlannerService_JumpToFreeSlot(t *testing.T) {
	f := newPlannerFixture(t)
	board := f.open(t, eventAt(99, 10, 60, model.EventStatusPlanned))
	assert.Equal(t, "11:00", board.NextFreeTime)
	assert.NotContains(t, board.FreeSlots, "10:00")
	assert.Contains(t, board.FreeSlots, "06:00")

	board, err := f.svc.JumpToFreeSlot(teacherID)
	require.NoError(t, err)
	assert.Equal(t, "11:00", board.PreferredTime)

	board, err = f.svc.Dispatch(teacherID, schedule.AddLesson{LessonID: 1, BookingID: 10, Duration: 60, Remaining: 120})
	require.NoError(t, err)
	assert.Equal(t, "11:00", board.Queue[0].StartTime)
	assert.True(t, board.CanSchedule)
	assert.Equal(t, "12:00", board.NextFreeTime)
}

func TestPlannerService_JumpToFreeSlot_FullDay(t *testing.T) {
	f := newPlannerFixture(t)
	board := f.open(t, eventAt(99, 6, 17*60, model.EventStatusPlanned))
	assert.Empty(t, board.NextFreeTime)
	assert.Empty(t, board.FreeSlots)

	_, err := f.svc.JumpToFreeSlot(teacherID)
	assert.ErrorIs(t, err, ErrNoFreeSlot)
}

func TestPlannerService_SetCaps(t *testing.T) {
	f := newPlannerFixture(t)
	f.open(t)

	_, err := f.svc.SetCaps(teacherID, schedule.DurationCaps{Private: 30, SemiPrivate: 90, Group: 120})
	assert.ErrorIs(t, err, schedule.ErrInvalidCap)

	board, err := f.svc.SetCaps(teacherID, schedule.DurationCaps{Private: 90, SemiPrivate: 120, Group: 240})
	require.NoError(t, err)
	assert.Equal(t, 240, board.Caps.Group)
}

func TestPlannerService_Submit(t *testing.T) {
	f := newPlannerFixture(t)
	f.open(t)
	_, err := f.svc.Dispatch(teacherID, schedule.SetPreferredTime{Start: 540})
	require.NoError(t, err)
	_, err = f.svc.Dispatch(teacherID, schedule.AddLesson{LessonID: 1, BookingID: 10, Duration: 60, Remaining: 120})
	require.NoError(t, err)
	_, err = f.svc.Dispatch(teacherID, schedule.AddLesson{LessonID: 2, BookingID: 11, Duration: 90, Remaining: 120})
	require.NoError(t, err)

	var created []*model.Event
	f.events.On("CreateBatch", mock.Anything, mock.AnythingOfType("[]*model.Event")).
		Return(nil).
		Run(func(args mock.Arguments) {
			created = args.Get(1).([]*model.Event)
		}).
		Once()
	refreshed := []*model.Event{eventAt(1, 9, 60, model.EventStatusPlanned), eventAt(2, 10, 90, model.EventStatusPlanned)}
	f.events.On("GetByTeacherAndDate", mock.Anything, teacherID, boardDate).Return(refreshed, nil).Once()

	events, err := f.svc.Submit(context.Background(), teacherID, model.LocationLosLances)
	require.NoError(t, err)

	require.Len(t, created, 2)
	assert.Equal(t, events, created)
	assert.Equal(t, int64(1), created[0].LessonID)
	assert.Equal(t, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC), created[0].StartsAt)
	assert.Equal(t, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), created[1].StartsAt)
	assert.Equal(t, 90, created[1].DurationMinutes)
	assert.Equal(t, model.LocationLosLances, created[1].Location)
	assert.Equal(t, model.EventStatusPlanned, created[0].Status)
	assert.Equal(t, created[0].BatchID, created[1].BatchID)
	assert.Equal(t, teacherID, created[0].TeacherID)

	board, err := f.svc.Board(teacherID)
	require.NoError(t, err)
	assert.Empty(t, board.Queue)
	assert.Len(t, board.Events, 2)
	assert.False(t, board.Committing)
}

func TestPlannerService_Submit_RefreshFailureKeepsCreatedEvents(t *testing.T) {
	f := newPlannerFixture(t)
	f.open(t)
	_, err := f.svc.Dispatch(teacherID, schedule.AddLesson{LessonID: 1, BookingID: 10, Duration: 60, Remaining: 120})
	require.NoError(t, err)

	f.events.On("CreateBatch", mock.Anything, mock.Anything).Return(nil).Once()
	f.events.On("GetByTeacherAndDate", mock.Anything, teacherID, boardDate).Return(nil, errors.New("db blip")).Once()

	_, err = f.svc.Submit(context.Background(), teacherID, model.LocationLosLances)
	require.NoError(t, err)

	// следующий урок на то же время конфликтует с только что созданным событием
	board, err := f.svc.Dispatch(teacherID, schedule.AddLesson{LessonID: 2, BookingID: 11, Duration: 60, Remaining: 120})
	require.NoError(t, err)
	require.Len(t, board.Events, 1)
	assert.Equal(t, "10:00", board.Queue[0].StartTime)
	assert.False(t, board.CanSchedule)
	assert.Contains(t, board.Conflicts, schedule.Conflict{Kind: schedule.ConflictEvent, LessonID: 2, With: 1})

	_, err = f.svc.Submit(context.Background(), teacherID, model.LocationLosLances)
	assert.ErrorIs(t, err, ErrQueueNotSchedulable)
	f.events.AssertNumberOfCalls(t, "CreateBatch", 1)
}

func TestPlannerService_Submit_FailureRestoresQueue(t *testing.T) {
	f := newPlannerFixture(t)
	f.open(t)
	_, err := f.svc.Dispatch(teacherID, schedule.AddLesson{LessonID: 1, Duration: 60, Remaining: 120})
	require.NoError(t, err)
	_, err = f.svc.Dispatch(teacherID, schedule.AddLesson{LessonID: 2, Duration: 60, Remaining: 120})
	require.NoError(t, err)
	before, err := f.svc.Board(teacherID)
	require.NoError(t, err)

	f.events.On("CreateBatch", mock.Anything, mock.Anything).Return(errors.New("constraint violation")).Once()

	_, err = f.svc.Submit(context.Background(), teacherID, model.LocationValdevaqueros)

	assert.ErrorIs(t, err, ErrCommitFailed)
	after, err := f.svc.Board(teacherID)
	require.NoError(t, err)
	assert.Equal(t, before.Queue, after.Queue)
	assert.False(t, after.Committing)

	// после отката очередь снова редактируется
	_, err = f.svc.Dispatch(teacherID, schedule.RemoveLesson{LessonID: 2})
	assert.NoError(t, err)
}

func TestPlannerService_Submit_Rejected(t *testing.T) {
	t.Run("empty queue", func(t *testing.T) {
		f := newPlannerFixture(t)
		f.open(t)

		_, err := f.svc.Submit(context.Background(), teacherID, model.LocationLosLances)
		assert.ErrorIs(t, err, ErrEmptyQueue)
	})

	t.Run("conflict with event", func(t *testing.T) {
		f := newPlannerFixture(t)
		f.open(t, eventAt(99, 10, 60, model.EventStatusPlanned))
		_, err := f.svc.Dispatch(teacherID, schedule.AddLesson{LessonID: 1, Duration: 60, Remaining: 120})
		require.NoError(t, err)

		board, err := f.svc.Board(teacherID)
		require.NoError(t, err)
		assert.False(t, board.CanSchedule)
		assert.NotEmpty(t, board.Conflicts)

		_, err = f.svc.Submit(context.Background(), teacherID, model.LocationLosLances)
		assert.ErrorIs(t, err, ErrQueueNotSchedulable)
	})

	t.Run("unknown location", func(t *testing.T) {
		f := newPlannerFixture(t)

		_, err := f.svc.Submit(context.Background(), teacherID, model.Location("Atlantis"))
		assert.ErrorIs(t, err, ErrUnknownLocation)
	})
}

func TestPlannerService_OpenBoard_NewDateResetsQueue(t *testing.T) {
	f := newPlannerFixture(t)
	f.open(t)
	_, err := f.svc.Dispatch(teacherID, schedule.AddLesson{LessonID: 1, Duration: 60, Remaining: 120})
	require.NoError(t, err)

	same := f.open(t)
	assert.Len(t, same.Queue, 1)

	next := boardDate.AddDate(0, 0, 1)
	f.events.On("GetByTeacherAndDate", mock.Anything, teacherID, next).Return(nil, nil).Once()
	board, err := f.svc.OpenBoard(context.Background(), teacherID, next)
	require.NoError(t, err)

	assert.Equal(t, "2025-06-02", board.Date)
	assert.Empty(t, board.Queue)
}

func TestPlannerService_CloseBoard(t *testing.T) {
	f := newPlannerFixture(t)
	f.open(t)

	require.NoError(t, f.svc.CloseBoard(teacherID))

	_, err := f.svc.Board(teacherID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
