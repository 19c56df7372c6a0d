package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/Freeeeeet/kite_planner/internal/metrics"
	"github.com/Freeeeeet/kite_planner/internal/model"
	"github.com/Freeeeeet/kite_planner/internal/schedule"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// PlannerConfig - значения по умолчанию для новых досок
type PlannerConfig struct {
	DefaultCaps  schedule.DurationCaps
	DefaultStart int // минуты от полуночи
}

// PlannerService держит доски (таймлайн + очередь) учителей и отправляет очереди в календарь.
// Доски разных учителей независимы; внутри доски один писатель.
type PlannerService struct {
	mu       sync.Mutex
	sessions map[int64]*session

	events   EventStore
	lessons  LessonStore
	bookings BookingStore

	cfg     PlannerConfig
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewPlannerService(
	events EventStore,
	lessons LessonStore,
	bookings BookingStore,
	cfg PlannerConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) *PlannerService {
	return &PlannerService{
		sessions: make(map[int64]*session),
		events:   events,
		lessons:  lessons,
		bookings: bookings,
		cfg:      cfg,
		metrics:  m,
		logger:   logger,
	}
}

// OpenBoard загружает события учителя за день и открывает (или обновляет) его доску.
// Очередь сохраняется, если дата не изменилась.
func (s *PlannerService) OpenBoard(ctx context.Context, teacherID int64, date time.Time) (*Board, error) {
	y, m, d := date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	events, err := s.events.GetByTeacherAndDate(ctx, teacherID, day)
	if err != nil {
		return nil, fmt.Errorf("get teacher events: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, exists := s.sessions[teacherID]
	if exists && sess.pending != nil {
		return nil, ErrCommitInProgress
	}

	switch {
	case exists && sess.date.Equal(day):
		sess.timeline = schedule.NewTimeline(events)
	case exists:
		sess.date = day
		sess.timeline = schedule.NewTimeline(events)
		sess.queue = schedule.NewQueue(sess.queue.Preferred)
	default:
		sess = &session{
			teacherID: teacherID,
			date:      day,
			timeline:  schedule.NewTimeline(events),
			queue:     schedule.NewQueue(s.cfg.DefaultStart),
			caps:      s.cfg.DefaultCaps,
		}
		s.sessions[teacherID] = sess
	}
	s.metrics.OpenBoards.Set(float64(len(s.sessions)))

	s.logger.Info("Board opened",
		zap.Int64("teacher_id", teacherID),
		zap.String("date", sess.dateString()),
		zap.Int("events", sess.timeline.Len()),
		zap.Int("queued", sess.queue.Len()),
	)

	return sess.board(), nil
}

// CloseBoard удаляет доску учителя вместе с неотправленной очередью
func (s *PlannerService) CloseBoard(teacherID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[teacherID]
	if !ok {
		return nil
	}
	if sess.pending != nil {
		return ErrCommitInProgress
	}

	delete(s.sessions, teacherID)
	s.metrics.OpenBoards.Set(float64(len(s.sessions)))
	return nil
}

// Board возвращает текущий снимок доски
func (s *PlannerService) Board(teacherID int64) (*Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessionLocked(teacherID, "board")
	if err != nil {
		return nil, err
	}
	return sess.board(), nil
}

// Enqueue ставит урок в очередь учителя с длительностью по умолчанию
func (s *PlannerService) Enqueue(ctx context.Context, teacherID, lessonID int64) (*Board, error) {
	date, err := s.sessionDate(teacherID, "enqueue")
	if err != nil {
		return nil, err
	}

	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	if lesson == nil {
		return nil, ErrLessonNotFound
	}

	booking, err := s.bookings.GetByID(ctx, lesson.BookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	if err := checkSchedulable(lesson, booking, teacherID, date); err != nil {
		return nil, err
	}

	return s.enqueue(teacherID, date, lesson, booking)
}

// EnqueueBooking обрабатывает перетаскивание брони на колонку учителя: ставит в очередь
// указанные уроки (или все запланированные уроки учителя, если список пуст).
// Неподходящие уроки пропускаются; возвращается число добавленных.
func (s *PlannerService) EnqueueBooking(ctx context.Context, teacherID, bookingID int64, lessonIDs []int64) (*Board, int, error) {
	date, err := s.sessionDate(teacherID, "enqueue_booking")
	if err != nil {
		return nil, 0, err
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, 0, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, 0, ErrBookingNotFound
	}

	added := 0
	for _, lesson := range booking.Lessons {
		if len(lessonIDs) > 0 && !slices.Contains(lessonIDs, lesson.ID) {
			continue
		}
		if lesson.TeacherID != teacherID {
			continue
		}

		if err := checkSchedulable(lesson, booking, teacherID, date); err != nil {
			s.logger.Debug("Skipping lesson",
				zap.Int64("lesson_id", lesson.ID),
				zap.Error(err))
			continue
		}

		if _, err := s.enqueue(teacherID, date, lesson, booking); err != nil {
			s.logger.Debug("Skipping lesson",
				zap.Int64("lesson_id", lesson.ID),
				zap.Error(err))
			continue
		}
		added++
	}

	board, err := s.Board(teacherID)
	if err != nil {
		return nil, added, err
	}
	return board, added, nil
}

// Dispatch применяет действие планировщика к очереди учителя
func (s *PlannerService) Dispatch(teacherID int64, action schedule.Action) (*Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessionLocked(teacherID, action.Name())
	if err != nil {
		return nil, err
	}
	if sess.pending != nil {
		return nil, ErrCommitInProgress
	}

	sess.queue = schedule.Reduce(sess.queue, action)
	s.metrics.QueueActions.WithLabelValues(action.Name()).Inc()

	return sess.board(), nil
}

// JumpToFreeSlot переносит время для новых уроков на ближайшее свободное окно
func (s *PlannerService) JumpToFreeSlot(teacherID int64) (*Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessionLocked(teacherID, "next_free_slot")
	if err != nil {
		return nil, err
	}
	if sess.pending != nil {
		return nil, ErrCommitInProgress
	}

	slot, ok := sess.nextFreeSlot()
	if !ok {
		return nil, ErrNoFreeSlot
	}

	action := schedule.SetPreferredTime{Start: slot}
	sess.queue = schedule.Reduce(sess.queue, action)
	s.metrics.QueueActions.WithLabelValues(action.Name()).Inc()

	return sess.board(), nil
}

// SetCaps меняет длительности по умолчанию для доски учителя
func (s *PlannerService) SetCaps(teacherID int64, caps schedule.DurationCaps) (*Board, error) {
	if err := caps.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessionLocked(teacherID, "set_caps")
	if err != nil {
		return nil, err
	}
	sess.caps = caps

	return sess.board(), nil
}

// Submit создаёт события из очереди. Очередь очищается только после успешной записи;
// при ошибке она восстанавливается, а ошибка возвращается планировщику.
func (s *PlannerService) Submit(ctx context.Context, teacherID int64, location model.Location) ([]*model.Event, error) {
	loc, err := model.ParseLocation(string(location))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLocation, location)
	}

	s.mu.Lock()
	sess, err := s.sessionLocked(teacherID, "submit")
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if sess.pending != nil {
		s.mu.Unlock()
		return nil, ErrCommitInProgress
	}
	if sess.queue.Len() == 0 {
		s.mu.Unlock()
		return nil, ErrEmptyQueue
	}
	if !sess.queue.CanSchedule(sess.timeline) {
		s.mu.Unlock()
		return nil, ErrQueueNotSchedulable
	}
	drafts, err := sess.materialize(loc)
	date := sess.date
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("materialize queue: %w", err)
	}

	batchID := uuid.New()
	events := make([]*model.Event, 0, len(drafts))
	for _, d := range drafts {
		events = append(events, &model.Event{
			LessonID:        d.LessonID,
			TeacherID:       teacherID,
			StartsAt:        d.StartsAt,
			DurationMinutes: d.Duration,
			Location:        d.Location,
			Status:          model.EventStatusPlanned,
			BatchID:         batchID,
		})
	}

	timer := prometheus.NewTimer(s.metrics.CommitDuration)
	err = s.events.CreateBatch(ctx, events)
	timer.ObserveDuration()

	s.mu.Lock()
	if err != nil {
		sess.rollback()
		s.mu.Unlock()

		s.metrics.CommitFailures.Inc()
		s.logger.Error("Failed to create events from queue",
			zap.Int64("teacher_id", teacherID),
			zap.String("batch_id", batchID.String()),
			zap.Int("events", len(events)),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrCommitFailed, err)
	}
	sess.confirmCommitted(events)
	s.mu.Unlock()

	s.metrics.EventsCommitted.Add(float64(len(events)))
	s.logger.Info("Queue submitted",
		zap.Int64("teacher_id", teacherID),
		zap.String("date", date.Format(schedule.DateLayout)),
		zap.String("location", string(loc)),
		zap.String("batch_id", batchID.String()),
		zap.Int("events", len(events)),
	)

	s.refreshTimeline(ctx, teacherID, date)

	return events, nil
}

// refreshTimeline перечитывает день целиком после записи; при ошибке остаётся таймлайн со слитыми событиями
func (s *PlannerService) refreshTimeline(ctx context.Context, teacherID int64, date time.Time) {
	fresh, err := s.events.GetByTeacherAndDate(ctx, teacherID, date)
	if err != nil {
		s.logger.Warn("Failed to refresh timeline after submit",
			zap.Int64("teacher_id", teacherID),
			zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[teacherID]; ok && sess.date.Equal(date) {
		sess.timeline = schedule.NewTimeline(fresh)
	}
}

func (s *PlannerService) enqueue(teacherID int64, date time.Time, lesson *model.Lesson, booking *model.Booking) (*Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessionLocked(teacherID, "enqueue")
	if err != nil {
		return nil, err
	}
	// Доску могли переоткрыть на другой день, пока грузили урок
	if !sess.date.Equal(date) {
		return nil, ErrLessonNotSchedulable
	}
	if sess.pending != nil {
		return nil, ErrCommitInProgress
	}
	if sess.queue.Index(lesson.ID) >= 0 {
		return nil, ErrAlreadyQueued
	}

	// Остаток пакета общий для всех уроков брони в очереди
	remaining := schedule.RemainingMinutes(booking)
	if remaining-sess.queue.QueuedMinutes(booking.ID) < schedule.MinDuration {
		return nil, ErrNoRemainingMinutes
	}

	action := schedule.AddLesson{
		LessonID:     lesson.ID,
		BookingID:    booking.ID,
		StudentNames: booking.StudentNames(),
		Duration:     sess.caps.ForStudents(len(booking.Students)),
		Remaining:    remaining,
	}
	sess.queue = schedule.Reduce(sess.queue, action)
	s.metrics.QueueActions.WithLabelValues(action.Name()).Inc()

	s.logger.Info("Lesson queued",
		zap.Int64("teacher_id", teacherID),
		zap.Int64("lesson_id", lesson.ID),
		zap.Int64("booking_id", booking.ID),
		zap.Int("remaining", remaining),
	)

	return sess.board(), nil
}

func (s *PlannerService) sessionDate(teacherID int64, op string) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessionLocked(teacherID, op)
	if err != nil {
		return time.Time{}, err
	}
	return sess.date, nil
}

// sessionLocked ищет доску учителя; вызывается под s.mu
func (s *PlannerService) sessionLocked(teacherID int64, op string) (*session, error) {
	sess, ok := s.sessions[teacherID]
	if !ok {
		s.logger.Warn("No board opened for teacher",
			zap.Int64("teacher_id", teacherID),
			zap.String("operation", op))
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// checkSchedulable: урок учителя, в статусе planned, бронь активна и на дату ещё нет события
func checkSchedulable(lesson *model.Lesson, booking *model.Booking, teacherID int64, date time.Time) error {
	switch {
	case lesson.TeacherID != teacherID:
		return fmt.Errorf("%w: lesson %d belongs to another teacher", ErrLessonNotSchedulable, lesson.ID)
	case !lesson.IsPlanned():
		return fmt.Errorf("%w: lesson %d is %s", ErrLessonNotSchedulable, lesson.ID, lesson.Status)
	case !booking.IsActive():
		return fmt.Errorf("%w: booking %d is %s", ErrLessonNotSchedulable, booking.ID, booking.Status)
	case lesson.HasEventOn(date):
		return fmt.Errorf("%w: lesson %d already has an event on %s", ErrLessonNotSchedulable, lesson.ID, date.Format(schedule.DateLayout))
	}
	return nil
}
