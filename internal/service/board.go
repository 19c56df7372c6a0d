package service

import (
	"time"

	"github.com/Freeeeeet/kite_planner/internal/model"
	"github.com/Freeeeeet/kite_planner/internal/schedule"
)

// BoardItem - элемент очереди с производными флагами для отображения
type BoardItem struct {
	schedule.QueuedLesson
	StartTime      string `json:"start_time"`
	GapMinutes     int    `json:"gap_minutes"`
	HasGap         bool   `json:"has_gap"`
	CanMoveEarlier bool   `json:"can_move_earlier"`
	CanMoveLater   bool   `json:"can_move_later"`
}

// Board - снимок доски учителя на день
type Board struct {
	TeacherID     int64                 `json:"teacher_id"`
	Date          string                `json:"date"`
	PreferredTime string                `json:"preferred_time"`
	Caps          schedule.DurationCaps `json:"caps"`
	Events        []schedule.Node       `json:"events"`
	Queue         []BoardItem           `json:"queue"`
	Schedule      []schedule.Node       `json:"schedule"`
	FlagTime      string                `json:"flag_time"`
	CanSchedule   bool                  `json:"can_schedule"`
	Conflicts     []schedule.Conflict   `json:"conflicts"`
	Committing    bool                  `json:"committing"`
	FreeSlots     []string              `json:"free_slots"` // старты для урока длиной Caps.Private с учётом очереди
	NextFreeTime  string                `json:"next_free_time,omitempty"`
}

// session - состояние планирования одного учителя. Пишет только планировщик этого учителя.
type session struct {
	teacherID int64
	date      time.Time
	timeline  schedule.Timeline
	queue     schedule.Queue
	pending   *schedule.Queue
	caps      schedule.DurationCaps
}

func (s *session) dateString() string {
	return s.date.Format(schedule.DateLayout)
}

// materialize готовит payload'ы и запоминает отправленную очередь, саму очередь не меняет
func (s *session) materialize(loc model.Location) ([]schedule.EventDraft, error) {
	drafts, err := schedule.Materialize(s.queue, loc, s.dateString())
	if err != nil {
		return nil, err
	}
	snapshot := s.queue
	s.pending = &snapshot
	return drafts, nil
}

// confirmCommitted вызывается только после успешного создания событий.
// Созданные события сразу попадают в таймлайн, не дожидаясь перечитывания.
func (s *session) confirmCommitted(created []*model.Event) {
	s.timeline = s.timeline.Merge(created)
	s.queue = schedule.Reduce(s.queue, schedule.Clear{})
	s.pending = nil
}

// rollback возвращает очередь в состояние на момент отправки
func (s *session) rollback() {
	if s.pending != nil {
		s.queue = *s.pending
	}
	s.pending = nil
}

// nextFreeSlot ищет ближайший старт для нового урока после очереди
func (s *session) nextFreeSlot() (int, bool) {
	from := s.queue.Preferred
	if s.queue.Len() > 0 {
		from = max(from, s.queue.EndTime())
	}
	return s.timeline.WithQueue(s.queue).NextFreeSlot(from, s.caps.Private)
}

func (s *session) board() *Board {
	b := &Board{
		TeacherID:     s.teacherID,
		Date:          s.dateString(),
		PreferredTime: schedule.FormatClock(s.queue.Preferred),
		Caps:          s.caps,
		Events:        s.timeline.Nodes(),
		Schedule:      s.timeline.Schedule(s.queue),
		FlagTime:      s.timeline.FlagTime(s.queue),
		CanSchedule:   s.queue.CanSchedule(s.timeline),
		Conflicts:     s.queue.Conflicts(s.timeline),
		Committing:    s.pending != nil,
	}

	occupied := s.timeline.WithQueue(s.queue)
	for start := range occupied.AvailableSlots(s.caps.Private) {
		b.FreeSlots = append(b.FreeSlots, schedule.FormatClock(start))
	}
	if slot, ok := s.nextFreeSlot(); ok {
		b.NextFreeTime = schedule.FormatClock(slot)
	}

	gaps := s.queue.Gaps()
	b.Queue = make([]BoardItem, 0, s.queue.Len())
	for i, it := range s.queue.Items {
		gap := gaps[i]
		b.Queue = append(b.Queue, BoardItem{
			QueuedLesson:   it,
			StartTime:      it.StartClock(),
			GapMinutes:     gap,
			HasGap:         gap > 0,
			CanMoveEarlier: s.queue.CanMoveEarlier(it.LessonID),
			CanMoveLater:   s.queue.CanMoveLater(it.LessonID),
		})
	}

	return b
}
