package schedule

import "slices"

// Action is a planner operation on a Queue. Actions are plain values;
// Reduce interprets them and Name labels them for logs and metrics.
type Action interface {
	Name() string
}

// AddLesson appends a lesson after the preferred start and the last queued lesson.
type AddLesson struct {
	LessonID     int64
	BookingID    int64
	StudentNames []string
	Duration     int // requested default, clamped to the booking budget
	Remaining    int // minutes left on the booking, not counting this queue
}

// RemoveLesson drops a lesson; other lessons keep their times.
type RemoveLesson struct{ LessonID int64 }

// ResizeLesson changes a duration by Delta minutes (normally ±Step).
type ResizeLesson struct {
	LessonID int64
	Delta    int
}

// SetLessonDuration sets a duration directly, clamped like ResizeLesson.
type SetLessonDuration struct {
	LessonID int64
	Duration int
}

// RetimeLesson shifts a start by Delta minutes (normally ±Step).
type RetimeLesson struct {
	LessonID int64
	Delta    int
}

// MoveUp swaps a lesson with the one before it.
type MoveUp struct{ LessonID int64 }

// MoveDown swaps a lesson with the one after it.
type MoveDown struct{ LessonID int64 }

// RemoveGap snaps a lesson to the end of the previous one.
type RemoveGap struct{ LessonID int64 }

// SetPreferredTime moves the planner cursor used for new lessons.
type SetPreferredTime struct{ Start int }

// Clear empties the queue.
type Clear struct{}

func (AddLesson) Name() string         { return "add" }
func (RemoveLesson) Name() string      { return "remove" }
func (ResizeLesson) Name() string      { return "resize" }
func (SetLessonDuration) Name() string { return "set_duration" }
func (RetimeLesson) Name() string      { return "retime" }
func (MoveUp) Name() string            { return "move_up" }
func (MoveDown) Name() string          { return "move_down" }
func (RemoveGap) Name() string         { return "remove_gap" }
func (SetPreferredTime) Name() string  { return "set_preferred_time" }
func (Clear) Name() string             { return "clear" }

// Reduce applies an action and returns the resulting queue. The input queue
// is never modified. Invalid requests (unknown lesson, out-of-window shift,
// nothing left to book) leave the queue as it was.
func Reduce(q Queue, action Action) Queue {
	next := q.clone()

	switch a := action.(type) {
	case AddLesson:
		return next.add(a)

	case RemoveLesson:
		if i := next.Index(a.LessonID); i >= 0 {
			next.Items = slices.Delete(next.Items, i, i+1)
		}

	case ResizeLesson:
		if a.Delta%Step != 0 {
			return next
		}
		if i := next.Index(a.LessonID); i >= 0 {
			it := next.Items[i]
			next.Items[i].Duration = clampDuration(it, next.Budget(it), it.Duration+a.Delta)
		}

	case SetLessonDuration:
		if i := next.Index(a.LessonID); i >= 0 {
			it := next.Items[i]
			next.Items[i].Duration = clampDuration(it, next.Budget(it), a.Duration)
		}

	case RetimeLesson:
		if a.Delta == 0 || a.Delta%Step != 0 {
			return next
		}
		if i := next.Index(a.LessonID); i >= 0 {
			it := next.Items[i]
			start := it.Start + a.Delta
			if start < DayStart {
				return next
			}
			if a.Delta > 0 && start+it.Duration > DayEnd {
				return next
			}
			next.Items[i].Start = start
		}

	case MoveUp:
		if i := next.Index(a.LessonID); i > 0 {
			next.Items[i-1], next.Items[i] = next.Items[i], next.Items[i-1]
		}

	case MoveDown:
		if i := next.Index(a.LessonID); i >= 0 && i < len(next.Items)-1 {
			next.Items[i+1], next.Items[i] = next.Items[i], next.Items[i+1]
		}

	case RemoveGap:
		if i := next.Index(a.LessonID); i > 0 {
			prevEnd := next.Items[i-1].End()
			if next.Items[i].Start > prevEnd {
				next.Items[i].Start = prevEnd
			}
		}

	case SetPreferredTime:
		next.Preferred = clampStart(a.Start)

	case Clear:
		next.Items = nil
	}

	return next
}

func (q Queue) add(a AddLesson) Queue {
	budget := a.Remaining - q.QueuedMinutes(a.BookingID)
	if floorStep(budget) < MinDuration || q.Index(a.LessonID) >= 0 {
		return q
	}

	start := max(q.Preferred, DayStart)
	if len(q.Items) > 0 {
		start = max(start, q.EndTime())
	}

	it := QueuedLesson{
		LessonID:     a.LessonID,
		BookingID:    a.BookingID,
		StudentNames: slices.Clone(a.StudentNames),
		Start:        start,
		Duration:     MinDuration,
		Remaining:    a.Remaining,
	}
	it.Duration = clampDuration(it, budget, a.Duration)

	q.Items = append(q.Items, it)
	return q
}
