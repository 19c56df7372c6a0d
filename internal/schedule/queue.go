package schedule

import "slices"

// QueuedLesson is a lesson placed on the whiteboard but not yet committed.
type QueuedLesson struct {
	LessonID     int64    `json:"lesson_id"`
	BookingID    int64    `json:"booking_id"`
	StudentNames []string `json:"student_names"`
	Start        int      `json:"start"`     // minutes since midnight
	Duration     int      `json:"duration"`  // minutes, multiple of Step
	Remaining    int      `json:"remaining"` // minutes left on the booking, shared by its queued lessons
}

// End returns the minute the lesson would finish.
func (l QueuedLesson) End() int {
	return l.Start + l.Duration
}

// StartClock returns the proposed start as "HH:mm".
func (l QueuedLesson) StartClock() string {
	return FormatClock(l.Start)
}

// Queue is one teacher's pending lessons for a day, in planner order.
// Values are immutable from the caller's point of view: Reduce always
// returns a fresh Queue.
type Queue struct {
	Preferred int            `json:"preferred"` // planner cursor, minutes since midnight
	Items     []QueuedLesson `json:"items"`
}

// NewQueue creates an empty queue with the given preferred start.
func NewQueue(preferred int) Queue {
	return Queue{Preferred: clampStart(preferred)}
}

// Len returns the number of queued lessons.
func (q Queue) Len() int {
	return len(q.Items)
}

// Index returns the position of a lesson or -1.
func (q Queue) Index(lessonID int64) int {
	return slices.IndexFunc(q.Items, func(it QueuedLesson) bool {
		return it.LessonID == lessonID
	})
}

// Get returns a queued lesson by id.
func (q Queue) Get(lessonID int64) (QueuedLesson, bool) {
	i := q.Index(lessonID)
	if i < 0 {
		return QueuedLesson{}, false
	}
	return q.Items[i], true
}

// EndTime returns the end of the last queued lesson, or 0 for an empty queue.
func (q Queue) EndTime() int {
	if len(q.Items) == 0 {
		return 0
	}
	return q.Items[len(q.Items)-1].End()
}

// QueuedMinutes sums queued durations of lessons from one booking.
func (q Queue) QueuedMinutes(bookingID int64) int {
	total := 0
	for _, it := range q.Items {
		if it.BookingID == bookingID {
			total += it.Duration
		}
	}
	return total
}

// HasGap reports idle time between a lesson and the one queued before it.
// The first lesson is never flagged.
func (q Queue) HasGap(lessonID int64) bool {
	return q.GapBefore(lessonID) > 0
}

// GapBefore returns the idle minutes between a lesson and its predecessor.
func (q Queue) GapBefore(lessonID int64) int {
	i := q.Index(lessonID)
	if i <= 0 {
		return 0
	}
	return max(0, q.Items[i].Start-q.Items[i-1].End())
}

// CanMoveEarlier reports whether a 30 minute earlier start stays after the
// previous lesson's end and inside the window.
func (q Queue) CanMoveEarlier(lessonID int64) bool {
	i := q.Index(lessonID)
	if i < 0 {
		return false
	}
	start := q.Items[i].Start - Step
	if start < DayStart {
		return false
	}
	if i > 0 && start < q.Items[i-1].End() {
		return false
	}
	return true
}

// CanMoveLater reports whether a 30 minute later start stays inside the window.
func (q Queue) CanMoveLater(lessonID int64) bool {
	it, ok := q.Get(lessonID)
	if !ok {
		return false
	}
	return it.End()+Step <= DayEnd
}

// Nodes returns the queued lessons as timeline nodes in queue order.
func (q Queue) Nodes() []Node {
	nodes := make([]Node, 0, len(q.Items))
	for _, it := range q.Items {
		nodes = append(nodes, Node{
			Kind:     NodeQueue,
			LessonID: it.LessonID,
			Start:    it.Start,
			Duration: it.Duration,
		})
	}
	return nodes
}

// ConflictKind explains why a queued lesson blocks submission.
type ConflictKind string

const (
	ConflictWindow ConflictKind = "window"
	ConflictEvent  ConflictKind = "event"
	ConflictQueue  ConflictKind = "queue"
)

// Conflict is one reason the queue cannot be scheduled.
type Conflict struct {
	Kind     ConflictKind `json:"kind"`
	LessonID int64        `json:"lesson_id"`
	With     int64        `json:"with,omitempty"` // lesson id of the other interval
}

// Conflicts lists every window violation and overlap against the timeline
// and between queued lessons. Queue pairs are reported once, by the later item.
func (q Queue) Conflicts(t Timeline) []Conflict {
	var out []Conflict
	for i, it := range q.Items {
		if !InWindow(it.Start, it.Duration) {
			out = append(out, Conflict{Kind: ConflictWindow, LessonID: it.LessonID})
		}
		for _, n := range t.nodes {
			if overlaps(it.Start, it.End(), n.Start, n.End()) {
				out = append(out, Conflict{Kind: ConflictEvent, LessonID: it.LessonID, With: n.LessonID})
			}
		}
		for _, other := range q.Items[:i] {
			if overlaps(it.Start, it.End(), other.Start, other.End()) {
				out = append(out, Conflict{Kind: ConflictQueue, LessonID: it.LessonID, With: other.LessonID})
			}
		}
	}
	return out
}

// CanSchedule reports whether the queue may be submitted: it is not empty,
// every lesson sits in the window and nothing overlaps.
func (q Queue) CanSchedule(t Timeline) bool {
	return len(q.Items) > 0 && len(q.Conflicts(t)) == 0
}

func (q Queue) clone() Queue {
	out := Queue{Preferred: q.Preferred, Items: make([]QueuedLesson, len(q.Items))}
	for i, it := range q.Items {
		it.StudentNames = slices.Clone(it.StudentNames)
		out.Items[i] = it
	}
	return out
}

func clampStart(start int) int {
	return min(max(start, DayStart), DayEnd-MinDuration)
}

// Budget returns the minutes a lesson may occupy: what is left on its
// booking minus the other queued lessons of the same booking.
func (q Queue) Budget(it QueuedLesson) int {
	return it.Remaining - (q.QueuedMinutes(it.BookingID) - q.queuedDuration(it.LessonID))
}

// Gaps returns the idle minutes before every queued lesson, in queue order.
func (q Queue) Gaps() []int {
	out := make([]int, len(q.Items))
	for i := 1; i < len(q.Items); i++ {
		out[i] = max(0, q.Items[i].Start-q.Items[i-1].End())
	}
	return out
}

func (q Queue) queuedDuration(lessonID int64) int {
	if it, ok := q.Get(lessonID); ok {
		return it.Duration
	}
	return 0
}

// clampDuration fits d to [MinDuration, budget] in Step increments and
// never lets a lesson grow past the end of the window. A lesson already
// above the budget may shrink but never grow.
func clampDuration(it QueuedLesson, budget, d int) int {
	hi := floorStep(budget)
	if room := floorStep(DayEnd - it.Start); room < hi {
		hi = room
	}
	hi = max(hi, MinDuration)

	d = min(floorStep(d), hi)
	d = max(d, MinDuration)
	if d > it.Duration && it.Start+d > DayEnd {
		return it.Duration
	}
	if d > it.Duration && d > budget {
		return it.Duration
	}
	return d
}
