package schedule

import (
	"math/rand"
	"testing"

	"github.com/Freeeeeet/kite_planner/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustClock(t *testing.T, s string) int {
	t.Helper()
	m, err := ParseClock(s)
	require.NoError(t, err)
	return m
}

func item(id int64, start, duration, remaining int) QueuedLesson {
	return QueuedLesson{LessonID: id, BookingID: id, Start: start, Duration: duration, Remaining: remaining}
}

func TestReduce_BasicAdd(t *testing.T) {
	caps := DurationCaps{Private: 120, SemiPrivate: 90, Group: 180}
	q := NewQueue(mustClock(t, "10:00"))

	q = Reduce(q, AddLesson{
		LessonID:     1,
		StudentNames: []string{"Ana", "Luis"},
		Duration:     caps.ForStudents(2),
		Remaining:    120,
	})

	require.Len(t, q.Items, 1)
	assert.Equal(t, "10:00", q.Items[0].StartClock())
	assert.Equal(t, 90, q.Items[0].Duration)
	assert.False(t, q.HasGap(1))
}

func TestReduce_AddCascadesAfterLastItem(t *testing.T) {
	q := NewQueue(mustClock(t, "10:00"))
	q = Reduce(q, AddLesson{LessonID: 1, Duration: 90, Remaining: 240})
	q = Reduce(q, AddLesson{LessonID: 2, Duration: 60, Remaining: 240})

	require.Len(t, q.Items, 2)
	assert.Equal(t, "11:30", q.Items[1].StartClock())
}

func TestReduce_AddUsesPreferredWhenLater(t *testing.T) {
	q := NewQueue(mustClock(t, "09:00"))
	q = Reduce(q, AddLesson{LessonID: 1, Duration: 60, Remaining: 240})
	q = Reduce(q, SetPreferredTime{Start: mustClock(t, "14:00")})
	q = Reduce(q, AddLesson{LessonID: 2, Duration: 60, Remaining: 240})

	assert.Equal(t, "14:00", q.Items[1].StartClock())
	assert.True(t, q.HasGap(2))
}

func TestReduce_AddClampsDuration(t *testing.T) {
	q := NewQueue(600)
	q = Reduce(q, AddLesson{LessonID: 1, BookingID: 1, Duration: 180, Remaining: 90})
	q = Reduce(q, AddLesson{LessonID: 2, BookingID: 2, Duration: 10, Remaining: 90})

	assert.Equal(t, 90, q.Items[0].Duration)
	assert.Equal(t, 30, q.Items[1].Duration)
}

func TestReduce_AddSharesBookingBudget(t *testing.T) {
	q := NewQueue(600)
	q = Reduce(q, AddLesson{LessonID: 1, BookingID: 10, Duration: 90, Remaining: 120})
	q = Reduce(q, AddLesson{LessonID: 2, BookingID: 10, Duration: 90, Remaining: 120})
	q = Reduce(q, AddLesson{LessonID: 3, BookingID: 10, Duration: 90, Remaining: 120})

	require.Len(t, q.Items, 2)
	assert.Equal(t, 90, q.Items[0].Duration)
	assert.Equal(t, 30, q.Items[1].Duration)
	assert.Equal(t, 120, q.QueuedMinutes(10))
}

func TestReduce_ResizeRespectsSharedBudget(t *testing.T) {
	q := NewQueue(600)
	q = Reduce(q, AddLesson{LessonID: 1, BookingID: 10, Duration: 60, Remaining: 120})
	q = Reduce(q, AddLesson{LessonID: 2, BookingID: 10, Duration: 60, Remaining: 120})

	q = Reduce(q, ResizeLesson{LessonID: 1, Delta: Step})
	q = Reduce(q, SetLessonDuration{LessonID: 2, Duration: 120})
	assert.Equal(t, 120, q.QueuedMinutes(10))

	q = Reduce(q, ResizeLesson{LessonID: 2, Delta: -Step})
	q = Reduce(q, ResizeLesson{LessonID: 1, Delta: Step})
	q = Reduce(q, ResizeLesson{LessonID: 1, Delta: Step})
	assert.Equal(t, 90, q.Items[0].Duration)
	assert.Equal(t, 120, q.QueuedMinutes(10))

	q = Reduce(q, RemoveLesson{LessonID: 2})
	q = Reduce(q, SetLessonDuration{LessonID: 1, Duration: 120})
	assert.Equal(t, 120, q.Items[0].Duration)
}

func TestQueue_Gaps(t *testing.T) {
	q := Queue{Items: []QueuedLesson{item(1, 600, 60, 120), item(2, 690, 60, 120), item(3, 750, 60, 120)}}

	assert.Equal(t, []int{0, 30, 0}, q.Gaps())
	assert.Empty(t, Queue{}.Gaps())
}

func TestReduce_AddNoRemainingIsNoop(t *testing.T) {
	q := NewQueue(600)

	assert.Empty(t, Reduce(q, AddLesson{LessonID: 1, Duration: 60, Remaining: 0}).Items)
	assert.Empty(t, Reduce(q, AddLesson{LessonID: 1, Duration: 60, Remaining: -30}).Items)
}

func TestReduce_AddDuplicateIsNoop(t *testing.T) {
	q := Reduce(NewQueue(600), AddLesson{LessonID: 1, Duration: 60, Remaining: 120})
	q = Reduce(q, AddLesson{LessonID: 1, Duration: 60, Remaining: 120})

	assert.Len(t, q.Items, 1)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	q := Reduce(NewQueue(600), AddLesson{LessonID: 1, StudentNames: []string{"Ana"}, Duration: 60, Remaining: 120})

	_ = Reduce(q, RetimeLesson{LessonID: 1, Delta: Step})
	_ = Reduce(q, ResizeLesson{LessonID: 1, Delta: Step})
	_ = Reduce(q, Clear{})

	require.Len(t, q.Items, 1)
	assert.Equal(t, 600, q.Items[0].Start)
	assert.Equal(t, 60, q.Items[0].Duration)
}

func TestReduce_RemoveKeepsOtherTimes(t *testing.T) {
	q := Queue{Items: []QueuedLesson{
		item(1, 540, 60, 120),
		item(2, 600, 60, 120),
		item(3, 660, 60, 120),
	}}

	q = Reduce(q, RemoveLesson{LessonID: 2})

	require.Len(t, q.Items, 2)
	assert.Equal(t, 660, q.Items[1].Start)
	assert.True(t, q.HasGap(3))
}

func TestReduce_Resize(t *testing.T) {
	q := Queue{Items: []QueuedLesson{item(1, 600, 60, 120), item(2, 660, 60, 120)}}

	q = Reduce(q, ResizeLesson{LessonID: 1, Delta: Step})
	assert.Equal(t, 90, q.Items[0].Duration)
	assert.Equal(t, 660, q.Items[1].Start, "resize never moves other lessons")

	q = Reduce(q, ResizeLesson{LessonID: 1, Delta: Step})
	q = Reduce(q, ResizeLesson{LessonID: 1, Delta: Step})
	assert.Equal(t, 120, q.Items[0].Duration)

	for range 10 {
		q = Reduce(q, ResizeLesson{LessonID: 1, Delta: -Step})
	}
	assert.Equal(t, 30, q.Items[0].Duration)
}

func TestReduce_SetLessonDuration(t *testing.T) {
	q := Queue{Items: []QueuedLesson{item(1, 600, 60, 150)}}

	assert.Equal(t, 150-150%Step, Reduce(q, SetLessonDuration{LessonID: 1, Duration: 400}).Items[0].Duration)
	assert.Equal(t, 90, Reduce(q, SetLessonDuration{LessonID: 1, Duration: 100}).Items[0].Duration)
	assert.Equal(t, 30, Reduce(q, SetLessonDuration{LessonID: 1, Duration: 0}).Items[0].Duration)
}

func TestReduce_ResizeRespectsWindow(t *testing.T) {
	q := Queue{Items: []QueuedLesson{item(1, mustClock(t, "22:00"), 60, 240)}}

	q = Reduce(q, ResizeLesson{LessonID: 1, Delta: Step})

	assert.Equal(t, 60, q.Items[0].Duration)
}

func TestReduce_Retime(t *testing.T) {
	q := Queue{Items: []QueuedLesson{item(1, 600, 60, 120), item(2, 660, 60, 120)}}

	q = Reduce(q, RetimeLesson{LessonID: 1, Delta: Step})

	assert.Equal(t, 630, q.Items[0].Start)
	assert.Equal(t, 660, q.Items[1].Start, "retime never cascades")
}

func TestReduce_RetimeWindowClamp(t *testing.T) {
	late := Queue{Items: []QueuedLesson{item(1, mustClock(t, "22:30"), 60, 120)}}
	late = Reduce(late, RetimeLesson{LessonID: 1, Delta: Step})
	assert.Equal(t, "22:30", late.Items[0].StartClock())

	early := Queue{Items: []QueuedLesson{item(1, DayStart, 60, 120)}}
	early = Reduce(early, RetimeLesson{LessonID: 1, Delta: -Step})
	assert.Equal(t, DayStart, early.Items[0].Start)
}

func TestReduce_RetimeRejectsOffStepDelta(t *testing.T) {
	q := Queue{Items: []QueuedLesson{item(1, 600, 60, 120)}}

	assert.Equal(t, 600, Reduce(q, RetimeLesson{LessonID: 1, Delta: 15}).Items[0].Start)
}

func TestReduce_MoveUpDown(t *testing.T) {
	q := Queue{Items: []QueuedLesson{item(1, 540, 60, 120), item(2, 600, 60, 120), item(3, 660, 60, 120)}}

	q = Reduce(q, MoveUp{LessonID: 3})
	assert.Equal(t, []int64{1, 3, 2}, ids(q))
	assert.Equal(t, 660, q.Items[1].Start, "reorder keeps times")

	q = Reduce(q, MoveUp{LessonID: 1})
	assert.Equal(t, []int64{1, 3, 2}, ids(q))

	q = Reduce(q, MoveDown{LessonID: 2})
	assert.Equal(t, []int64{1, 3, 2}, ids(q))

	q = Reduce(q, MoveDown{LessonID: 1})
	assert.Equal(t, []int64{3, 1, 2}, ids(q))
}

func TestQueue_GapThenRemoval(t *testing.T) {
	q := Queue{Items: []QueuedLesson{
		item(1, mustClock(t, "10:00"), 60, 120),
		item(2, mustClock(t, "11:00"), 60, 120),
	}}
	q = Reduce(q, RetimeLesson{LessonID: 2, Delta: Step})
	q = Reduce(q, RetimeLesson{LessonID: 2, Delta: Step})

	assert.Equal(t, "12:00", q.Items[1].StartClock())
	assert.True(t, q.HasGap(2))
	assert.Equal(t, 60, q.GapBefore(2))
	assert.False(t, q.HasGap(1))

	q = Reduce(q, RemoveGap{LessonID: 2})

	assert.Equal(t, "11:00", q.Items[1].StartClock())
	assert.False(t, q.HasGap(2))
}

func TestQueue_RemoveGapIdempotent(t *testing.T) {
	q := Queue{Items: []QueuedLesson{item(1, 600, 60, 120), item(2, 780, 60, 120)}}

	once := Reduce(q, RemoveGap{LessonID: 2})
	twice := Reduce(once, RemoveGap{LessonID: 2})

	assert.Equal(t, once, twice)
	assert.Equal(t, q.Items[0], once.Items[0])
}

func TestQueue_RemoveGapFirstItemNoop(t *testing.T) {
	q := Queue{Items: []QueuedLesson{item(1, 720, 60, 120)}}

	assert.Equal(t, 720, Reduce(q, RemoveGap{LessonID: 1}).Items[0].Start)
}

func TestQueue_CanMoveEarlier(t *testing.T) {
	q := Queue{Items: []QueuedLesson{
		item(1, DayStart, 60, 120),
		item(2, 420, 60, 120),
		item(3, 540, 60, 120),
	}}

	assert.False(t, q.CanMoveEarlier(1), "06:00 floor")
	assert.False(t, q.CanMoveEarlier(2), "would start before previous end")
	assert.True(t, q.CanMoveEarlier(3))
	assert.False(t, q.CanMoveEarlier(99))
}

func TestQueue_CanSchedule(t *testing.T) {
	tl := NewTimeline([]*model.Event{at("09:00", 50, 60)})

	tests := []struct {
		name  string
		items []QueuedLesson
		want  bool
	}{
		{name: "empty", items: nil, want: false},
		{name: "clear", items: []QueuedLesson{item(1, 600, 60, 120), item(2, 660, 60, 120)}, want: true},
		{name: "touching event end", items: []QueuedLesson{item(1, 600, 60, 120)}, want: true},
		{name: "overlaps event", items: []QueuedLesson{item(1, 570, 60, 120)}, want: false},
		{name: "overlaps queue", items: []QueuedLesson{item(1, 600, 90, 120), item(2, 660, 60, 120)}, want: false},
		{name: "overlaps earlier queue item after reorder", items: []QueuedLesson{item(2, 660, 60, 120), item(1, 600, 90, 120)}, want: false},
		{name: "before window", items: []QueuedLesson{item(1, 330, 60, 120)}, want: false},
		{name: "past window", items: []QueuedLesson{item(1, mustClock(t, "22:30"), 60, 120)}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Queue{Items: tt.items}
			assert.Equal(t, tt.want, q.CanSchedule(tl))
		})
	}
}

func TestQueue_Conflicts(t *testing.T) {
	tl := NewTimeline([]*model.Event{at("09:00", 50, 60)})
	q := Queue{Items: []QueuedLesson{item(1, 570, 60, 120), item(2, 600, 60, 120)}}

	conflicts := q.Conflicts(tl)

	assert.Contains(t, conflicts, Conflict{Kind: ConflictEvent, LessonID: 1, With: 50})
	assert.Contains(t, conflicts, Conflict{Kind: ConflictQueue, LessonID: 2, With: 1})
	assert.Len(t, conflicts, 2)
}

// Random retime/resize sequences must keep every lesson inside the window
// and each booking's queued minutes inside what is left on it.
func TestReduce_InvariantsUnderRandomAdjustments(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		q := NewQueue(DayStart + Step*rng.Intn(20))
		for id := int64(1); id <= 4; id++ {
			q = Reduce(q, AddLesson{LessonID: id, BookingID: id % 2, Duration: 60 + Step*rng.Intn(4), Remaining: 240})
		}
		valid := map[int64]bool{}
		for _, it := range q.Items {
			valid[it.LessonID] = InWindow(it.Start, it.Duration)
		}

		for step := 0; step < 60; step++ {
			id := int64(1 + rng.Intn(4))
			delta := Step
			if rng.Intn(2) == 0 {
				delta = -Step
			}
			if rng.Intn(2) == 0 {
				q = Reduce(q, RetimeLesson{LessonID: id, Delta: delta})
			} else {
				q = Reduce(q, ResizeLesson{LessonID: id, Delta: delta})
			}

			for _, it := range q.Items {
				assert.GreaterOrEqual(t, it.Duration, MinDuration)
				assert.LessOrEqual(t, q.QueuedMinutes(it.BookingID), it.Remaining)
				if valid[it.LessonID] {
					assert.True(t, InWindow(it.Start, it.Duration), "lesson %d left the window", it.LessonID)
				}
			}
		}
	}
}

func ids(q Queue) []int64 {
	out := make([]int64, 0, len(q.Items))
	for _, it := range q.Items {
		out = append(out, it.LessonID)
	}
	return out
}
