package schedule

import (
	"iter"
	"sort"

	"github.com/Freeeeeet/kite_planner/internal/model"
)

// NodeKind tags an entry of a teacher's day.
type NodeKind string

const (
	NodeEvent NodeKind = "event"
	NodeQueue NodeKind = "queue"
	NodeGap   NodeKind = "gap"
)

// NoLessons is the flag time shown for a teacher with nothing on the day.
const NoLessons = "no lessons"

// Node is one interval on a teacher's day.
type Node struct {
	Kind     NodeKind          `json:"kind"`
	LessonID int64             `json:"lesson_id,omitempty"`
	EventID  int64             `json:"event_id,omitempty"`
	Start    int               `json:"start"`    // minutes since midnight
	Duration int               `json:"duration"` // minutes
	Location model.Location    `json:"location,omitempty"`
	Status   model.EventStatus `json:"status,omitempty"`
}

// End returns the minute the node finishes.
func (n Node) End() int {
	return n.Start + n.Duration
}

// StartClock returns the node start as "HH:mm".
func (n Node) StartClock() string {
	return FormatClock(n.Start)
}

// Timeline is a teacher's confirmed events for one day. It is read-only.
type Timeline struct {
	nodes []Node
}

// NewTimeline builds a timeline from a teacher's events on one date.
// Cancelled events do not occupy time.
func NewTimeline(events []*model.Event) Timeline {
	nodes := eventNodes(make([]Node, 0, len(events)), events)
	sortNodes(nodes)
	return Timeline{nodes: nodes}
}

// Merge returns a timeline that also holds the given events. Used right
// after a commit, before the day is re-read from storage.
func (t Timeline) Merge(events []*model.Event) Timeline {
	nodes := eventNodes(t.Nodes(), events)
	sortNodes(nodes)
	return Timeline{nodes: nodes}
}

func eventNodes(nodes []Node, events []*model.Event) []Node {
	for _, ev := range events {
		if ev == nil || ev.Status == model.EventStatusCancelled {
			continue
		}
		nodes = append(nodes, Node{
			Kind:     NodeEvent,
			LessonID: ev.LessonID,
			EventID:  ev.ID,
			Start:    MinuteOfDay(ev.StartsAt),
			Duration: ev.DurationMinutes,
			Location: ev.Location,
			Status:   ev.Status,
		})
	}
	return nodes
}

// Nodes returns the events ordered by start time, ties broken by lesson id.
func (t Timeline) Nodes() []Node {
	out := make([]Node, len(t.nodes))
	copy(out, t.nodes)
	return out
}

// Len returns the number of confirmed events.
func (t Timeline) Len() int {
	return len(t.nodes)
}

// WithQueue returns a timeline that also treats the queued lessons as occupied.
func (t Timeline) WithQueue(q Queue) Timeline {
	nodes := t.Nodes()
	nodes = append(nodes, q.Nodes()...)
	sortNodes(nodes)
	return Timeline{nodes: nodes}
}

// AvailableSlots yields every 30-minute aligned start inside the operating
// window where a block of required minutes fits without touching a node.
// The sequence is computed lazily and can be ranged over any number of times.
func (t Timeline) AvailableSlots(required int) iter.Seq[int] {
	required = max(required, MinDuration)
	nodes := t.Nodes()

	return func(yield func(int) bool) {
		for start := DayStart; start+required <= DayEnd; start += Step {
			if collides(nodes, start, start+required) {
				continue
			}
			if !yield(start) {
				return
			}
		}
	}
}

// NextFreeSlot returns the first available start at or after from.
func (t Timeline) NextFreeSlot(from, required int) (int, bool) {
	for start := range t.AvailableSlots(required) {
		if start >= from {
			return start, true
		}
	}
	return 0, false
}

// FlagTime returns the earliest start across events and queued lessons,
// or NoLessons when the day is empty.
func (t Timeline) FlagTime(q Queue) string {
	earliest := -1
	for _, n := range t.nodes {
		if earliest < 0 || n.Start < earliest {
			earliest = n.Start
		}
	}
	for _, it := range q.Items {
		if earliest < 0 || it.Start < earliest {
			earliest = it.Start
		}
	}
	if earliest < 0 {
		return NoLessons
	}
	return FormatClock(earliest)
}

// Schedule merges events and queued lessons into one ordered day, inserting
// gap nodes where idle time separates two consecutive entries.
func (t Timeline) Schedule(q Queue) []Node {
	merged := t.WithQueue(q).nodes

	out := make([]Node, 0, len(merged)*2)
	busyUntil := 0
	for i, n := range merged {
		if i > 0 && n.Start > busyUntil {
			out = append(out, Node{Kind: NodeGap, Start: busyUntil, Duration: n.Start - busyUntil})
		}
		out = append(out, n)
		busyUntil = max(busyUntil, n.End())
	}
	return out
}

func collides(nodes []Node, start, end int) bool {
	for _, n := range nodes {
		if overlaps(start, end, n.Start, n.End()) {
			return true
		}
	}
	return false
}

func sortNodes(nodes []Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Start != nodes[j].Start {
			return nodes[i].Start < nodes[j].Start
		}
		return nodes[i].LessonID < nodes[j].LessonID
	})
}
