package schedule

import (
	"time"

	"github.com/Freeeeeet/kite_planner/internal/model"
)

// EventDraft is an event-creation payload for the persistence boundary.
type EventDraft struct {
	LessonID  int64          `json:"lesson_id"`
	Date      string         `json:"date"`       // YYYY-MM-DD
	StartTime string         `json:"start_time"` // HH:mm
	StartsAt  time.Time      `json:"starts_at"`  // Date + StartTime in UTC
	Duration  int            `json:"duration"`
	Location  model.Location `json:"location"`
}

// Materialize turns a queue snapshot into event payloads in queue order.
// It checks nothing beyond the date format; feasibility is Queue.CanSchedule's job.
func Materialize(q Queue, location model.Location, date string) ([]EventDraft, error) {
	day, err := ParseDate(date)
	if err != nil {
		return nil, err
	}

	drafts := make([]EventDraft, 0, len(q.Items))
	for _, it := range q.Items {
		drafts = append(drafts, EventDraft{
			LessonID:  it.LessonID,
			Date:      day.Format(DateLayout),
			StartTime: it.StartClock(),
			StartsAt:  Compose(day, it.Start),
			Duration:  it.Duration,
			Location:  location,
		})
	}
	return drafts, nil
}
