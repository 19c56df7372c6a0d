package schedule

import (
	"fmt"

	"github.com/Freeeeeet/kite_planner/internal/model"
)

// Progress summarises how much of a booking's package has been used or planned.
type Progress struct {
	UsedMinutes          int     `json:"used_minutes"`
	PlannedMinutes       int     `json:"planned_minutes"` // planned + tbc
	TBCMinutes           int     `json:"tbc_minutes"`
	CancelledMinutes     int     `json:"cancelled_minutes"`
	TotalMinutes         int     `json:"total_minutes"`
	RemainingMinutes     int     `json:"remaining_minutes"` // may go negative on over-booking
	CompletionPercentage float64 `json:"completion_percentage"`
	IsReadyForCompletion bool    `json:"is_ready_for_completion"`
	LessonCount          int     `json:"lesson_count"`
	EventCount           int     `json:"event_count"`
}

// Attention lists the human readable problems found on a booking.
type Attention struct {
	HasIssues bool     `json:"has_issues"`
	Issues    []string `json:"issues"`
}

// CalculateProgress computes progress over a booking snapshot with its lessons and events.
func CalculateProgress(b *model.Booking) Progress {
	p := Progress{
		TotalMinutes: b.TotalMinutes(),
		LessonCount:  len(b.Lessons),
	}

	for _, lesson := range b.Lessons {
		for _, ev := range lesson.Events {
			p.EventCount++
			switch ev.Status {
			case model.EventStatusCompleted:
				p.UsedMinutes += ev.DurationMinutes
			case model.EventStatusPlanned:
				p.PlannedMinutes += ev.DurationMinutes
			case model.EventStatusTBC:
				p.PlannedMinutes += ev.DurationMinutes
				p.TBCMinutes += ev.DurationMinutes
			case model.EventStatusCancelled:
				p.CancelledMinutes += ev.DurationMinutes
			}
		}
	}

	p.RemainingMinutes = p.TotalMinutes - p.UsedMinutes - p.PlannedMinutes

	if p.TotalMinutes > 0 {
		p.CompletionPercentage = min(100, float64(p.UsedMinutes)/float64(p.TotalMinutes)*100)
	}

	p.IsReadyForCompletion = p.TotalMinutes > 0 &&
		p.UsedMinutes >= p.TotalMinutes &&
		b.Status != model.BookingStatusCompleted

	return p
}

// CheckAttention reports over-booking and bookings that are done but not closed.
func CheckAttention(b *model.Booking) Attention {
	p := CalculateProgress(b)

	var issues []string
	if p.UsedMinutes+p.PlannedMinutes > p.TotalMinutes {
		issues = append(issues, fmt.Sprintf(
			"over-booked: %d min used and planned of %d min package",
			p.UsedMinutes+p.PlannedMinutes, p.TotalMinutes,
		))
	}
	if p.IsReadyForCompletion {
		issues = append(issues, "all package hours used but booking is not marked completed")
	}

	return Attention{
		HasIssues: len(issues) > 0,
		Issues:    issues,
	}
}

// RemainingMinutes returns the minutes the scheduler may still offer for a booking, never negative.
func RemainingMinutes(b *model.Booking) int {
	return max(0, CalculateProgress(b).RemainingMinutes)
}
