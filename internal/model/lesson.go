package model

import "time"

type LessonStatus string

const (
	LessonStatusPlanned   LessonStatus = "planned"
	LessonStatusRest      LessonStatus = "rest"
	LessonStatusDelegated LessonStatus = "delegated"
	LessonStatusCompleted LessonStatus = "completed"
	LessonStatusCancelled LessonStatus = "cancelled"
)

// Lesson assigns part of a booking's hours to one teacher.
type Lesson struct {
	ID                int64        `json:"id"`
	BookingID         int64        `json:"booking_id"`
	TeacherID         int64        `json:"teacher_id"`
	CommissionPerHour int          `json:"commission_per_hour"` // в центах
	Status            LessonStatus `json:"status"`
	CreatedAt         time.Time    `json:"created_at"`

	Events []*Event `json:"events,omitempty"`
}

// IsPlanned checks if the lesson can still be offered to the whiteboard
func (l *Lesson) IsPlanned() bool {
	return l.Status == LessonStatusPlanned
}

// HasEventOn checks if the lesson already has a non-cancelled event on the given UTC date
func (l *Lesson) HasEventOn(date time.Time) bool {
	y, m, d := date.UTC().Date()
	for _, ev := range l.Events {
		if ev.Status == EventStatusCancelled {
			continue
		}
		ey, em, ed := ev.StartsAt.UTC().Date()
		if ey == y && em == m && ed == d {
			return true
		}
	}
	return false
}
