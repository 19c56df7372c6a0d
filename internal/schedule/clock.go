// Package schedule is the whiteboard planning core: booking progress, a
// teacher's day timeline and the pending lesson queue. It does no I/O.
package schedule

import (
	"fmt"
	"strconv"
	"time"
)

// Operating window and adjustment granularity, in minutes since midnight.
const (
	DayStart    = 360  // 06:00
	DayEnd      = 1380 // 23:00
	Step        = 30
	MinDuration = Step
)

// DateLayout is the calendar date format shared with the persistence boundary.
const DateLayout = "2006-01-02"

// ParseClock converts "HH:mm" into minutes since midnight.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	h, err := strconv.Atoi(s[:2])
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	m, err := strconv.Atoi(s[3:])
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	return h*60 + m, nil
}

// FormatClock converts minutes since midnight into "HH:mm".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// MinuteOfDay returns the UTC minutes since midnight of t.
func MinuteOfDay(t time.Time) int {
	t = t.UTC()
	return t.Hour()*60 + t.Minute()
}

// ParseDate parses "YYYY-MM-DD" into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// Compose joins a calendar date and minutes since midnight into a UTC instant.
func Compose(date time.Time, minutes int) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Add(time.Duration(minutes) * time.Minute)
}

// InWindow reports whether [start, start+duration) fits the operating window.
func InWindow(start, duration int) bool {
	return start >= DayStart && start+duration <= DayEnd
}

func overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

func floorStep(minutes int) int {
	if minutes <= 0 {
		return 0
	}
	return minutes - minutes%Step
}
