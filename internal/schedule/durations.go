package schedule

import (
	"errors"
	"fmt"
)

// Bounds for the planner-configurable duration caps.
const (
	MinCap = 60
	MaxCap = 360
)

// ErrInvalidCap is returned by Validate for a cap outside [MinCap, MaxCap]
// or off the 30 minute grid.
var ErrInvalidCap = errors.New("duration cap must be 60-360 minutes in 30 minute steps")

// DurationCaps holds the default lesson length per group size.
type DurationCaps struct {
	Private     int `json:"private"`      // 1 student
	SemiPrivate int `json:"semi_private"` // 2-3 students
	Group       int `json:"group"`        // 4 and more
}

// DefaultCaps returns the caps used until a planner changes them.
func DefaultCaps() DurationCaps {
	return DurationCaps{Private: 120, SemiPrivate: 120, Group: 180}
}

// Validate checks every cap against the allowed range and step.
func (c DurationCaps) Validate() error {
	for name, v := range map[string]int{
		"private":      c.Private,
		"semi-private": c.SemiPrivate,
		"group":        c.Group,
	} {
		if v < MinCap || v > MaxCap || v%Step != 0 {
			return fmt.Errorf("%s cap %d: %w", name, v, ErrInvalidCap)
		}
	}
	return nil
}

// ForStudents picks the default duration for a lesson with n students.
func (c DurationCaps) ForStudents(n int) int {
	switch {
	case n <= 1:
		return c.Private
	case n <= 3:
		return c.SemiPrivate
	default:
		return c.Group
	}
}
