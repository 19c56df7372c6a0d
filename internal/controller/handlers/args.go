package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/kite_planner/internal/controller/view"
	"github.com/Freeeeeet/kite_planner/internal/model"
	"github.com/Freeeeeet/kite_planner/internal/schedule"
)

// commandArgs отбрасывает саму команду: "/add 1 2" -> ["1", "2"]
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	return fields[1:]
}

// parseIDs разбирает список положительных ID
func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(strings.TrimPrefix(a, "#"), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: %q is not an id", view.ErrInvalidArgs, a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseBoardArgs разбирает "/board [teacher_id] [YYYY-MM-DD]"; teacherID = 0, если не указан
func parseBoardArgs(args []string, today time.Time) (int64, time.Time, error) {
	var teacherID int64
	date := today

	for _, a := range args {
		if d, err := schedule.ParseDate(a); err == nil {
			date = d
			continue
		}
		ids, err := parseIDs([]string{a})
		if err != nil || teacherID != 0 {
			return 0, time.Time{}, fmt.Errorf("%w: %q", view.ErrInvalidArgs, a)
		}
		teacherID = ids[0]
	}

	return teacherID, date, nil
}

// parseCaps разбирает "/caps <private> <semi> <group>" в минутах
func parseCaps(args []string) (schedule.DurationCaps, error) {
	if len(args) != 3 {
		return schedule.DurationCaps{}, fmt.Errorf("%w: expected 3 durations", view.ErrInvalidArgs)
	}

	vals := make([]int, 3)
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return schedule.DurationCaps{}, fmt.Errorf("%w: %q", view.ErrInvalidArgs, a)
		}
		vals[i] = v
	}

	caps := schedule.DurationCaps{Private: vals[0], SemiPrivate: vals[1], Group: vals[2]}
	return caps, caps.Validate()
}

// today возвращает текущую дату как полночь UTC: время событий хранится без зоны
func today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}

func locationList() string {
	names := make([]string, 0, len(model.Locations))
	for _, loc := range model.Locations {
		names = append(names, string(loc))
	}
	return strings.Join(names, ", ")
}
