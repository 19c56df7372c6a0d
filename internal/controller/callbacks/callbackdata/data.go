package callbackdata

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/kite_planner/internal/schedule"
)

// Форматы callback data (лимит Telegram 64 байта):
//
//	q:<op>:<teacher_id>:<lesson_id>  действие над уроком в очереди
//	b:<op>:<teacher_id>              действие над доской
//	loc:<teacher_id>:<index>         отправка очереди на локацию model.Locations[index]
//	noop
const (
	KindQueue    = "q"
	KindBoard    = "b"
	KindLocation = "loc"
	Noop         = "noop"
)

// Действия над уроком
const (
	OpUp     = "up"
	OpDown   = "down"
	OpLonger = "inc"
	OpShort  = "dec"
	OpEarly  = "early"
	OpLate   = "late"
	OpGap    = "gap"
	OpRemove = "rm"
)

// Действия над доской
const (
	OpRefresh = "refresh"
	OpClear   = "clear"
	OpSubmit  = "submit"
	OpPrevDay = "prev"
	OpNextDay = "next"
	OpTime    = "time"
	OpFree    = "free"
	OpClose   = "close"
)

var ErrInvalidFormat = errors.New("invalid callback format")

// Data - разобранный callback
type Data struct {
	Kind      string
	Op        string
	TeacherID int64
	Arg       int64 // lesson id или индекс локации
}

func Queue(op string, teacherID, lessonID int64) string {
	return fmt.Sprintf("%s:%s:%d:%d", KindQueue, op, teacherID, lessonID)
}

func Board(op string, teacherID int64) string {
	return fmt.Sprintf("%s:%s:%d", KindBoard, op, teacherID)
}

func Location(teacherID int64, index int) string {
	return fmt.Sprintf("%s:%d:%d", KindLocation, teacherID, index)
}

// Parse разбирает callback data
func Parse(data string) (Data, error) {
	parts := strings.Split(data, ":")

	var d Data
	var err error
	switch {
	case len(parts) == 4 && parts[0] == KindQueue:
		d = Data{Kind: KindQueue, Op: parts[1]}
		if d.TeacherID, err = strconv.ParseInt(parts[2], 10, 64); err != nil {
			return Data{}, fmt.Errorf("%w: %s", ErrInvalidFormat, data)
		}
		if d.Arg, err = strconv.ParseInt(parts[3], 10, 64); err != nil {
			return Data{}, fmt.Errorf("%w: %s", ErrInvalidFormat, data)
		}
		if _, ok := d.Action(); !ok {
			return Data{}, fmt.Errorf("%w: unknown op %q", ErrInvalidFormat, d.Op)
		}
	case len(parts) == 3 && parts[0] == KindBoard:
		d = Data{Kind: KindBoard, Op: parts[1]}
		if d.TeacherID, err = strconv.ParseInt(parts[2], 10, 64); err != nil {
			return Data{}, fmt.Errorf("%w: %s", ErrInvalidFormat, data)
		}
	case len(parts) == 3 && parts[0] == KindLocation:
		d = Data{Kind: KindLocation}
		if d.TeacherID, err = strconv.ParseInt(parts[1], 10, 64); err != nil {
			return Data{}, fmt.Errorf("%w: %s", ErrInvalidFormat, data)
		}
		if d.Arg, err = strconv.ParseInt(parts[2], 10, 64); err != nil {
			return Data{}, fmt.Errorf("%w: %s", ErrInvalidFormat, data)
		}
	default:
		return Data{}, fmt.Errorf("%w: %s", ErrInvalidFormat, data)
	}

	return d, nil
}

// Action переводит действие над уроком в действие очереди
func (d Data) Action() (schedule.Action, bool) {
	if d.Kind != KindQueue {
		return nil, false
	}

	id := d.Arg
	switch d.Op {
	case OpUp:
		return schedule.MoveUp{LessonID: id}, true
	case OpDown:
		return schedule.MoveDown{LessonID: id}, true
	case OpLonger:
		return schedule.ResizeLesson{LessonID: id, Delta: schedule.Step}, true
	case OpShort:
		return schedule.ResizeLesson{LessonID: id, Delta: -schedule.Step}, true
	case OpEarly:
		return schedule.RetimeLesson{LessonID: id, Delta: -schedule.Step}, true
	case OpLate:
		return schedule.RetimeLesson{LessonID: id, Delta: schedule.Step}, true
	case OpGap:
		return schedule.RemoveGap{LessonID: id}, true
	case OpRemove:
		return schedule.RemoveLesson{LessonID: id}, true
	}
	return nil, false
}
