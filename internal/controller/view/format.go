package view

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/kite_planner/internal/model"
	"github.com/Freeeeeet/kite_planner/internal/schedule"
	"github.com/Freeeeeet/kite_planner/internal/service"
)

// FormatDuration форматирует длительность в минутах
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d мин", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%d ч", hours)
	}
	return fmt.Sprintf("%d ч %d мин", hours, mins)
}

// FormatRange форматирует интервал дня "10:00-11:30"
func FormatRange(start, duration int) string {
	return schedule.FormatClock(start) + "-" + schedule.FormatClock(start+duration)
}

// FormatDate переводит "2006-01-02" в "02.01.2006 (Пн)"
func FormatDate(date string) string {
	t, err := schedule.ParseDate(date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%s (%s)", t.Format("02.01.2006"), weekdayShort[t.Weekday()])
}

var weekdayShort = [...]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}

// FormatBoard рисует доску учителя: день целиком, очередь и статус отправки
func FormatBoard(board *service.Board, teacherName string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "🗓 %s · %s\n", teacherName, FormatDate(board.Date))
	fmt.Fprintf(&sb, "🚩 Начало дня: %s\n", flagTime(board.FlagTime))
	fmt.Fprintf(&sb, "🕐 Время для новых уроков: %s\n", board.PreferredTime)
	if board.NextFreeTime != "" {
		fmt.Fprintf(&sb, "🕳 Ближайшее окно на %s: %s (свободных стартов: %d)\n",
			FormatDuration(board.Caps.Private), board.NextFreeTime, len(board.FreeSlots))
	} else {
		sb.WriteString("🕳 Свободных окон больше нет\n")
	}
	fmt.Fprintf(&sb, "⏱ Длительность: 1 чел. %s · 2-3 чел. %s · группа %s\n",
		FormatDuration(board.Caps.Private),
		FormatDuration(board.Caps.SemiPrivate),
		FormatDuration(board.Caps.Group),
	)

	names := make(map[int64]string, len(board.Queue))
	for _, it := range board.Queue {
		names[it.LessonID] = studentList(it.StudentNames)
	}

	sb.WriteString("\n📅 День:\n")
	if len(board.Schedule) == 0 {
		sb.WriteString("  уроков нет\n")
	}
	for _, n := range board.Schedule {
		switch n.Kind {
		case schedule.NodeEvent:
			fmt.Fprintf(&sb, "%s 📌 урок #%d · %s%s\n", FormatRange(n.Start, n.Duration), n.LessonID, n.Location, statusMark(n.Status))
		case schedule.NodeQueue:
			fmt.Fprintf(&sb, "%s 📝 %s\n", FormatRange(n.Start, n.Duration), names[n.LessonID])
		case schedule.NodeGap:
			fmt.Fprintf(&sb, "   ⏸ %s\n", FormatDuration(n.Duration))
		}
	}

	fmt.Fprintf(&sb, "\n📋 Очередь (%d):\n", len(board.Queue))
	for i, it := range board.Queue {
		fmt.Fprintf(&sb, "%d. %s · %s · %s\n", i+1, FormatRange(it.Start, it.Duration), FormatDuration(it.Duration), studentList(it.StudentNames))
		fmt.Fprintf(&sb, "   урок #%d, осталось по пакету %s\n", it.LessonID, FormatDuration(it.Remaining))
		if it.HasGap {
			fmt.Fprintf(&sb, "   ⚠️ окно %s перед уроком\n", FormatDuration(it.GapMinutes))
		}
	}

	sb.WriteString("\n")
	switch {
	case board.Committing:
		sb.WriteString("⏳ Очередь отправляется...")
	case len(board.Queue) == 0:
		sb.WriteString("Очередь пуста. Добавить урок: /add <lesson_id>")
	case board.CanSchedule:
		sb.WriteString("✅ Очередь можно отправить")
	default:
		sb.WriteString("⛔️ Отправка недоступна:\n")
		for _, c := range board.Conflicts {
			sb.WriteString("• " + FormatConflict(c) + "\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// FormatConflict описывает причину, по которой очередь нельзя отправить
func FormatConflict(c schedule.Conflict) string {
	switch c.Kind {
	case schedule.ConflictWindow:
		return fmt.Sprintf("урок #%d выходит за рамки дня (%s)", c.LessonID, FormatRange(schedule.DayStart, schedule.DayEnd-schedule.DayStart))
	case schedule.ConflictEvent:
		return fmt.Sprintf("урок #%d пересекается с уроком #%d в календаре", c.LessonID, c.With)
	case schedule.ConflictQueue:
		return fmt.Sprintf("урок #%d пересекается с уроком #%d в очереди", c.LessonID, c.With)
	}
	return fmt.Sprintf("урок #%d: %s", c.LessonID, c.Kind)
}

// FormatProgress показывает прогресс брони
func FormatProgress(bp *service.BookingProgress) string {
	var sb strings.Builder
	b, p := bp.Booking, bp.Progress

	fmt.Fprintf(&sb, "📦 Бронь #%d · %s\n", b.ID, studentList(b.StudentNames()))
	if b.Package != nil && b.Package.Name != "" {
		fmt.Fprintf(&sb, "Пакет: %s, %s\n", b.Package.Name, FormatDuration(p.TotalMinutes))
	} else {
		fmt.Fprintf(&sb, "Пакет: %s\n", FormatDuration(p.TotalMinutes))
	}
	fmt.Fprintf(&sb, "✔️ Пройдено: %s (%.0f%%)\n", FormatDuration(p.UsedMinutes), p.CompletionPercentage)
	fmt.Fprintf(&sb, "🗓 Запланировано: %s", FormatDuration(p.PlannedMinutes))
	if p.TBCMinutes > 0 {
		fmt.Fprintf(&sb, " (не подтверждено %s)", FormatDuration(p.TBCMinutes))
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "⏳ Осталось: %s\n", FormatDuration(max(0, p.RemainingMinutes)))
	fmt.Fprintf(&sb, "Уроков: %d, событий: %d", p.LessonCount, p.EventCount)

	for _, issue := range bp.Attention.Issues {
		sb.WriteString("\n⚠️ " + issue)
	}
	if p.IsReadyForCompletion {
		fmt.Fprintf(&sb, "\n\nЗакрыть бронь: /complete %d", b.ID)
	}
	if b.Status == model.BookingStatusCompleted {
		sb.WriteString("\n\n🏁 Бронь завершена")
	}

	return sb.String()
}

// FormatTeachers выводит список учителей для /board
func FormatTeachers(teachers []*model.Teacher) string {
	if len(teachers) == 0 {
		return "👥 Активных учителей нет"
	}

	var sb strings.Builder
	sb.WriteString("👥 Учителя:\n\n")
	for _, t := range teachers {
		fmt.Fprintf(&sb, "#%d %s\n", t.ID, t.DisplayName())
	}
	sb.WriteString("\nОткрыть доску: /board <teacher_id> [YYYY-MM-DD]")
	return sb.String()
}

func flagTime(ft string) string {
	if ft == schedule.NoLessons {
		return "уроков нет"
	}
	return ft
}

func statusMark(status model.EventStatus) string {
	switch status {
	case model.EventStatusTBC:
		return " ❔"
	case model.EventStatusCompleted:
		return " ✔️"
	}
	return ""
}

func studentList(names []string) string {
	if len(names) == 0 {
		return "без студентов"
	}
	return strings.Join(names, ", ")
}
