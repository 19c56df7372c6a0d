package view

import (
	"fmt"

	"github.com/Freeeeeet/kite_planner/internal/controller/callbacks/callbackdata"
	"github.com/Freeeeeet/kite_planner/internal/model"
	"github.com/Freeeeeet/kite_planner/internal/service"
	"github.com/go-telegram/bot/models"
)

// Builder упрощает создание inline клавиатур
type Builder struct {
	rows [][]models.InlineKeyboardButton
}

func NewBuilder() *Builder {
	return &Builder{
		rows: make([][]models.InlineKeyboardButton, 0),
	}
}

// Row добавляет ряд кнопок, пустые ряды пропускаются
func (b *Builder) Row(buttons ...models.InlineKeyboardButton) *Builder {
	if len(buttons) > 0 {
		b.rows = append(b.rows, buttons)
	}
	return b
}

func (b *Builder) Build() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: b.rows,
	}
}

// Button создаёт кнопку
func Button(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

// BoardKeyboard строит кнопки доски: по два ряда управления на каждый урок очереди и навигацию
func BoardKeyboard(board *service.Board) *models.InlineKeyboardMarkup {
	kb := NewBuilder()
	tid := board.TeacherID

	if !board.Committing {
		for i, it := range board.Queue {
			id := it.LessonID
			kb.Row(Button(fmt.Sprintf("%d. %s · %s", i+1, it.StartTime, FormatDuration(it.Duration)), callbackdata.Noop))

			var move []models.InlineKeyboardButton
			if i > 0 {
				move = append(move, Button("⬆️", callbackdata.Queue(callbackdata.OpUp, tid, id)))
			}
			if i < len(board.Queue)-1 {
				move = append(move, Button("⬇️", callbackdata.Queue(callbackdata.OpDown, tid, id)))
			}
			if it.CanMoveEarlier {
				move = append(move, Button("⏪ -30", callbackdata.Queue(callbackdata.OpEarly, tid, id)))
			}
			if it.CanMoveLater {
				move = append(move, Button("⏩ +30", callbackdata.Queue(callbackdata.OpLate, tid, id)))
			}
			kb.Row(move...)

			edit := []models.InlineKeyboardButton{
				Button("➖", callbackdata.Queue(callbackdata.OpShort, tid, id)),
				Button("➕", callbackdata.Queue(callbackdata.OpLonger, tid, id)),
			}
			if it.HasGap {
				edit = append(edit, Button("🧲 убрать окно", callbackdata.Queue(callbackdata.OpGap, tid, id)))
			}
			edit = append(edit, Button("❌", callbackdata.Queue(callbackdata.OpRemove, tid, id)))
			kb.Row(edit...)
		}
	}

	kb.Row(
		Button("◀️ День", callbackdata.Board(callbackdata.OpPrevDay, tid)),
		Button("🔄", callbackdata.Board(callbackdata.OpRefresh, tid)),
		Button("День ▶️", callbackdata.Board(callbackdata.OpNextDay, tid)),
	)

	actions := []models.InlineKeyboardButton{
		Button("🕐 Время", callbackdata.Board(callbackdata.OpTime, tid)),
	}
	if board.NextFreeTime != "" && board.NextFreeTime != board.PreferredTime && !board.Committing {
		actions = append(actions, Button("⏭ "+board.NextFreeTime, callbackdata.Board(callbackdata.OpFree, tid)))
	}
	if len(board.Queue) > 0 && !board.Committing {
		actions = append(actions, Button("🧹 Очистить", callbackdata.Board(callbackdata.OpClear, tid)))
	}
	if board.CanSchedule && !board.Committing {
		actions = append(actions, Button("✅ Отправить", callbackdata.Board(callbackdata.OpSubmit, tid)))
	}
	kb.Row(actions...)
	kb.Row(Button("✖️ Закрыть доску", callbackdata.Board(callbackdata.OpClose, tid)))

	return kb.Build()
}

// LocationKeyboard предлагает выбрать локацию перед отправкой очереди
func LocationKeyboard(teacherID int64, preferred model.Location) *models.InlineKeyboardMarkup {
	kb := NewBuilder()
	for i, loc := range model.Locations {
		text := "📍 " + string(loc)
		if loc == preferred {
			text += " ⭐️"
		}
		kb.Row(Button(text, callbackdata.Location(teacherID, i)))
	}
	kb.Row(Button("⬅️ Назад", callbackdata.Board(callbackdata.OpRefresh, teacherID)))
	return kb.Build()
}
