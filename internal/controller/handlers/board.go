package handlers

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Freeeeeet/kite_planner/internal/controller/view"
	"github.com/Freeeeeet/kite_planner/internal/model"
	"github.com/Freeeeeet/kite_planner/internal/schedule"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleBoard обрабатывает /board [teacher_id] [YYYY-MM-DD].
// Без teacher_id открывается доска учителя, привязанного к аккаунту.
func (h *Handlers) HandleBoard(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	teacherID, date, err := parseBoardArgs(commandArgs(update.Message.Text), today(h.now()))
	if err != nil {
		h.replyError(ctx, b, chatID, "board", err)
		return
	}

	if teacherID == 0 {
		if current, ok := h.stateManager.Board(update.Message.From.ID); ok {
			teacherID = current
		} else {
			teacher, err := h.teachers.GetByTelegramID(ctx, update.Message.From.ID)
			if err != nil {
				h.replyError(ctx, b, chatID, "board", err)
				return
			}
			if teacher == nil {
				h.sendError(ctx, b, chatID, "❌ Укажите учителя: /board <teacher_id>\n\nСписок: /teachers")
				return
			}
			teacherID = teacher.ID
		}
	}

	h.openBoard(ctx, b, update, teacherID, date)
}

func (h *Handlers) openBoard(ctx context.Context, b *bot.Bot, update *models.Update, teacherID int64, date time.Time) {
	chatID := update.Message.Chat.ID

	teacher, err := h.teachers.GetByID(ctx, teacherID)
	if err != nil {
		h.replyError(ctx, b, chatID, "board", err)
		return
	}
	if teacher == nil || !teacher.IsActive {
		h.replyError(ctx, b, chatID, "board", view.ErrTeacherNotFound)
		return
	}

	board, err := h.planner.OpenBoard(ctx, teacherID, date)
	if err != nil {
		h.replyError(ctx, b, chatID, "board", err)
		return
	}

	h.stateManager.SetBoard(update.Message.From.ID, teacherID)
	h.presenter.SendBoard(ctx, b, chatID, board)
}

// HandleAdd обрабатывает /add <lesson_id> [...]
func (h *Handlers) HandleAdd(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	teacherID, ok := h.requireBoard(ctx, b, update)
	if !ok {
		return
	}

	ids, err := parseIDs(commandArgs(update.Message.Text))
	if err != nil || len(ids) == 0 {
		h.sendError(ctx, b, chatID, "❌ Использование: /add <lesson_id> [lesson_id ...]")
		return
	}

	added := 0
	for _, lessonID := range ids {
		if _, err := h.planner.Enqueue(ctx, teacherID, lessonID); err != nil {
			h.sendError(ctx, b, chatID, fmt.Sprintf("Урок #%d: %s", lessonID, view.ErrorMessage(err)))
			continue
		}
		added++
	}

	h.logger.Info("Lessons added from chat",
		zap.Int64("teacher_id", teacherID),
		zap.Int("requested", len(ids)),
		zap.Int("added", added))

	h.sendCurrentBoard(ctx, b, chatID, teacherID)
}

// HandleBooking обрабатывает /booking <booking_id> [lesson_id ...]
func (h *Handlers) HandleBooking(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	teacherID, ok := h.requireBoard(ctx, b, update)
	if !ok {
		return
	}

	ids, err := parseIDs(commandArgs(update.Message.Text))
	if err != nil || len(ids) == 0 {
		h.sendError(ctx, b, chatID, "❌ Использование: /booking <booking_id> [lesson_id ...]")
		return
	}

	board, added, err := h.planner.EnqueueBooking(ctx, teacherID, ids[0], ids[1:])
	if err != nil {
		h.replyError(ctx, b, chatID, "booking", err)
		return
	}

	if added == 0 {
		h.sendMessage(ctx, b, chatID, "⚠️ Ни один урок брони нельзя поставить на этот день")
	}
	h.presenter.SendBoard(ctx, b, chatID, board)
}

// HandleTime обрабатывает /time HH:mm
func (h *Handlers) HandleTime(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	teacherID, ok := h.requireBoard(ctx, b, update)
	if !ok {
		return
	}

	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Использование: /time HH:mm")
		return
	}

	h.setPreferredTime(ctx, b, update.Message.Chat.ID, teacherID, args[0])
}

func (h *Handlers) setPreferredTime(ctx context.Context, b *bot.Bot, chatID, teacherID int64, value string) bool {
	start, err := schedule.ParseClock(value)
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ Время в формате HH:mm, например 10:30")
		return false
	}

	board, err := h.planner.Dispatch(teacherID, schedule.SetPreferredTime{Start: start})
	if err != nil {
		h.replyError(ctx, b, chatID, "time", err)
		return false
	}

	h.presenter.SendBoard(ctx, b, chatID, board)
	return true
}

// HandleDuration обрабатывает /duration <lesson_id> <минуты>
func (h *Handlers) HandleDuration(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	teacherID, ok := h.requireBoard(ctx, b, update)
	if !ok {
		return
	}

	args := commandArgs(update.Message.Text)
	if len(args) != 2 {
		h.sendError(ctx, b, chatID, "❌ Использование: /duration <lesson_id> <минуты>")
		return
	}
	ids, err := parseIDs(args[:1])
	if err != nil {
		h.replyError(ctx, b, chatID, "duration", err)
		return
	}
	minutes, err := strconv.Atoi(args[1])
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ Длительность в минутах, например 90")
		return
	}

	board, err := h.planner.Dispatch(teacherID, schedule.SetLessonDuration{LessonID: ids[0], Duration: minutes})
	if err != nil {
		h.replyError(ctx, b, chatID, "duration", err)
		return
	}

	h.presenter.SendBoard(ctx, b, chatID, board)
}

// HandleCaps обрабатывает /caps <1 чел.> <2-3 чел.> <группа>
func (h *Handlers) HandleCaps(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	teacherID, ok := h.requireBoard(ctx, b, update)
	if !ok {
		return
	}

	caps, err := parseCaps(commandArgs(update.Message.Text))
	if err != nil {
		h.replyError(ctx, b, chatID, "caps", err)
		return
	}

	board, err := h.planner.SetCaps(teacherID, caps)
	if err != nil {
		h.replyError(ctx, b, chatID, "caps", err)
		return
	}

	h.presenter.SendBoard(ctx, b, chatID, board)
}

// HandleSubmit обрабатывает /submit [локация]. Без локации предлагает выбрать её кнопками.
func (h *Handlers) HandleSubmit(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	teacherID, ok := h.requireBoard(ctx, b, update)
	if !ok {
		return
	}

	args := commandArgs(update.Message.Text)
	if len(args) == 0 {
		_, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        "📍 Где проходят уроки?",
			ReplyMarkup: view.LocationKeyboard(teacherID, h.defaultLocation),
		})
		if err != nil {
			h.logger.Error("Failed to send location keyboard", zap.Error(err))
		}
		return
	}

	loc, err := model.ParseLocation(joinArgs(args))
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ Неизвестная локация. Доступны: "+locationList())
		return
	}

	events, err := h.planner.Submit(ctx, teacherID, loc)
	if err != nil {
		h.replyError(ctx, b, chatID, "submit", err)
		return
	}

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Создано событий: %d · %s", len(events), loc))
	h.sendCurrentBoard(ctx, b, chatID, teacherID)
}

// HandleClear обрабатывает /clear
func (h *Handlers) HandleClear(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	teacherID, ok := h.requireBoard(ctx, b, update)
	if !ok {
		return
	}

	board, err := h.planner.Dispatch(teacherID, schedule.Clear{})
	if err != nil {
		h.replyError(ctx, b, update.Message.Chat.ID, "clear", err)
		return
	}

	h.presenter.SendBoard(ctx, b, update.Message.Chat.ID, board)
}

// HandleClose обрабатывает /close: неотправленная очередь теряется
func (h *Handlers) HandleClose(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	teacherID, ok := h.requireBoard(ctx, b, update)
	if !ok {
		return
	}

	if err := h.planner.CloseBoard(teacherID); err != nil {
		h.replyError(ctx, b, update.Message.Chat.ID, "close", err)
		return
	}

	h.stateManager.ForgetBoard(teacherID)
	h.sendMessage(ctx, b, update.Message.Chat.ID, "✅ Доска закрыта")
}

func (h *Handlers) sendCurrentBoard(ctx context.Context, b *bot.Bot, chatID, teacherID int64) {
	board, err := h.planner.Board(teacherID)
	if err != nil {
		h.replyError(ctx, b, chatID, "board", err)
		return
	}
	h.presenter.SendBoard(ctx, b, chatID, board)
}
