package handlers

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/kite_planner/internal/controller/state"
	"github.com/Freeeeeet/kite_planner/internal/controller/view"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const helpText = "📚 Справка по командам:\n\n" +
	"Доска:\n" +
	"/teachers - Список учителей\n" +
	"/board [teacher_id] [YYYY-MM-DD] - Открыть доску учителя на день\n" +
	"/add <lesson_id> [...] - Поставить уроки в очередь\n" +
	"/booking <booking_id> [lesson_id ...] - Поставить в очередь уроки брони\n" +
	"/time HH:mm - Время для новых уроков\n" +
	"/duration <lesson_id> <минуты> - Длительность урока в очереди\n" +
	"/caps <1 чел.> <2-3 чел.> <группа> - Длительности по умолчанию, минуты\n" +
	"/submit [локация] - Создать события из очереди\n" +
	"/clear - Очистить очередь\n" +
	"/close - Закрыть доску\n\n" +
	"Брони:\n" +
	"/progress <booking_id> - Прогресс по пакету\n" +
	"/complete <booking_id> - Завершить бронь, когда все часы пройдены\n\n" +
	"/cancel - Отменить ввод"

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	teacher, err := h.teachers.GetByTelegramID(ctx, update.Message.From.ID)
	if err != nil {
		h.logger.Error("Failed to get teacher by telegram id",
			zap.Int64("telegram_id", update.Message.From.ID),
			zap.Error(err))
	}

	welcome := fmt.Sprintf("👋 Привет, %s!\n\nЭто доска планирования уроков кайт-школы.\n\n%s",
		update.Message.From.FirstName, helpText)
	h.sendMessage(ctx, b, chatID, welcome)

	// Учителю сразу открываем его доску на сегодня
	if teacher != nil {
		h.openBoard(ctx, b, update, teacher.ID, today(h.now()))
	}
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleTeachers обрабатывает команду /teachers
func (h *Handlers) HandleTeachers(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	teachers, err := h.teachers.GetActive(ctx)
	if err != nil {
		h.replyError(ctx, b, update.Message.Chat.ID, "teachers", err)
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, view.FormatTeachers(teachers))
}

// HandleProgress обрабатывает команду /progress <booking_id>
func (h *Handlers) HandleProgress(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	ids, err := parseIDs(commandArgs(update.Message.Text))
	if err != nil || len(ids) != 1 {
		h.sendError(ctx, b, chatID, "❌ Использование: /progress <booking_id>")
		return
	}

	progress, err := h.bookingService.GetProgress(ctx, ids[0])
	if err != nil {
		h.replyError(ctx, b, chatID, "progress", err)
		return
	}

	h.sendMessage(ctx, b, chatID, view.FormatProgress(progress))
}

// HandleComplete обрабатывает команду /complete <booking_id>
func (h *Handlers) HandleComplete(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	ids, err := parseIDs(commandArgs(update.Message.Text))
	if err != nil || len(ids) != 1 {
		h.sendError(ctx, b, chatID, "❌ Использование: /complete <booking_id>")
		return
	}

	progress, err := h.bookingService.Complete(ctx, ids[0])
	if err != nil {
		h.replyError(ctx, b, chatID, "complete", err)
		return
	}

	h.sendMessage(ctx, b, chatID, view.FormatProgress(progress))
}

// HandleCancel обрабатывает команду /cancel - отмена текущего ввода
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	if h.stateManager.GetState(telegramID) == state.StateNone {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Нет активных операций для отмены.")
		return
	}

	h.stateManager.SetState(telegramID, state.StateNone)
	h.sendMessage(ctx, b, update.Message.Chat.ID, "✅ Операция отменена.")
}
