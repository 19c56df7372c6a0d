package handlers

import (
	"context"
	"strings"

	"github.com/Freeeeeet/kite_planner/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// IsDialogText отбирает обычный текст (не команды) для диалогов с состояниями
func IsDialogText(update *models.Update) bool {
	return update.Message != nil &&
		update.Message.From != nil &&
		update.Message.Text != "" &&
		!strings.HasPrefix(update.Message.Text, "/")
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния пользователя
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !IsDialogText(update) {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	h.logger.Debug("HandleTextMessage called",
		zap.Int64("telegram_id", telegramID),
		zap.String("state", string(currentState)))

	switch currentState {
	case state.StateEnteringTime:
		teacherID, ok := h.requireBoard(ctx, b, update)
		if !ok {
			h.stateManager.SetState(telegramID, state.StateNone)
			return
		}
		if h.setPreferredTime(ctx, b, update.Message.Chat.ID, teacherID, strings.TrimSpace(update.Message.Text)) {
			h.stateManager.SetState(telegramID, state.StateNone)
		}
	default:
		h.logger.Debug("No active state, ignoring message",
			zap.Int64("telegram_id", telegramID))
	}
}
