package handlers

import (
	"context"

	"github.com/Freeeeeet/kite_planner/internal/controller/view"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// requireBoard возвращает учителя, доску которого открыл пользователь
func (h *Handlers) requireBoard(ctx context.Context, b *bot.Bot, update *models.Update) (int64, bool) {
	teacherID, ok := h.stateManager.Board(update.Message.From.ID)
	if !ok {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Сначала откройте доску: /board <teacher_id>")
		return 0, false
	}
	return teacherID, true
}

// replyError переводит ошибку сервиса в текст для пользователя
func (h *Handlers) replyError(ctx context.Context, b *bot.Bot, chatID int64, op string, err error) {
	h.logger.Warn("Command failed",
		zap.String("operation", op),
		zap.Int64("chat_id", chatID),
		zap.Error(err))
	h.sendError(ctx, b, chatID, view.ErrorMessage(err))
}

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}
