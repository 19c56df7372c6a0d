package view

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/kite_planner/internal/model"
	"github.com/Freeeeeet/kite_planner/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// TeacherDirectory - справочник учителей для бота
type TeacherDirectory interface {
	GetByID(ctx context.Context, id int64) (*model.Teacher, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.Teacher, error)
	GetActive(ctx context.Context) ([]*model.Teacher, error)
}

// Presenter отправляет и перерисовывает сообщение с доской
type Presenter struct {
	teachers TeacherDirectory
	logger   *zap.Logger
}

func NewPresenter(teachers TeacherDirectory, logger *zap.Logger) *Presenter {
	return &Presenter{
		teachers: teachers,
		logger:   logger,
	}
}

// Render возвращает текст и клавиатуру доски
func (p *Presenter) Render(ctx context.Context, board *service.Board) (string, *models.InlineKeyboardMarkup) {
	name := fmt.Sprintf("Учитель #%d", board.TeacherID)

	teacher, err := p.teachers.GetByID(ctx, board.TeacherID)
	if err != nil {
		p.logger.Warn("Failed to load teacher for board",
			zap.Int64("teacher_id", board.TeacherID),
			zap.Error(err))
	} else if teacher != nil {
		name = teacher.DisplayName()
	}

	return FormatBoard(board, name), BoardKeyboard(board)
}

// SendBoard отправляет доску новым сообщением
func (p *Presenter) SendBoard(ctx context.Context, b *bot.Bot, chatID int64, board *service.Board) {
	text, kb := p.Render(ctx, board)

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: kb,
	})
	if err != nil {
		p.logger.Error("Failed to send board",
			zap.Int64("chat_id", chatID),
			zap.Int64("teacher_id", board.TeacherID),
			zap.Error(err))
	}
}

// EditBoard перерисовывает доску в существующем сообщении
func (p *Presenter) EditBoard(ctx context.Context, b *bot.Bot, msg *models.Message, board *service.Board) {
	text, kb := p.Render(ctx, board)

	_, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		Text:        text,
		ReplyMarkup: kb,
	})
	if err != nil {
		// Telegram отвечает ошибкой, если текст не изменился
		p.logger.Debug("Failed to edit board message",
			zap.Int64("chat_id", msg.Chat.ID),
			zap.Int("message_id", msg.ID),
			zap.Error(err))
	}
}
