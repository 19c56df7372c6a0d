package callbacks

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/kite_planner/internal/controller/callbacks/callbackdata"
	"github.com/Freeeeeet/kite_planner/internal/controller/state"
	"github.com/Freeeeeet/kite_planner/internal/controller/view"
	"github.com/Freeeeeet/kite_planner/internal/model"
	"github.com/Freeeeeet/kite_planner/internal/schedule"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleCallbackQuery - главный обработчик callback queries
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	callback := update.CallbackQuery
	h.logger.Debug("Callback received",
		zap.String("data", callback.Data),
		zap.Int64("user_id", callback.From.ID),
	)

	if callback.Data == callbackdata.Noop {
		answerCallback(ctx, b, callback.ID, "")
		return
	}

	data, err := callbackdata.Parse(callback.Data)
	if err != nil {
		h.logger.Warn("Unknown callback", zap.String("data", callback.Data), zap.Error(err))
		answerCallbackAlert(ctx, b, callback.ID, view.ErrorMessage(err))
		return
	}

	msg := messageFromCallback(callback)
	if msg == nil {
		answerCallbackAlert(ctx, b, callback.ID, view.ErrorMessage(view.ErrNoMessage))
		return
	}

	switch data.Kind {
	case callbackdata.KindQueue:
		h.handleQueue(ctx, b, callback, msg, data)
	case callbackdata.KindBoard:
		h.handleBoard(ctx, b, callback, msg, data)
	case callbackdata.KindLocation:
		h.handleLocation(ctx, b, callback, msg, data)
	}
}

// handleQueue применяет кнопку урока к очереди и перерисовывает доску
func (h *Handler) handleQueue(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, msg *models.Message, data callbackdata.Data) {
	action, _ := data.Action()

	board, err := h.planner.Dispatch(data.TeacherID, action)
	if err != nil {
		answerCallbackAlert(ctx, b, callback.ID, view.ErrorMessage(err))
		return
	}

	answerCallback(ctx, b, callback.ID, "")
	h.presenter.EditBoard(ctx, b, msg, board)
}

func (h *Handler) handleBoard(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, msg *models.Message, data callbackdata.Data) {
	tid := data.TeacherID

	switch data.Op {
	case callbackdata.OpRefresh:
		h.reopen(ctx, b, callback, msg, tid, 0)
	case callbackdata.OpPrevDay:
		h.reopen(ctx, b, callback, msg, tid, -1)
	case callbackdata.OpNextDay:
		h.reopen(ctx, b, callback, msg, tid, 1)

	case callbackdata.OpClear:
		board, err := h.planner.Dispatch(tid, schedule.Clear{})
		if err != nil {
			answerCallbackAlert(ctx, b, callback.ID, view.ErrorMessage(err))
			return
		}
		answerCallback(ctx, b, callback.ID, "🧹 Очередь очищена")
		h.presenter.EditBoard(ctx, b, msg, board)

	case callbackdata.OpFree:
		board, err := h.planner.JumpToFreeSlot(tid)
		if err != nil {
			answerCallbackAlert(ctx, b, callback.ID, view.ErrorMessage(err))
			return
		}
		answerCallback(ctx, b, callback.ID, "🕐 "+board.PreferredTime)
		h.presenter.EditBoard(ctx, b, msg, board)

	case callbackdata.OpSubmit:
		answerCallback(ctx, b, callback.ID, "")
		_, err := b.EditMessageReplyMarkup(ctx, &bot.EditMessageReplyMarkupParams{
			ChatID:      msg.Chat.ID,
			MessageID:   msg.ID,
			ReplyMarkup: view.LocationKeyboard(tid, h.defaultLocation),
		})
		if err != nil {
			h.logger.Error("Failed to show location keyboard", zap.Error(err))
		}

	case callbackdata.OpTime:
		h.stateManager.SetBoard(callback.From.ID, tid)
		h.stateManager.SetState(callback.From.ID, state.StateEnteringTime)
		answerCallback(ctx, b, callback.ID, "")
		_, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: msg.Chat.ID,
			Text:   "🕐 Введите время для новых уроков в формате HH:mm\n\n/cancel - отмена",
		})
		if err != nil {
			h.logger.Error("Failed to ask for time", zap.Error(err))
		}

	case callbackdata.OpClose:
		if err := h.planner.CloseBoard(tid); err != nil {
			answerCallbackAlert(ctx, b, callback.ID, view.ErrorMessage(err))
			return
		}
		h.stateManager.ForgetBoard(tid)
		answerCallback(ctx, b, callback.ID, "Доска закрыта")
		_, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:    msg.Chat.ID,
			MessageID: msg.ID,
			Text:      "✖️ Доска закрыта. Открыть снова: /board " + fmt.Sprint(tid),
		})
		if err != nil {
			h.logger.Debug("Failed to edit closed board", zap.Error(err))
		}

	default:
		answerCallbackAlert(ctx, b, callback.ID, view.ErrorMessage(callbackdata.ErrInvalidFormat))
	}
}

// reopen перечитывает события и открывает доску на дату со сдвигом в днях
func (h *Handler) reopen(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, msg *models.Message, teacherID int64, shiftDays int) {
	current, err := h.planner.Board(teacherID)
	if err != nil {
		answerCallbackAlert(ctx, b, callback.ID, view.ErrorMessage(err))
		return
	}

	date, err := schedule.ParseDate(current.Date)
	if err != nil {
		h.logger.Error("Board has invalid date", zap.String("date", current.Date), zap.Error(err))
		answerCallbackAlert(ctx, b, callback.ID, view.ErrorMessage(err))
		return
	}

	board, err := h.planner.OpenBoard(ctx, teacherID, date.AddDate(0, 0, shiftDays))
	if err != nil {
		answerCallbackAlert(ctx, b, callback.ID, view.ErrorMessage(err))
		return
	}

	h.stateManager.SetBoard(callback.From.ID, teacherID)
	answerCallback(ctx, b, callback.ID, "")
	h.presenter.EditBoard(ctx, b, msg, board)
}

// handleLocation отправляет очередь на выбранную локацию
func (h *Handler) handleLocation(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, msg *models.Message, data callbackdata.Data) {
	if data.Arg < 0 || int(data.Arg) >= len(model.Locations) {
		answerCallbackAlert(ctx, b, callback.ID, view.ErrorMessage(callbackdata.ErrInvalidFormat))
		return
	}
	loc := model.Locations[data.Arg]

	events, err := h.planner.Submit(ctx, data.TeacherID, loc)
	if err != nil {
		answerCallbackAlert(ctx, b, callback.ID, view.ErrorMessage(err))
		// после отката показываем восстановленную очередь
		if board, boardErr := h.planner.Board(data.TeacherID); boardErr == nil {
			h.presenter.EditBoard(ctx, b, msg, board)
		}
		return
	}

	answerCallback(ctx, b, callback.ID, fmt.Sprintf("✅ Создано событий: %d", len(events)))

	board, err := h.planner.Board(data.TeacherID)
	if err != nil {
		h.logger.Warn("Board closed after submit", zap.Int64("teacher_id", data.TeacherID), zap.Error(err))
		return
	}
	h.presenter.EditBoard(ctx, b, msg, board)
}
