package view

import (
	"errors"

	"github.com/Freeeeeet/kite_planner/internal/controller/callbacks/callbackdata"
	"github.com/Freeeeeet/kite_planner/internal/schedule"
	"github.com/Freeeeeet/kite_planner/internal/service"
)

// Ошибки слоя бота
var (
	ErrTeacherNotFound = errors.New("teacher not found")
	ErrInvalidArgs     = errors.New("invalid command arguments")
	ErrNoMessage       = errors.New("no message in callback")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrTeacherNotFound):
		return "❌ Учитель не найден. Список: /teachers"
	case errors.Is(err, ErrInvalidArgs):
		return "❌ Неверные аргументы команды. Справка: /help"
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, callbackdata.ErrInvalidFormat):
		return "❌ Неверный формат данных"
	case errors.Is(err, service.ErrSessionNotFound):
		return "❌ Доска не открыта. Откройте её: /board <teacher_id>"
	case errors.Is(err, service.ErrLessonNotFound):
		return "❌ Урок не найден"
	case errors.Is(err, service.ErrBookingNotFound):
		return "❌ Бронь не найдена"
	case errors.Is(err, service.ErrLessonNotSchedulable):
		return "❌ Урок нельзя поставить на этот день: он другого учителя, не в статусе planned или уже есть в календаре"
	case errors.Is(err, service.ErrAlreadyQueued):
		return "⚠️ Урок уже в очереди"
	case errors.Is(err, service.ErrNoRemainingMinutes):
		return "⚠️ По пакету не осталось времени"
	case errors.Is(err, service.ErrNoFreeSlot):
		return "⚠️ Свободных окон на этот день нет"
	case errors.Is(err, service.ErrBookingNotReady):
		return "⚠️ Бронь ещё нельзя завершить: не все часы пакета пройдены"
	case errors.Is(err, service.ErrUnknownLocation):
		return "❌ Неизвестная локация"
	case errors.Is(err, service.ErrEmptyQueue):
		return "⚠️ Очередь пуста"
	case errors.Is(err, service.ErrQueueNotSchedulable):
		return "⛔️ Очередь пересекается с календарём или выходит за рамки дня"
	case errors.Is(err, service.ErrCommitInProgress):
		return "⏳ Очередь отправляется, подождите"
	case errors.Is(err, service.ErrCommitFailed):
		return "❌ Не удалось создать события. Очередь сохранена, попробуйте ещё раз"
	case errors.Is(err, schedule.ErrInvalidCap):
		return "❌ Длительность должна быть от 1 до 6 часов с шагом 30 минут"
	default:
		return "❌ Произошла ошибка"
	}
}
