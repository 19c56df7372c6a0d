package controller

import (
	"context"

	"github.com/Freeeeeet/kite_planner/internal/controller/callbacks"
	"github.com/Freeeeeet/kite_planner/internal/controller/handlers"
	"github.com/Freeeeeet/kite_planner/internal/controller/state"
	"github.com/Freeeeeet/kite_planner/internal/controller/view"
	"github.com/Freeeeeet/kite_planner/internal/model"
	"github.com/Freeeeeet/kite_planner/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	planner *service.PlannerService,
	bookingService *service.BookingService,
	teachers view.TeacherDirectory,
	defaultLocation model.Location,
	logger *zap.Logger,
) *BotController {
	// Создаём менеджер состояний
	stateManager := state.NewManager()
	presenter := view.NewPresenter(teachers, logger)

	// Создаём обработчики команд
	cmdHandlers := handlers.NewHandlers(
		planner,
		bookingService,
		teachers,
		presenter,
		stateManager,
		defaultLocation,
		logger,
	)

	// Кнопки доски
	callbackHandler := callbacks.NewHandler(
		planner,
		presenter,
		stateManager,
		defaultLocation,
		logger,
	)

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/teachers", bot.MatchTypeExact, c.handlers.HandleTeachers)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/progress", bot.MatchTypePrefix, c.handlers.HandleProgress)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/complete", bot.MatchTypePrefix, c.handlers.HandleComplete)

	// Доска учителя; команды с аргументами матчим по префиксу
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/board", bot.MatchTypePrefix, c.handlers.HandleBoard)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/add", bot.MatchTypePrefix, c.handlers.HandleAdd)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/booking", bot.MatchTypePrefix, c.handlers.HandleBooking)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/time", bot.MatchTypePrefix, c.handlers.HandleTime)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/duration", bot.MatchTypePrefix, c.handlers.HandleDuration)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/caps", bot.MatchTypePrefix, c.handlers.HandleCaps)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/submit", bot.MatchTypePrefix, c.handlers.HandleSubmit)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/clear", bot.MatchTypeExact, c.handlers.HandleClear)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/close", bot.MatchTypeExact, c.handlers.HandleClose)

	// Обычный текст (для диалогов с состояниями), команды сюда не попадают
	c.bot.RegisterHandlerMatchFunc(handlers.IsDialogText, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "board", Description: "🗓 Открыть доску учителя"},
		{Command: "add", Description: "➕ Урок в очередь"},
		{Command: "booking", Description: "📦 Уроки брони в очередь"},
		{Command: "time", Description: "🕐 Время для новых уроков"},
		{Command: "submit", Description: "✅ Создать события из очереди"},
		{Command: "progress", Description: "📊 Прогресс брони"},
		{Command: "complete", Description: "🏁 Завершить бронь"},
		{Command: "teachers", Description: "👥 Список учителей"},
		{Command: "help", Description: "❓ Справка по командам"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота, блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
