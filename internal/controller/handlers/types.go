package handlers

import (
	"time"

	"github.com/Freeeeeet/kite_planner/internal/controller/state"
	"github.com/Freeeeeet/kite_planner/internal/controller/view"
	"github.com/Freeeeeet/kite_planner/internal/model"
	"github.com/Freeeeeet/kite_planner/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	planner         *service.PlannerService
	bookingService  *service.BookingService
	teachers        view.TeacherDirectory
	presenter       *view.Presenter
	stateManager    *state.Manager
	defaultLocation model.Location
	now             func() time.Time
	logger          *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	planner *service.PlannerService,
	bookingService *service.BookingService,
	teachers view.TeacherDirectory,
	presenter *view.Presenter,
	stateManager *state.Manager,
	defaultLocation model.Location,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		planner:         planner,
		bookingService:  bookingService,
		teachers:        teachers,
		presenter:       presenter,
		stateManager:    stateManager,
		defaultLocation: defaultLocation,
		now:             time.Now,
		logger:          logger,
	}
}
