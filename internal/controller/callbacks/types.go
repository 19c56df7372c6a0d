package callbacks

import (
	"github.com/Freeeeeet/kite_planner/internal/controller/state"
	"github.com/Freeeeeet/kite_planner/internal/controller/view"
	"github.com/Freeeeeet/kite_planner/internal/model"
	"github.com/Freeeeeet/kite_planner/internal/service"
	"go.uber.org/zap"
)

// Handler обрабатывает нажатия на кнопки доски
type Handler struct {
	planner         *service.PlannerService
	presenter       *view.Presenter
	stateManager    *state.Manager
	defaultLocation model.Location
	logger          *zap.Logger
}

// NewHandler создаёт обработчик callbacks с зависимостями
func NewHandler(
	planner *service.PlannerService,
	presenter *view.Presenter,
	stateManager *state.Manager,
	defaultLocation model.Location,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		planner:         planner,
		presenter:       presenter,
		stateManager:    stateManager,
		defaultLocation: defaultLocation,
		logger:          logger,
	}
}
