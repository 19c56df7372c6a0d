package app

import (
	"context"
	"time"

	"github.com/Freeeeeet/kite_planner/internal/metrics"
	"github.com/Freeeeeet/kite_planner/internal/service"
	"go.uber.org/zap"
)

// AttentionFinder ищет активные брони, требующие внимания
type AttentionFinder interface {
	FindNeedingAttention(ctx context.Context) ([]*service.BookingProgress, error)
}

// AttentionSweeper периодически проверяет активные брони на перебор часов
// и на брони, которые пора закрыть
type AttentionSweeper struct {
	bookings AttentionFinder
	interval time.Duration
	metrics  *metrics.Metrics
	logger   *zap.Logger
	stopChan chan struct{}
}

// NewAttentionSweeper создаёт фоновую проверку броней
func NewAttentionSweeper(bookings AttentionFinder, interval time.Duration, m *metrics.Metrics, logger *zap.Logger) *AttentionSweeper {
	return &AttentionSweeper{
		bookings: bookings,
		interval: interval,
		metrics:  m,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start запускает проверку в отдельной горутине
func (s *AttentionSweeper) Start(ctx context.Context) {
	s.logger.Info("Starting attention sweeper", zap.Duration("interval", s.interval))

	go s.run(ctx)
}

// Stop останавливает проверку
func (s *AttentionSweeper) Stop() {
	s.logger.Info("Stopping attention sweeper")
	close(s.stopChan)
}

func (s *AttentionSweeper) run(ctx context.Context) {
	// Первый проход сразу при старте
	s.Sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep(ctx)
		case <-s.stopChan:
			s.logger.Info("Attention sweeper stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Attention sweeper cancelled")
			return
		}
	}
}

// Sweep делает один проход и возвращает число найденных броней
func (s *AttentionSweeper) Sweep(ctx context.Context) int {
	flagged, err := s.bookings.FindNeedingAttention(ctx)
	if err != nil {
		s.logger.Error("Failed to check bookings", zap.Error(err))
		return 0
	}

	s.metrics.BookingsNeedingAttention.Set(float64(len(flagged)))

	for _, bp := range flagged {
		s.logger.Warn("Booking needs attention",
			zap.Int64("booking_id", bp.Booking.ID),
			zap.Strings("students", bp.Booking.StudentNames()),
			zap.Int("used_minutes", bp.Progress.UsedMinutes),
			zap.Int("planned_minutes", bp.Progress.PlannedMinutes),
			zap.Int("total_minutes", bp.Progress.TotalMinutes),
			zap.Strings("issues", bp.Attention.Issues),
		)
	}

	return len(flagged)
}
