package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/kite_planner/internal/model"
	"github.com/Freeeeeet/kite_planner/internal/schedule"
	"go.uber.org/zap"
)

// BookingProgress - прогресс брони вместе с найденными проблемами
type BookingProgress struct {
	Booking   *model.Booking     `json:"booking"`
	Progress  schedule.Progress  `json:"progress"`
	Attention schedule.Attention `json:"attention"`
}

type BookingService struct {
	bookings BookingStore
	logger   *zap.Logger
}

func NewBookingService(bookings BookingStore, logger *zap.Logger) *BookingService {
	return &BookingService{
		bookings: bookings,
		logger:   logger,
	}
}

// GetProgress считает прогресс брони. Не кэшируется: брони меняются часто.
func (s *BookingService) GetProgress(ctx context.Context, bookingID int64) (*BookingProgress, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}

	if booking == nil {
		return nil, ErrBookingNotFound
	}

	return &BookingProgress{
		Booking:   booking,
		Progress:  schedule.CalculateProgress(booking),
		Attention: schedule.CheckAttention(booking),
	}, nil
}

// FindNeedingAttention возвращает активные брони с перебором часов или не закрытые вовремя
func (s *BookingService) FindNeedingAttention(ctx context.Context) ([]*BookingProgress, error) {
	bookings, err := s.bookings.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("get active bookings: %w", err)
	}

	var flagged []*BookingProgress
	for _, booking := range bookings {
		attention := schedule.CheckAttention(booking)
		if !attention.HasIssues {
			continue
		}

		flagged = append(flagged, &BookingProgress{
			Booking:   booking,
			Progress:  schedule.CalculateProgress(booking),
			Attention: attention,
		})
	}

	s.logger.Debug("Attention check finished",
		zap.Int("active", len(bookings)),
		zap.Int("flagged", len(flagged)),
	)

	return flagged, nil
}

// Complete закрывает бронь, все часы которой пройдены, но статус ещё active
func (s *BookingService) Complete(ctx context.Context, bookingID int64) (*BookingProgress, error) {
	progress, err := s.GetProgress(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !progress.Progress.IsReadyForCompletion {
		return nil, fmt.Errorf("%w: %d of %d minutes used",
			ErrBookingNotReady, progress.Progress.UsedMinutes, progress.Progress.TotalMinutes)
	}

	if err := s.bookings.UpdateStatus(ctx, bookingID, model.BookingStatusCompleted); err != nil {
		return nil, fmt.Errorf("complete booking: %w", err)
	}

	progress.Booking.Status = model.BookingStatusCompleted
	progress.Progress = schedule.CalculateProgress(progress.Booking)
	progress.Attention = schedule.CheckAttention(progress.Booking)

	s.logger.Info("Booking completed",
		zap.Int64("booking_id", bookingID),
		zap.Int("used_minutes", progress.Progress.UsedMinutes),
	)

	return progress, nil
}
