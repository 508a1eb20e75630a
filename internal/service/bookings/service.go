package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/bookings/models"
)

const (
	maxReasonLength = 500

	resultCancelled = "cancelled"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	access      AccessChecker
	txManager   TransactionManager
	metrics     Metrics
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	access AccessChecker,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		access:      access,
		txManager:   txManager,
		metrics:     metrics,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Видеть бронирование может клиент, который его создал, или менеджер организации
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if err := s.checkUserAccess(ctx, booking, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// Cancel отменяет бронирование
// Отменить может клиент или менеджер организации. Для управляемого слота
// место освобождается в той же транзакции, и слот снова появляется в выдаче.
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	if req == nil || req.UserID <= 0 {
		return fmt.Errorf("%w: user is required", ErrInvalidInput)
	}
	if len([]rune(req.CancellationReason)) > maxReasonLength {
		return fmt.Errorf("%w: cancellation reason exceeds %d characters", ErrInvalidInput, maxReasonLength)
	}

	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	var booking *domain.Booking
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		booking, err = s.getBooking(ctx, "Cancel", bookingID)
		if err != nil {
			return err
		}

		if err := s.checkUserAccess(ctx, booking, req.UserID); err != nil {
			s.logger.Warn("Cancel: access denied for user=%d to cancel booking id=%d", req.UserID, bookingID)
			return err
		}

		if !booking.CanBeCancelled() {
			s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
			return ErrCannotCancel
		}

		if err := s.bookingRepo.Cancel(ctx, bookingID, req.CancellationReason); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrCannotCancel
			}
			s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		if booking.ManagedSlotID == nil {
			return nil
		}
		err = s.bookingRepo.DecrementManagedSlot(ctx, *booking.ManagedSlotID)
		switch {
		case errors.Is(err, bookingRepo.ErrManagedSlotNotFound):
			// Счетчик уже на нуле: отмену не блокируем
			s.logger.Warn("Cancel: managed slot id=%d had no seat to release", *booking.ManagedSlotID)
		case err != nil:
			s.logger.Error("Cancel: failed to release managed slot id=%d: %v", *booking.ManagedSlotID, err)
			return fmt.Errorf("%w: Cancel - release managed slot: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.IncBookingResult(resultCancelled)
	s.logger.Info("Cancel: successfully cancelled booking id=%d (offering=%d, date=%s %s)",
		bookingID, booking.OfferingID, booking.BookingDate.Format(domain.DateFormat), booking.StartTime)
	return nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// checkUserAccess клиент бронирования или менеджер организации
func (s *Service) checkUserAccess(ctx context.Context, booking *domain.Booking, userID int64) error {
	if booking.CustomerID == userID {
		return nil
	}

	isManager, err := s.access.IsManager(ctx, booking.OrganizationID, userID)
	if err != nil {
		s.logger.Error("checkUserAccess: failed to check manager user=%d org=%d: %v", userID, booking.OrganizationID, err)
		return fmt.Errorf("%w: checkUserAccess - %v", ErrInternal, err)
	}
	if !isManager {
		return ErrAccessDenied
	}
	return nil
}
