package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AvailabilityService/internal/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/booking"
	snapshotService "github.com/m04kA/SMC-AvailabilityService/internal/service/snapshot"
	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Результаты попытки бронирования для метрик
const (
	resultCreated  = "created"
	resultRejected = "rejected"
	resultConflict = "conflict"
	resultError    = "error"
)

// UseCase use case для создания бронирования
type UseCase struct {
	snapshots   SnapshotLoader
	bookingRepo BookingRepository
	engine      *availability.Engine
	txManager   TransactionManager
	metrics     Metrics
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	snapshots SnapshotLoader,
	bookingRepo BookingRepository,
	engine *availability.Engine,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		snapshots:   snapshots,
		bookingRepo: bookingRepo,
		engine:      engine,
		txManager:   txManager,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute выполняет use case создания бронирования
// Проверка слота и запись выполняются в одной сериализуемой транзакции,
// поэтому слот проверяется по тем же данным, что и показывались клиенту.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("CreateBooking: customer=%d, offering=%d, date=%s, time=%s",
		req.CustomerID, req.OfferingID, req.Date.Format(domain.DateFormat), req.StartTime)

	var result *domain.Booking

	// 2. Выполняем операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Снимок конфигурации читается из БД, кэш внутри транзакции не используется
		snap, err := uc.snapshots.Load(txCtx, req.OfferingID, req.Date, req.Date)
		if err != nil {
			if errors.Is(err, snapshotService.ErrOfferingNotFound) {
				uc.logger.Warn("CreateBooking: offering id=%d not found", req.OfferingID)
				return ErrOfferingNotFound
			}
			uc.logger.Error("CreateBooking: failed to load snapshot: %v", err)
			return fmt.Errorf("%w: failed to load snapshot: %v", ErrInternal, err)
		}

		// 2.2. Проверка даты
		if r := uc.engine.DateRejection(snap, req.Date); r != availability.Admitted {
			uc.logger.Warn("CreateBooking: date %s rejected: %s", req.Date.Format(domain.DateFormat), r)
			return rejectionError(r)
		}

		// 2.3. Загрузка услуги с блокировкой бронирований на дату (FOR UPDATE)
		load, err := uc.bookingRepo.GetLoad(txCtx, req.OfferingID, req.Date, ptr.Ptr(req.CustomerID), uc.engine.Today())
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get booking load: %v", err)
			return fmt.Errorf("%w: failed to get booking load: %v", ErrInternal, err)
		}
		snap.Bookings = load

		// 2.4. Проверка слота теми же правилами, что и при показе списка
		if r := uc.engine.SlotRejection(snap, req.Date, req.StartTime); r != availability.Admitted {
			uc.logger.Warn("CreateBooking: slot %s on %s rejected: %s",
				req.StartTime, req.Date.Format(domain.DateFormat), r)
			return rejectionError(r)
		}

		// 2.5. Время должно совпадать с одним из предлагаемых слотов
		if !offered(uc.engine.ListBookableSlots(snap, req.Date), req.StartTime) {
			uc.logger.Warn("CreateBooking: %s is not on the slot grid of %s", req.StartTime, req.Date.Format(domain.DateFormat))
			return fmt.Errorf("%w: %s is not a slot start", ErrInvalidTimeSlot, req.StartTime)
		}

		booking := &domain.Booking{
			OfferingID:      snap.Offering.ID,
			OrganizationID:  snap.Offering.OrganizationID,
			CustomerID:      req.CustomerID,
			ResourceID:      snap.Offering.ResourceID,
			BookingDate:     req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: snap.Offering.DurationMinutes,
			Status:          domain.StatusConfirmed,
			Notes:           req.Notes,
		}

		// 2.6. Для управляемых слотов занимаем место
		if snap.Offering.ManagedSlotsEnabled {
			slot, ok := uc.engine.FindManagedSlot(snap, req.Date, req.StartTime)
			if !ok {
				uc.logger.Warn("CreateBooking: managed slot for %s disappeared", req.StartTime)
				return fmt.Errorf("%w: %s", ErrSlotNotAvailable, availability.RejectCapacityFull)
			}
			if err := uc.bookingRepo.IncrementManagedSlot(txCtx, slot.ID); err != nil {
				return uc.storageError("failed to reserve managed slot", err)
			}
			booking.ManagedSlotID = ptr.Ptr(slot.ID)
			uc.logger.Info("CreateBooking: reserved managed slot id=%d, %d/%d taken",
				slot.ID, slot.CurrentBookings+1, slot.MaxBookings)
		}

		// 2.7. Сохраняем бронирование
		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			return uc.storageError("failed to create booking", err)
		}

		result = created
		return nil
	})

	if err != nil {
		uc.metrics.IncBookingResult(bookingResult(err))
		return nil, err
	}

	uc.metrics.IncBookingResult(resultCreated)
	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	return toResponse(result), nil
}

func offered(slots []domain.BookableSlot, start types.TimeString) bool {
	for _, s := range slots {
		if s.StartTime == start {
			return true
		}
	}
	return false
}

func (uc *UseCase) storageError(msg string, err error) error {
	if errors.Is(err, bookingRepo.ErrSlotNotAvailable) {
		uc.logger.Warn("CreateBooking: %s: slot already taken: %v", msg, err)
		return fmt.Errorf("%w: %v", ErrSlotNotAvailable, err)
	}
	uc.logger.Error("CreateBooking: %s: %v", msg, err)
	return fmt.Errorf("%w: %s: %v", ErrInternal, msg, err)
}

func bookingResult(err error) string {
	switch {
	case errors.Is(err, ErrSlotNotAvailable):
		return resultConflict
	case errors.Is(err, ErrInternal):
		return resultError
	default:
		return resultRejected
	}
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:              b.ID,
		OfferingID:      b.OfferingID,
		OrganizationID:  b.OrganizationID,
		CustomerID:      b.CustomerID,
		ResourceID:      b.ResourceID,
		ManagedSlotID:   b.ManagedSlotID,
		BookingDate:     b.BookingDate,
		StartTime:       b.StartTime,
		EndTime:         (&domain.BookableSlot{StartTime: b.StartTime, DurationMinutes: b.DurationMinutes}).EndTime(),
		DurationMinutes: b.DurationMinutes,
		Status:          string(b.Status),
		Notes:           b.Notes,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}
