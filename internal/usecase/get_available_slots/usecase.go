package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AvailabilityService/internal/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	snapshotService "github.com/m04kA/SMC-AvailabilityService/internal/service/snapshot"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	snapshots   SnapshotLoader
	bookingRepo BookingRepository
	engine      *availability.Engine
	metrics     Metrics
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	snapshots SnapshotLoader,
	bookingRepo BookingRepository,
	engine *availability.Engine,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		snapshots:   snapshots,
		bookingRepo: bookingRepo,
		engine:      engine,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute выполняет use case получения доступных слотов
// Недопустимая дата и пустой список слотов - не ошибки.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("GetAvailableSlots: offering=%d, customer=%v, date=%s",
		req.OfferingID, formatOptionalID(req.CustomerID), req.Date.Format(domain.DateFormat))

	// 2. Загружаем снимок конфигурации на одну дату
	snap, err := uc.snapshots.Load(ctx, req.OfferingID, req.Date, req.Date)
	if err != nil {
		if errors.Is(err, snapshotService.ErrOfferingNotFound) {
			uc.logger.Warn("GetAvailableSlots: offering id=%d not found", req.OfferingID)
			return nil, ErrOfferingNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to load snapshot for offering=%d: %v", req.OfferingID, err)
		return nil, fmt.Errorf("%w: failed to load snapshot: %v", ErrInternal, err)
	}

	response := &Response{
		Date:       req.Date,
		OfferingID: req.OfferingID,
		Mode:       snap.Offering.Mode(),
		Slots:      []Slot{},
	}

	// 3. Проверка даты до чтения бронирований
	if rejection := uc.engine.DateRejection(snap, req.Date); rejection != availability.Admitted {
		uc.logger.Info("GetAvailableSlots: date %s is not admissible for offering=%d: %s",
			req.Date.Format(domain.DateFormat), req.OfferingID, rejection)
		uc.metrics.IncDateRejection(rejection.String())
		response.DateRejection = rejection.String()
		return response, nil
	}

	// 4. Загрузка услуги бронированиями
	load, err := uc.bookingRepo.GetLoad(ctx, req.OfferingID, req.Date, req.CustomerID, uc.engine.Today())
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get booking load: %v", err)
		return nil, fmt.Errorf("%w: failed to get booking load: %v", ErrInternal, err)
	}
	snap.Bookings = load

	// 5. Генерация и проверка слотов
	evaluation := uc.engine.Evaluate(snap, req.Date)
	response.DateAdmissible = evaluation.DateAdmissible()
	if !response.DateAdmissible {
		response.DateRejection = evaluation.DateRejection.String()
	}
	response.WindowLayer = string(evaluation.Window.Layer)

	for _, slot := range evaluation.Slots {
		response.Slots = append(response.Slots, Slot{
			StartTime:         slot.StartTime,
			DurationMinutes:   slot.DurationMinutes,
			ManagedSlotID:     slot.ManagedSlotID,
			RemainingCapacity: slot.RemainingCapacity,
		})
	}

	uc.recordMetrics(evaluation)

	uc.logger.Info("GetAvailableSlots: offering=%d, date=%s, mode=%s, layer=%s: %d slots, %d rejected",
		req.OfferingID, req.Date.Format(domain.DateFormat), evaluation.Mode, evaluation.Window.Layer,
		len(response.Slots), evaluation.RejectedTotal())

	return response, nil
}

func (uc *UseCase) recordMetrics(evaluation availability.Evaluation) {
	uc.metrics.ObserveSlotsOffered(evaluation.Mode, len(evaluation.Slots))
	for reason, count := range evaluation.Rejections {
		uc.metrics.AddSlotRejections(reason.String(), count)
	}
}

func formatOptionalID(id *int64) string {
	if id == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *id)
}
