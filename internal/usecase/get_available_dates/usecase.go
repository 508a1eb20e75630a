package get_available_dates

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AvailabilityService/internal/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	snapshotService "github.com/m04kA/SMC-AvailabilityService/internal/service/snapshot"
)

// UseCase use case календаря: какие даты диапазона можно выбрать
type UseCase struct {
	snapshots    SnapshotLoader
	engine       *availability.Engine
	maxRangeDays int
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// maxRangeDays <= 0 заменяется на domain.MaxCalendarRangeDays.
func NewUseCase(snapshots SnapshotLoader, engine *availability.Engine, maxRangeDays int, logger Logger) *UseCase {
	if maxRangeDays <= 0 {
		maxRangeDays = domain.MaxCalendarRangeDays
	}
	return &UseCase{
		snapshots:    snapshots,
		engine:       engine,
		maxRangeDays: maxRangeDays,
		logger:       logger,
	}
}

// Execute проверяет каждую дату диапазона только правилами уровня дня
// Бронирования не читаются: наличие свободных слотов здесь не гарантируется.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req, uc.maxRangeDays); err != nil {
		uc.logger.Warn("GetAvailableDates: validation failed: %v", err)
		return nil, err
	}

	snap, err := uc.snapshots.Load(ctx, req.OfferingID, req.From, req.To)
	if err != nil {
		if errors.Is(err, snapshotService.ErrOfferingNotFound) {
			uc.logger.Warn("GetAvailableDates: offering id=%d not found", req.OfferingID)
			return nil, ErrOfferingNotFound
		}
		uc.logger.Error("GetAvailableDates: failed to load snapshot for offering=%d: %v", req.OfferingID, err)
		return nil, fmt.Errorf("%w: failed to load snapshot: %v", ErrInternal, err)
	}

	calendar := uc.engine.Calendar(snap, req.From, req.To)

	response := &Response{
		OfferingID: req.OfferingID,
		From:       req.From,
		To:         req.To,
		Days:       make([]Day, 0, len(calendar)),
	}

	admissible := 0
	for _, status := range calendar {
		day := Day{Date: status.Date, Admissible: status.Admissible()}
		if !day.Admissible {
			day.Rejection = status.Rejection.String()
		} else {
			admissible++
		}
		response.Days = append(response.Days, day)
	}

	uc.logger.Info("GetAvailableDates: offering=%d, %s..%s: %d of %d days admissible",
		req.OfferingID, req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat),
		admissible, len(response.Days))

	return response, nil
}
