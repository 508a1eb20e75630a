package create_booking

import (
	"fmt"

	"github.com/m04kA/SMC-AvailabilityService/internal/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}

	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.OfferingID <= 0 {
		return fmt.Errorf("%w: offeringID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Нормализуем "9:00" и "09:00:00" к "09:00"
	start, err := types.NewTimeStringFromString(string(req.StartTime))
	if err != nil {
		return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}
	req.StartTime = start

	if req.Notes != nil && len([]rune(*req.Notes)) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// rejectionError сопоставляет причину отказа движка с ошибкой usecase
func rejectionError(r availability.Rejection) error {
	switch r {
	case availability.Admitted:
		return nil
	case availability.RejectNoOffering:
		return ErrOfferingNotFound
	case availability.RejectMinNotice:
		return ErrTooLateToBook
	case availability.RejectOutsideWindow, availability.RejectBreakOverlap, availability.RejectNotProvisioned:
		return fmt.Errorf("%w: %s", ErrInvalidTimeSlot, r)
	case availability.RejectBookedOverlap, availability.RejectCapacityFull:
		return fmt.Errorf("%w: %s", ErrSlotNotAvailable, r)
	case availability.RejectMaxPerDay, availability.RejectMaxPerWeek,
		availability.RejectMaxPerMonth, availability.RejectMaxPerCustomer:
		return fmt.Errorf("%w: %s", ErrBookingLimitReached, r)
	default:
		return fmt.Errorf("%w: %s", ErrDateNotAdmissible, r)
	}
}
