package get_available_dates

import (
	"fmt"
	"math"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, maxRangeDays int) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}

	if req.OfferingID <= 0 {
		return fmt.Errorf("%w: offeringID must be positive", ErrInvalidInput)
	}

	if req.From.IsZero() || req.To.IsZero() {
		return fmt.Errorf("%w: from and to are required", ErrInvalidInput)
	}

	from, to := domain.DateOnly(req.From), domain.DateOnly(req.To)
	if to.Before(from) {
		return fmt.Errorf("%w: to must not be before from", ErrInvalidInput)
	}

	// Включительно: from..to содержит days+1 дат
	days := int(math.Round(to.Sub(from).Hours()/24)) + 1
	if days > maxRangeDays {
		return fmt.Errorf("%w: range must be at most %d days, got %d", ErrInvalidInput, maxRangeDays, days)
	}

	return nil
}
