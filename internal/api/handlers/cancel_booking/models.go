package cancel_booking

import (
	"github.com/m04kA/SMC-AvailabilityService/internal/service/bookings/models"
)

// CancelBookingRequest HTTP request model. Тело необязательно.
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
// Пользователь берется из заголовка, а не из тела.
func (r *CancelBookingRequest) ToServiceRequest(userID int64) *models.CancelBookingRequest {
	reason := ""
	if r.CancellationReason != nil {
		reason = *r.CancellationReason
	}

	return &models.CancelBookingRequest{
		UserID:             userID,
		CancellationReason: reason,
	}
}

// CancelBookingResponse ответ после отмены
type CancelBookingResponse struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}
