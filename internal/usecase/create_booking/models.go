package create_booking

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	CustomerID int64            // ID клиента (из X-User-ID)
	OfferingID int64            // ID услуги
	Date       time.Time        // Дата бронирования
	StartTime  types.TimeString // Время начала (HH:MM)
	Notes      *string          // Комментарий клиента (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64
	OfferingID      int64
	OrganizationID  int64
	CustomerID      int64
	ResourceID      *int64
	ManagedSlotID   *int64
	BookingDate     time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Status          string
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
