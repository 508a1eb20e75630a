package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// SnapshotLoader интерфейс загрузки снимка конфигурации услуги
type SnapshotLoader interface {
	Load(ctx context.Context, offeringID int64, from, to time.Time) (*availability.Snapshot, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetLoad(ctx context.Context, offeringID int64, date time.Time, customerID *int64, today time.Time) (*domain.BookingLoad, error)
	// IncrementManagedSlot занимает место в управляемом слоте или возвращает ErrSlotNotAvailable
	IncrementManagedSlot(ctx context.Context, slotID int64) error
}

// TransactionManager интерфейс менеджера транзакций
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс метрик бронирований
type Metrics interface {
	IncBookingResult(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
