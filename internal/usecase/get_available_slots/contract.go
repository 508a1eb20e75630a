package get_available_slots

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
	// GetLoad загрузка услуги на дату для проверки занятости и лимитов
	GetLoad(ctx context.Context, offeringID int64, date time.Time, customerID *int64, today time.Time) (*domain.BookingLoad, error)
}

// Metrics интерфейс метрик движка
type Metrics interface {
	ObserveSlotsOffered(mode string, count int)
	AddSlotRejections(reason string, count int)
	IncDateRejection(reason string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
