package get_available_dates

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/availability"
)

// SnapshotLoader интерфейс загрузки снимка конфигурации услуги
type SnapshotLoader interface {
	Load(ctx context.Context, offeringID int64, from, to time.Time) (*availability.Snapshot, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
