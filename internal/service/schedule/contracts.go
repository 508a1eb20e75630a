package schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	GetOffering(ctx context.Context, offeringID int64) (*domain.Offering, error)
	IsManager(ctx context.Context, organizationID, userID int64) (bool, error)
	ReplaceOfferingSchedule(ctx context.Context, offeringID int64, schedule domain.WeeklySchedule, breaks domain.BreakMap) error
}

// SnapshotStore интерфейс загрузки и сброса снимков конфигурации
type SnapshotStore interface {
	Load(ctx context.Context, offeringID int64, from, to time.Time) (*availability.Snapshot, error)
	Invalidate(ctx context.Context, offeringID int64)
}

// TransactionManager интерфейс менеджера транзакций
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider источник текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
