package snapshot

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// ScheduleRepository интерфейс хранилища документов расписания
type ScheduleRepository interface {
	GetOffering(ctx context.Context, offeringID int64) (*domain.Offering, error)
	GetOrganizationHours(ctx context.Context, organizationID int64) (domain.WeeklySchedule, error)
	GetResourceHours(ctx context.Context, resourceID int64) (domain.WeeklySchedule, error)
	GetOrganizationBreaks(ctx context.Context, organizationID int64) (domain.BreakMap, error)
	GetSpecialDates(ctx context.Context, organizationID, offeringID int64, from, to time.Time) ([]domain.SpecialDateOverride, error)
	GetBlackouts(ctx context.Context, organizationID, offeringID int64, from, to time.Time) ([]domain.BlackoutRange, error)
	GetManagedSlots(ctx context.Context, offeringID int64) ([]domain.ManagedSlot, error)
}

// Cache кэш снимков, может отсутствовать
type Cache interface {
	Get(ctx context.Context, offeringID int64, from, to time.Time) (*availability.Snapshot, error)
	Set(ctx context.Context, offeringID int64, from, to time.Time, snap *availability.Snapshot) error
	Invalidate(ctx context.Context, offeringID int64) error
}

// Metrics учет попаданий в кэш
type Metrics interface {
	IncCacheResult(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
