package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/cache/snapshotcache"
	scheduleRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
)

const (
	cacheHit   = "hit"
	cacheMiss  = "miss"
	cacheError = "error"
)

// Service собирает снимок конфигурации услуги для движка
// Отсутствие любого документа, кроме самой услуги, не ошибка.
type Service struct {
	repo    ScheduleRepository
	cache   Cache
	metrics Metrics
	logger  Logger
}

// NewService создает сервис. cache и metrics могут быть nil.
func NewService(repo ScheduleRepository, cache Cache, metrics Metrics, logger Logger) *Service {
	return &Service{
		repo:    repo,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}
}

// Load снимок услуги с датами [from, to]
// Внутри транзакции кэш не используется: решение о бронировании принимается по данным из БД.
func (s *Service) Load(ctx context.Context, offeringID int64, from, to time.Time) (*availability.Snapshot, error) {
	useCache := s.cache != nil && !dbmetrics.IsInTransaction(ctx)

	if useCache {
		snap, err := s.cache.Get(ctx, offeringID, from, to)
		switch {
		case err == nil:
			s.countCache(cacheHit)
			if err := s.attachManagedSlots(ctx, snap); err != nil {
				return nil, err
			}
			return snap, nil
		case errors.Is(err, snapshotcache.ErrCacheMiss):
			s.countCache(cacheMiss)
		default:
			s.countCache(cacheError)
			s.logger.Warn("LoadSnapshot: cache read failed for offering=%d: %v", offeringID, err)
		}
	}

	snap, err := s.loadFromStore(ctx, offeringID, from, to)
	if err != nil {
		return nil, err
	}

	if useCache {
		if err := s.cache.Set(ctx, offeringID, from, to, snap); err != nil {
			s.logger.Warn("LoadSnapshot: cache write failed for offering=%d: %v", offeringID, err)
		}
	}

	return snap, nil
}

// Invalidate сбрасывает кэш снимков услуги после изменения расписания
func (s *Service) Invalidate(ctx context.Context, offeringID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, offeringID); err != nil {
		s.logger.Warn("InvalidateSnapshot: offering=%d: %v", offeringID, err)
	}
}

func (s *Service) loadFromStore(ctx context.Context, offeringID int64, from, to time.Time) (*availability.Snapshot, error) {
	offering, err := s.repo.GetOffering(ctx, offeringID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrOfferingNotFound) {
			return nil, ErrOfferingNotFound
		}
		s.logger.Error("LoadSnapshot: failed to get offering id=%d: %v", offeringID, err)
		return nil, fmt.Errorf("%w: failed to get offering: %v", ErrInternal, err)
	}

	snap := &availability.Snapshot{Offering: offering}
	orgID := offering.OrganizationID

	snap.OrganizationHours, err = s.repo.GetOrganizationHours(ctx, orgID)
	if err != nil && !errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
		s.logger.Error("LoadSnapshot: failed to get organization hours org=%d: %v", orgID, err)
		return nil, fmt.Errorf("%w: failed to get organization hours: %v", ErrInternal, err)
	}

	if offering.ResourceID != nil {
		snap.ResourceHours, err = s.repo.GetResourceHours(ctx, *offering.ResourceID)
		if err != nil && !errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			s.logger.Error("LoadSnapshot: failed to get resource hours resource=%d: %v", *offering.ResourceID, err)
			return nil, fmt.Errorf("%w: failed to get resource hours: %v", ErrInternal, err)
		}
	}

	snap.OrganizationBreaks, err = s.repo.GetOrganizationBreaks(ctx, orgID)
	if err != nil {
		s.logger.Error("LoadSnapshot: failed to get organization breaks org=%d: %v", orgID, err)
		return nil, fmt.Errorf("%w: failed to get organization breaks: %v", ErrInternal, err)
	}

	snap.SpecialDates, err = s.repo.GetSpecialDates(ctx, orgID, offeringID, from, to)
	if err != nil {
		s.logger.Error("LoadSnapshot: failed to get special dates offering=%d: %v", offeringID, err)
		return nil, fmt.Errorf("%w: failed to get special dates: %v", ErrInternal, err)
	}

	snap.Blackouts, err = s.repo.GetBlackouts(ctx, orgID, offeringID, from, to)
	if err != nil {
		s.logger.Error("LoadSnapshot: failed to get blackouts offering=%d: %v", offeringID, err)
		return nil, fmt.Errorf("%w: failed to get blackouts: %v", ErrInternal, err)
	}

	if err := s.attachManagedSlots(ctx, snap); err != nil {
		return nil, err
	}

	return snap, nil
}

func (s *Service) attachManagedSlots(ctx context.Context, snap *availability.Snapshot) error {
	if !snap.Offering.ManagedSlotsEnabled {
		return nil
	}
	slots, err := s.repo.GetManagedSlots(ctx, snap.Offering.ID)
	if err != nil {
		s.logger.Error("LoadSnapshot: failed to get managed slots offering=%d: %v", snap.Offering.ID, err)
		return fmt.Errorf("%w: failed to get managed slots: %v", ErrInternal, err)
	}
	snap.ManagedSlots = slots
	return nil
}

func (s *Service) countCache(result string) {
	if s.metrics != nil {
		s.metrics.IncCacheResult(result)
	}
}
