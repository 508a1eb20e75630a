package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/availability"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/infra/cache/snapshotcache"
	scheduleRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetOffering(ctx context.Context, offeringID int64) (*domain.Offering, error) {
	args := m.Called(ctx, offeringID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Offering), args.Error(1)
}

func (m *mockRepo) GetOrganizationHours(ctx context.Context, organizationID int64) (domain.WeeklySchedule, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.WeeklySchedule), args.Error(1)
}

func (m *mockRepo) GetResourceHours(ctx context.Context, resourceID int64) (domain.WeeklySchedule, error) {
	args := m.Called(ctx, resourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.WeeklySchedule), args.Error(1)
}

func (m *mockRepo) GetOrganizationBreaks(ctx context.Context, organizationID int64) (domain.BreakMap, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.BreakMap), args.Error(1)
}

func (m *mockRepo) GetSpecialDates(ctx context.Context, organizationID, offeringID int64, from, to time.Time) ([]domain.SpecialDateOverride, error) {
	args := m.Called(ctx, organizationID, offeringID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SpecialDateOverride), args.Error(1)
}

func (m *mockRepo) GetBlackouts(ctx context.Context, organizationID, offeringID int64, from, to time.Time) ([]domain.BlackoutRange, error) {
	args := m.Called(ctx, organizationID, offeringID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BlackoutRange), args.Error(1)
}

func (m *mockRepo) GetManagedSlots(ctx context.Context, offeringID int64) ([]domain.ManagedSlot, error) {
	args := m.Called(ctx, offeringID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ManagedSlot), args.Error(1)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, offeringID int64, from, to time.Time) (*availability.Snapshot, error) {
	args := m.Called(ctx, offeringID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*availability.Snapshot), args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, offeringID int64, from, to time.Time, snap *availability.Snapshot) error {
	return m.Called(ctx, offeringID, from, to, snap).Error(0)
}

func (m *mockCache) Invalidate(ctx context.Context, offeringID int64) error {
	return m.Called(ctx, offeringID).Error(0)
}

type countingMetrics struct {
	results []string
}

func (c *countingMetrics) IncCacheResult(result string) {
	c.results = append(c.results, result)
}

type fakeTx struct{ dbmetrics.TxExecutor }

var (
	from = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	to   = from.AddDate(0, 0, 6)
)

func expectStore(repo *mockRepo, offering *domain.Offering) {
	repo.On("GetOffering", mock.Anything, offering.ID).Return(offering, nil).Once()
	repo.On("GetOrganizationHours", mock.Anything, offering.OrganizationID).Return(nil, scheduleRepo.ErrScheduleNotFound).Once()
	repo.On("GetOrganizationBreaks", mock.Anything, offering.OrganizationID).Return(domain.BreakMap{}, nil).Once()
	repo.On("GetSpecialDates", mock.Anything, offering.OrganizationID, offering.ID, from, to).Return([]domain.SpecialDateOverride{}, nil).Once()
	repo.On("GetBlackouts", mock.Anything, offering.OrganizationID, offering.ID, from, to).Return([]domain.BlackoutRange{}, nil).Once()
}

func TestService_Load_FromStore(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepo)
	offering := &domain.Offering{ID: 1, OrganizationID: 10, DurationMinutes: 30, ResourceID: ptr.Ptr(int64(5))}
	resourceHours := domain.WeeklySchedule{domain.Monday: {Enabled: true, Start: "10:00", End: "12:00"}}

	expectStore(repo, offering)
	repo.On("GetResourceHours", mock.Anything, int64(5)).Return(resourceHours, nil).Once()

	svc := NewService(repo, nil, nil, logger.Nop())
	snap, err := svc.Load(ctx, 1, from, to)

	require.NoError(t, err)
	assert.Same(t, offering, snap.Offering)
	assert.Nil(t, snap.OrganizationHours)
	assert.Equal(t, resourceHours, snap.ResourceHours)
	assert.Nil(t, snap.ManagedSlots)
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "GetManagedSlots", mock.Anything, mock.Anything)
}

func TestService_Load_OfferingNotFound(t *testing.T) {
	repo := new(mockRepo)
	repo.On("GetOffering", mock.Anything, int64(404)).Return(nil, scheduleRepo.ErrOfferingNotFound).Once()

	svc := NewService(repo, nil, nil, logger.Nop())
	_, err := svc.Load(context.Background(), 404, from, to)

	assert.ErrorIs(t, err, ErrOfferingNotFound)
}

func TestService_Load_StoreError(t *testing.T) {
	repo := new(mockRepo)
	offering := &domain.Offering{ID: 1, OrganizationID: 10}
	repo.On("GetOffering", mock.Anything, int64(1)).Return(offering, nil).Once()
	repo.On("GetOrganizationHours", mock.Anything, int64(10)).Return(nil, errors.New("connection reset")).Once()

	svc := NewService(repo, nil, nil, logger.Nop())
	_, err := svc.Load(context.Background(), 1, from, to)

	assert.ErrorIs(t, err, ErrInternal)
}

func TestService_Load_CacheHitRefreshesManagedSlots(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepo)
	cache := new(mockCache)
	metrics := &countingMetrics{}

	cached := &availability.Snapshot{Offering: &domain.Offering{ID: 1, ManagedSlotsEnabled: true}}
	slots := []domain.ManagedSlot{{ID: 3, OfferingID: 1, DayOfWeek: domain.Monday, StartTime: "10:00", MaxBookings: 2, IsActive: true}}

	cache.On("Get", ctx, int64(1), from, to).Return(cached, nil).Once()
	repo.On("GetManagedSlots", ctx, int64(1)).Return(slots, nil).Once()

	svc := NewService(repo, cache, metrics, logger.Nop())
	snap, err := svc.Load(ctx, 1, from, to)

	require.NoError(t, err)
	assert.Equal(t, slots, snap.ManagedSlots)
	assert.Equal(t, []string{"hit"}, metrics.results)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestService_Load_CacheMissStoresSnapshot(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepo)
	cache := new(mockCache)
	metrics := &countingMetrics{}
	offering := &domain.Offering{ID: 1, OrganizationID: 10}

	cache.On("Get", ctx, int64(1), from, to).Return(nil, snapshotcache.ErrCacheMiss).Once()
	expectStore(repo, offering)
	cache.On("Set", ctx, int64(1), from, to, mock.AnythingOfType("*availability.Snapshot")).Return(nil).Once()

	svc := NewService(repo, cache, metrics, logger.Nop())
	_, err := svc.Load(ctx, 1, from, to)

	require.NoError(t, err)
	assert.Equal(t, []string{"miss"}, metrics.results)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestService_Load_SkipsCacheInTransaction(t *testing.T) {
	repo := new(mockRepo)
	cache := new(mockCache)
	offering := &domain.Offering{ID: 1, OrganizationID: 10}
	expectStore(repo, offering)

	ctx := dbmetrics.WithTx(context.Background(), fakeTx{})
	svc := NewService(repo, cache, nil, logger.Nop())
	_, err := svc.Load(ctx, 1, from, to)

	require.NoError(t, err)
	cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Invalidate(t *testing.T) {
	cache := new(mockCache)
	cache.On("Invalidate", mock.Anything, int64(7)).Return(errors.New("redis down")).Once()

	svc := NewService(new(mockRepo), cache, nil, logger.Nop())
	svc.Invalidate(context.Background(), 7)

	cache.AssertExpectations(t)

	// без кэша ничего не происходит
	NewService(new(mockRepo), nil, nil, logger.Nop()).Invalidate(context.Background(), 7)
}
