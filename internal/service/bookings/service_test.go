package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/bookings/models"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
)

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockBookingRepo) Cancel(ctx context.Context, id int64, reason string) error {
	return m.Called(ctx, id, reason).Error(0)
}

func (m *mockBookingRepo) DecrementManagedSlot(ctx context.Context, slotID int64) error {
	return m.Called(ctx, slotID).Error(0)
}

type mockAccess struct {
	mock.Mock
}

func (m *mockAccess) IsManager(ctx context.Context, organizationID, userID int64) (bool, error) {
	args := m.Called(ctx, organizationID, userID)
	return args.Bool(0), args.Error(1)
}

type inlineTx struct {
	calls int
}

func (tx *inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.calls++
	return fn(ctx)
}

type recordingMetrics struct {
	results []string
}

func (r *recordingMetrics) IncBookingResult(result string) {
	r.results = append(r.results, result)
}

type fixture struct {
	repo    *mockBookingRepo
	access  *mockAccess
	tx      *inlineTx
	metrics *recordingMetrics
	service *Service
}

func newFixture() *fixture {
	f := &fixture{
		repo:    new(mockBookingRepo),
		access:  new(mockAccess),
		tx:      &inlineTx{},
		metrics: &recordingMetrics{},
	}
	f.service = NewService(f.repo, f.access, f.tx, f.metrics, logger.Nop())
	return f
}

func booking(status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:              11,
		OfferingID:      2,
		OrganizationID:  1,
		CustomerID:      5,
		BookingDate:     time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:00",
		DurationMinutes: 60,
		Status:          status,
	}
}

func TestGetByID(t *testing.T) {
	t.Run("owner", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByID", mock.Anything, int64(11)).Return(booking(domain.StatusConfirmed), nil).Once()

		resp, err := f.service.GetByID(context.Background(), 11, 5)
		require.NoError(t, err)
		assert.Equal(t, "2026-10-20", resp.BookingDate)
		assert.Equal(t, "11:00", resp.EndTime)
		f.access.AssertNotCalled(t, "IsManager", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("manager", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByID", mock.Anything, int64(11)).Return(booking(domain.StatusConfirmed), nil).Once()
		f.access.On("IsManager", mock.Anything, int64(1), int64(9)).Return(true, nil).Once()

		_, err := f.service.GetByID(context.Background(), 11, 9)
		require.NoError(t, err)
		f.access.AssertExpectations(t)
	})

	t.Run("stranger", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByID", mock.Anything, int64(11)).Return(booking(domain.StatusConfirmed), nil).Once()
		f.access.On("IsManager", mock.Anything, int64(1), int64(9)).Return(false, nil).Once()

		_, err := f.service.GetByID(context.Background(), 11, 9)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByID", mock.Anything, int64(11)).Return(nil, bookingRepo.ErrBookingNotFound).Once()

		_, err := f.service.GetByID(context.Background(), 11, 5)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("repository failure", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByID", mock.Anything, int64(11)).Return(nil, errors.New("boom")).Once()

		_, err := f.service.GetByID(context.Background(), 11, 5)
		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestCancel_ComputedSlot(t *testing.T) {
	f := newFixture()
	f.repo.On("GetByID", mock.Anything, int64(11)).Return(booking(domain.StatusConfirmed), nil).Once()
	f.repo.On("Cancel", mock.Anything, int64(11), "передумал").Return(nil).Once()

	err := f.service.Cancel(context.Background(), 11, &models.CancelBookingRequest{UserID: 5, CancellationReason: "передумал"})
	require.NoError(t, err)

	assert.Equal(t, 1, f.tx.calls)
	assert.Equal(t, []string{"cancelled"}, f.metrics.results)
	f.repo.AssertNotCalled(t, "DecrementManagedSlot", mock.Anything, mock.Anything)
	f.repo.AssertExpectations(t)
}

func TestCancel_ReleasesManagedSeat(t *testing.T) {
	f := newFixture()
	b := booking(domain.StatusPending)
	b.ManagedSlotID = ptr.Ptr(int64(31))
	f.repo.On("GetByID", mock.Anything, int64(11)).Return(b, nil).Once()
	f.repo.On("Cancel", mock.Anything, int64(11), "").Return(nil).Once()
	f.repo.On("DecrementManagedSlot", mock.Anything, int64(31)).Return(nil).Once()

	err := f.service.Cancel(context.Background(), 11, &models.CancelBookingRequest{UserID: 5})
	require.NoError(t, err)
	f.repo.AssertExpectations(t)
}

func TestCancel_SeatCounterAlreadyZero(t *testing.T) {
	f := newFixture()
	b := booking(domain.StatusConfirmed)
	b.ManagedSlotID = ptr.Ptr(int64(31))
	f.repo.On("GetByID", mock.Anything, int64(11)).Return(b, nil).Once()
	f.repo.On("Cancel", mock.Anything, int64(11), "").Return(nil).Once()
	f.repo.On("DecrementManagedSlot", mock.Anything, int64(31)).Return(bookingRepo.ErrManagedSlotNotFound).Once()

	err := f.service.Cancel(context.Background(), 11, &models.CancelBookingRequest{UserID: 5})
	assert.NoError(t, err)
}

func TestCancel_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     *models.CancelBookingRequest
		setup   func(f *fixture)
		wantErr error
	}{
		{
			name:    "missing user",
			req:     &models.CancelBookingRequest{},
			setup:   func(f *fixture) {},
			wantErr: ErrInvalidInput,
		},
		{
			name: "completed booking",
			req:  &models.CancelBookingRequest{UserID: 5},
			setup: func(f *fixture) {
				f.repo.On("GetByID", mock.Anything, int64(11)).Return(booking(domain.StatusCompleted), nil).Once()
			},
			wantErr: ErrCannotCancel,
		},
		{
			name: "stranger",
			req:  &models.CancelBookingRequest{UserID: 9},
			setup: func(f *fixture) {
				f.repo.On("GetByID", mock.Anything, int64(11)).Return(booking(domain.StatusConfirmed), nil).Once()
				f.access.On("IsManager", mock.Anything, int64(1), int64(9)).Return(false, nil).Once()
			},
			wantErr: ErrAccessDenied,
		},
		{
			name: "concurrently cancelled",
			req:  &models.CancelBookingRequest{UserID: 5},
			setup: func(f *fixture) {
				f.repo.On("GetByID", mock.Anything, int64(11)).Return(booking(domain.StatusConfirmed), nil).Once()
				f.repo.On("Cancel", mock.Anything, int64(11), "").Return(bookingRepo.ErrBookingNotFound).Once()
			},
			wantErr: ErrCannotCancel,
		},
		{
			name: "release failure",
			req:  &models.CancelBookingRequest{UserID: 5},
			setup: func(f *fixture) {
				b := booking(domain.StatusConfirmed)
				b.ManagedSlotID = ptr.Ptr(int64(31))
				f.repo.On("GetByID", mock.Anything, int64(11)).Return(b, nil).Once()
				f.repo.On("Cancel", mock.Anything, int64(11), "").Return(nil).Once()
				f.repo.On("DecrementManagedSlot", mock.Anything, int64(31)).Return(errors.New("boom")).Once()
			},
			wantErr: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setup(f)

			err := f.service.Cancel(context.Background(), 11, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.metrics.results)
		})
	}
}
