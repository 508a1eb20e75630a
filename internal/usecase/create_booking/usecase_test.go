package create_booking

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
	bookingRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/booking"
	snapshotService "github.com/m04kA/SMC-AvailabilityService/internal/service/snapshot"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

type mockSnapshots struct {
	mock.Mock
}

func (m *mockSnapshots) Load(ctx context.Context, offeringID int64, from, to time.Time) (*availability.Snapshot, error) {
	args := m.Called(ctx, offeringID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*availability.Snapshot), args.Error(1)
}

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	args := m.Called(ctx, booking)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if fn, ok := args.Get(0).(func(context.Context, *domain.Booking) *domain.Booking); ok {
		return fn(ctx, booking), args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockBookingRepo) GetLoad(ctx context.Context, offeringID int64, date time.Time, customerID *int64, today time.Time) (*domain.BookingLoad, error) {
	args := m.Called(ctx, offeringID, date, customerID, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingLoad), args.Error(1)
}

func (m *mockBookingRepo) IncrementManagedSlot(ctx context.Context, slotID int64) error {
	return m.Called(ctx, slotID).Error(0)
}

// inlineTx выполняет функцию без реальной транзакции
type inlineTx struct {
	calls int
}

func (tx *inlineTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.calls++
	return fn(ctx)
}

type recordingMetrics struct {
	results []string
}

func (r *recordingMetrics) IncBookingResult(result string) {
	r.results = append(r.results, result)
}

// 2026-10-19 10:00 - понедельник
var (
	now     = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	today   = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	tuesday = time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
)

func newSnapshot() *availability.Snapshot {
	return &availability.Snapshot{
		Offering: &domain.Offering{
			ID:              1,
			OrganizationID:  10,
			ResourceID:      ptr.Ptr(int64(77)),
			DurationMinutes: 60,
		},
	}
}

type fixture struct {
	snaps    *mockSnapshots
	bookings *mockBookingRepo
	tx       *inlineTx
	metrics  *recordingMetrics
	uc       *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		snaps:    new(mockSnapshots),
		bookings: new(mockBookingRepo),
		tx:       &inlineTx{},
		metrics:  &recordingMetrics{},
	}
	engine := availability.NewEngine(availability.FixedTimeProvider{At: now}, time.UTC)
	f.uc = NewUseCase(f.snaps, f.bookings, engine, f.tx, f.metrics, logger.Nop())
	return f
}

func request(start types.TimeString) *Request {
	return &Request{CustomerID: 42, OfferingID: 1, Date: tuesday, StartTime: start}
}

func TestExecute_CreatesBooking(t *testing.T) {
	f := newFixture()
	f.snaps.On("Load", mock.Anything, int64(1), tuesday, tuesday).Return(newSnapshot(), nil).Once()
	f.bookings.On("GetLoad", mock.Anything, int64(1), tuesday, ptr.Ptr(int64(42)), today).Return(&domain.BookingLoad{}, nil).Once()
	f.bookings.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.OfferingID == 1 && b.OrganizationID == 10 && *b.ResourceID == 77 &&
			b.StartTime == "11:00" && b.DurationMinutes == 60 && b.Status == domain.StatusConfirmed
	})).Return(func(_ context.Context, b *domain.Booking) *domain.Booking {
		b.ID = 100
		return b
	}, nil).Once()

	resp, err := f.uc.Execute(context.Background(), request("11:00"))
	require.NoError(t, err)

	assert.Equal(t, int64(100), resp.ID)
	assert.Equal(t, types.TimeString("12:00"), resp.EndTime)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Nil(t, resp.ManagedSlotID)
	assert.Equal(t, 1, f.tx.calls)
	assert.Equal(t, []string{resultCreated}, f.metrics.results)

	f.snaps.AssertExpectations(t)
	f.bookings.AssertExpectations(t)
}

func TestExecute_SlotRejections(t *testing.T) {
	tests := []struct {
		name  string
		start types.TimeString
		load  *domain.BookingLoad
		edit  func(*availability.Snapshot)
		want  error
	}{
		{
			name:  "booked overlap",
			start: "10:00",
			load:  &domain.BookingLoad{Booked: []domain.Interval{{Start: "10:00", End: "11:00"}}},
			want:  ErrSlotNotAvailable,
		},
		{
			name:  "outside window",
			start: "17:00",
			load:  &domain.BookingLoad{},
			want:  ErrInvalidTimeSlot,
		},
		{
			name:  "off grid",
			start: "09:30",
			load:  &domain.BookingLoad{},
			want:  ErrInvalidTimeSlot,
		},
		{
			name:  "min notice",
			start: "09:00",
			load:  &domain.BookingLoad{},
			edit: func(s *availability.Snapshot) {
				s.Offering.Constraints.MinNoticeHours = ptr.Ptr(48)
			},
			want: ErrTooLateToBook,
		},
		{
			name:  "daily cap",
			start: "09:00",
			load:  &domain.BookingLoad{DayCount: 2},
			edit: func(s *availability.Snapshot) {
				s.Offering.Constraints.MaxPerDay = ptr.Ptr(2)
			},
			want: ErrBookingLimitReached,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			snap := newSnapshot()
			if tt.edit != nil {
				tt.edit(snap)
			}
			f.snaps.On("Load", mock.Anything, int64(1), tuesday, tuesday).Return(snap, nil).Once()
			f.bookings.On("GetLoad", mock.Anything, int64(1), tuesday, ptr.Ptr(int64(42)), today).Return(tt.load, nil).Once()

			_, err := f.uc.Execute(context.Background(), request(tt.start))
			assert.ErrorIs(t, err, tt.want)
			f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestExecute_DateNotAdmissible(t *testing.T) {
	f := newFixture()
	sunday := time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC)
	f.snaps.On("Load", mock.Anything, int64(1), sunday, sunday).Return(newSnapshot(), nil).Once()

	req := request("10:00")
	req.Date = sunday
	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrDateNotAdmissible)
	assert.Equal(t, []string{resultRejected}, f.metrics.results)
	f.bookings.AssertNotCalled(t, "GetLoad", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_ManagedSlotReserved(t *testing.T) {
	f := newFixture()
	snap := newSnapshot()
	snap.Offering.ManagedSlotsEnabled = true
	snap.ManagedSlots = []domain.ManagedSlot{
		{ID: 5, OfferingID: 1, DayOfWeek: domain.Tuesday, StartTime: "14:00", EndTime: "15:00", MaxBookings: 2, CurrentBookings: 1, IsActive: true},
	}

	f.snaps.On("Load", mock.Anything, int64(1), tuesday, tuesday).Return(snap, nil).Once()
	f.bookings.On("GetLoad", mock.Anything, int64(1), tuesday, ptr.Ptr(int64(42)), today).Return(&domain.BookingLoad{}, nil).Once()
	f.bookings.On("IncrementManagedSlot", mock.Anything, int64(5)).Return(nil).Once()
	f.bookings.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.ManagedSlotID != nil && *b.ManagedSlotID == 5
	})).Return(func(_ context.Context, b *domain.Booking) *domain.Booking {
		b.ID = 7
		return b
	}, nil).Once()

	resp, err := f.uc.Execute(context.Background(), request("14:00"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), *resp.ManagedSlotID)
	f.bookings.AssertExpectations(t)
}

func TestExecute_ManagedSlotTakenConcurrently(t *testing.T) {
	f := newFixture()
	snap := newSnapshot()
	snap.Offering.ManagedSlotsEnabled = true
	snap.ManagedSlots = []domain.ManagedSlot{
		{ID: 5, OfferingID: 1, DayOfWeek: domain.Tuesday, StartTime: "14:00", EndTime: "15:00", MaxBookings: 1, IsActive: true},
	}

	f.snaps.On("Load", mock.Anything, int64(1), tuesday, tuesday).Return(snap, nil).Once()
	f.bookings.On("GetLoad", mock.Anything, int64(1), tuesday, ptr.Ptr(int64(42)), today).Return(&domain.BookingLoad{}, nil).Once()
	f.bookings.On("IncrementManagedSlot", mock.Anything, int64(5)).Return(bookingRepo.ErrSlotNotAvailable).Once()

	_, err := f.uc.Execute(context.Background(), request("14:00"))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Equal(t, []string{resultConflict}, f.metrics.results)
	f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestExecute_ManagedModeUnknownStart(t *testing.T) {
	f := newFixture()
	snap := newSnapshot()
	snap.Offering.ManagedSlotsEnabled = true

	f.snaps.On("Load", mock.Anything, int64(1), tuesday, tuesday).Return(snap, nil).Once()
	f.bookings.On("GetLoad", mock.Anything, int64(1), tuesday, ptr.Ptr(int64(42)), today).Return(&domain.BookingLoad{}, nil).Once()

	_, err := f.uc.Execute(context.Background(), request("14:00"))
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestExecute_UniqueViolationIsConflict(t *testing.T) {
	f := newFixture()
	f.snaps.On("Load", mock.Anything, int64(1), tuesday, tuesday).Return(newSnapshot(), nil).Once()
	f.bookings.On("GetLoad", mock.Anything, int64(1), tuesday, ptr.Ptr(int64(42)), today).Return(&domain.BookingLoad{}, nil).Once()
	f.bookings.On("Create", mock.Anything, mock.Anything).Return(nil, bookingRepo.ErrSlotNotAvailable).Once()

	_, err := f.uc.Execute(context.Background(), request("11:00"))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_Errors(t *testing.T) {
	t.Run("offering not found", func(t *testing.T) {
		f := newFixture()
		f.snaps.On("Load", mock.Anything, int64(1), tuesday, tuesday).Return(nil, snapshotService.ErrOfferingNotFound).Once()

		_, err := f.uc.Execute(context.Background(), request("11:00"))
		assert.ErrorIs(t, err, ErrOfferingNotFound)
	})

	t.Run("storage failure", func(t *testing.T) {
		f := newFixture()
		f.snaps.On("Load", mock.Anything, int64(1), tuesday, tuesday).Return(newSnapshot(), nil).Once()
		f.bookings.On("GetLoad", mock.Anything, int64(1), tuesday, ptr.Ptr(int64(42)), today).Return(nil, errors.New("db down")).Once()

		_, err := f.uc.Execute(context.Background(), request("11:00"))
		assert.ErrorIs(t, err, ErrInternal)
		assert.Equal(t, []string{resultError}, f.metrics.results)
	})
}

func TestExecute_Validation(t *testing.T) {
	f := newFixture()
	long := string(make([]rune, domain.MaxNotesLength+1))

	tests := map[string]*Request{
		"nil request":   nil,
		"no customer":   {OfferingID: 1, Date: tuesday, StartTime: "10:00"},
		"no offering":   {CustomerID: 1, Date: tuesday, StartTime: "10:00"},
		"no date":       {CustomerID: 1, OfferingID: 1, StartTime: "10:00"},
		"bad time":      {CustomerID: 1, OfferingID: 1, Date: tuesday, StartTime: "25:00"},
		"notes too big": {CustomerID: 1, OfferingID: 1, Date: tuesday, StartTime: "10:00", Notes: &long},
	}
	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
	assert.Zero(t, f.tx.calls)
}
