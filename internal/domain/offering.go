package domain

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// BookingConstraints ограничения бронирования услуги
// nil в любом поле означает "без ограничения".
type BookingConstraints struct {
	MinNoticeHours    *int
	BookingWindowDays *int
	BufferBeforeMins  *int
	BufferAfterMins   *int
	MaxPerDay         *int
	MaxPerWeek        *int
	MaxPerMonth       *int
	MaxPerCustomer    *int
}

// MinNotice минимальное время до начала слота
func (c BookingConstraints) MinNotice() time.Duration {
	if c.MinNoticeHours == nil || *c.MinNoticeHours <= 0 {
		return 0
	}
	return time.Duration(*c.MinNoticeHours) * time.Hour
}

// HasBookingWindow true, если задан горизонт бронирования
func (c BookingConstraints) HasBookingWindow() bool {
	return c.BookingWindowDays != nil && *c.BookingWindowDays >= 0
}

// Buffers буферы до и после встречи в минутах (отрицательные значения считаются нулем)
func (c BookingConstraints) Buffers() (before, after int) {
	if c.BufferBeforeMins != nil && *c.BufferBeforeMins > 0 {
		before = *c.BufferBeforeMins
	}
	if c.BufferAfterMins != nil && *c.BufferAfterMins > 0 {
		after = *c.BufferAfterMins
	}
	return before, after
}

// ManagedSlot заранее созданный слот с ограниченной вместимостью
type ManagedSlot struct {
	ID              int64
	OfferingID      int64
	DayOfWeek       Weekday
	StartTime       types.TimeString
	EndTime         types.TimeString
	MaxBookings     int
	CurrentBookings int
	IsActive        bool
}

// HasCapacity true, если в слоте остались места
func (s ManagedSlot) HasCapacity() bool {
	return s.CurrentBookings < s.MaxBookings
}

// Remaining количество свободных мест
func (s ManagedSlot) Remaining() int {
	if s.CurrentBookings >= s.MaxBookings {
		return 0
	}
	return s.MaxBookings - s.CurrentBookings
}

// Offering бронируемая услуга (тип встречи)
type Offering struct {
	ID                  int64
	OrganizationID      int64
	Name                string
	ResourceID          *int64 // сотрудник, чье личное расписание применяется
	DurationMinutes     int
	Schedule            WeeklySchedule // override недельного расписания, может быть nil
	Breaks              BreakMap       // override перерывов, может быть nil
	Constraints         BookingConstraints
	ManagedSlotsEnabled bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// HasResource true, если к услуге привязан сотрудник
func (o *Offering) HasResource() bool {
	return o.ResourceID != nil
}

// Mode режим генерации кандидатов для метрик и логов
func (o *Offering) Mode() string {
	if o.ManagedSlotsEnabled {
		return ModeManaged
	}
	return ModeComputed
}
