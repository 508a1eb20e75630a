package domain

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusNoShow    BookingStatus = "no_show"
)

// Booking represents a committed booking of an offering
type Booking struct {
	ID              int64
	OfferingID      int64
	OrganizationID  int64
	CustomerID      int64
	ResourceID      *int64
	ManagedSlotID   *int64 // заполнено только в режиме управляемых слотов
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          BookingStatus
	Notes           *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies its time
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled && b.Status != StatusNoShow
}

// CanBeCancelled отменить можно только еще не состоявшееся бронирование
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// Interval занятый интервал времени в пределах одного дня
type Interval struct {
	Start types.TimeString
	End   types.TimeString
}

// BookingLoad текущая загрузка услуги, нужная для проверки лимитов
// Собирается хранилищем на дату запроса; движок только читает её.
type BookingLoad struct {
	Booked        []Interval // активные бронирования услуги на дату
	DayCount      int
	WeekCount     int // ISO-неделя (пн-вс), содержащая дату
	MonthCount    int
	CustomerCount int // активные будущие бронирования клиента по этой услуге
}
