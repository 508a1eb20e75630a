package domain

import "github.com/m04kA/SMC-AvailabilityService/pkg/types"

// Default configuration values
const (
	DefaultDayStart types.TimeString = "09:00"
	DefaultDayEnd   types.TimeString = "17:00"
)

// Business validation constants
const (
	MinDurationMinutes   = 5
	MaxDurationMinutes   = 480 // 8 hours
	MaxBookingWindowDays = 365
	MaxMinNoticeHours    = 24 * 30
	MaxBufferMinutes     = 240
	MaxBreaksPerDay      = 16
	MaxNotesLength       = 500
	MaxCalendarRangeDays = 62
	MinutesPerDay        = 24 * 60
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Режимы генерации кандидатов
const (
	ModeComputed = "computed"
	ModeManaged  = "managed"
)

// ActiveStatuses список статусов активных бронирований
// Используется для подсчёта загрузки услуги
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}
