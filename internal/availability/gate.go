package availability

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// IsDateAdmissible можно ли вообще бронировать услугу на эту дату
func (e *Engine) IsDateAdmissible(snap *Snapshot, date time.Time) bool {
	return e.DateRejection(snap, date) == Admitted
}

// DateRejection проверка даты с точностью до дня
// Разовые окна и минимальное время до начала здесь не учитываются,
// поэтому допустимая дата может не дать ни одного слота.
func (e *Engine) DateRejection(snap *Snapshot, date time.Time) Rejection {
	if !snap.valid() {
		return RejectNoOffering
	}

	day := e.calendarDate(date)
	today := domain.DateOnly(e.now())

	if day.Before(today) {
		return RejectPastDate
	}

	constraints := snap.Offering.Constraints
	if constraints.HasBookingWindow() && day.After(today.AddDate(0, 0, *constraints.BookingWindowDays)) {
		return RejectBeyondWindow
	}

	if snap.blackedOut(day) {
		return RejectBlackout
	}

	if !ResolveDaySchedule(snap, domain.WeekdayOf(day)).Enabled {
		return RejectDayDisabled
	}

	return Admitted
}

// DayStatus результат проверки одной даты календаря
type DayStatus struct {
	Date      time.Time
	Rejection Rejection
}

// Admissible true, если дату можно выбрать
func (s DayStatus) Admissible() bool {
	return s.Rejection == Admitted
}

// Calendar проверяет даты диапазона [from, to] включительно
// Перебор останавливается на первой дате за горизонтом бронирования.
func (e *Engine) Calendar(snap *Snapshot, from, to time.Time) []DayStatus {
	start := e.calendarDate(from)
	end := e.calendarDate(to)

	days := make([]DayStatus, 0)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		r := e.DateRejection(snap, d)
		days = append(days, DayStatus{Date: d, Rejection: r})
		if r == RejectBeyondWindow || r == RejectNoOffering {
			break
		}
	}
	return days
}

// AdmissibleDates только допустимые даты диапазона
func (e *Engine) AdmissibleDates(snap *Snapshot, from, to time.Time) []time.Time {
	dates := make([]time.Time, 0)
	for _, d := range e.Calendar(snap, from, to) {
		if d.Admissible() {
			dates = append(dates, d.Date)
		}
	}
	return dates
}
