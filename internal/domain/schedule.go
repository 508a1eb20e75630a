package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// DayHours рабочие часы на один день недели
type DayHours struct {
	Enabled bool
	Start   types.TimeString
	End     types.TimeString
}

// IsWellFormed проверяет, что время корректно и Start < End
// Для выключенного дня время не проверяется.
func (h DayHours) IsWellFormed() bool {
	if !h.Enabled {
		return true
	}
	return isValidInterval(h.Start, h.End)
}

// WeeklySchedule недельное расписание одного слоя
// Отсутствие ключа означает "слой ничего не говорит про этот день".
type WeeklySchedule map[Weekday]DayHours

// Entry возвращает запись дня и признак её наличия
func (s WeeklySchedule) Entry(day Weekday) (DayHours, bool) {
	if s == nil {
		return DayHours{}, false
	}
	h, ok := s[day]
	return h, ok
}

// DefaultWeeklySchedule расписание по умолчанию: пн-пт 09:00-17:00, выходные закрыты
func DefaultWeeklySchedule() WeeklySchedule {
	schedule := make(WeeklySchedule, len(AllWeekdays))
	for _, day := range AllWeekdays {
		schedule[day] = DayHours{
			Enabled: !day.IsWeekend(),
			Start:   DefaultDayStart,
			End:     DefaultDayEnd,
		}
	}
	return schedule
}

// BreakWindow перерыв внутри рабочего дня
type BreakWindow struct {
	ID        uuid.UUID
	StartTime types.TimeString
	EndTime   types.TimeString
}

// IsWellFormed проверяет, что StartTime < EndTime
func (b BreakWindow) IsWellFormed() bool {
	return isValidInterval(b.StartTime, b.EndTime)
}

// BreakMap перерывы по дням недели
type BreakMap map[Weekday][]BreakWindow

// For возвращает перерывы на день (nil, если не заданы)
func (m BreakMap) For(day Weekday) []BreakWindow {
	if m == nil {
		return nil
	}
	return m[day]
}

// SpecialDateOverride разовая замена рабочего окна на конкретную дату
// OfferingID == nil - действует для всей организации.
type SpecialDateOverride struct {
	ID         int64
	OfferingID *int64
	Date       time.Time
	StartTime  types.TimeString
	EndTime    types.TimeString
}

// IsWellFormed проверяет, что StartTime < EndTime
func (o SpecialDateOverride) IsWellFormed() bool {
	return isValidInterval(o.StartTime, o.EndTime)
}

// BlackoutRange диапазон дат (включительно), в который бронирование невозможно
// OfferingID == nil - действует для всей организации.
type BlackoutRange struct {
	ID         int64
	OfferingID *int64
	StartDate  time.Time
	EndDate    time.Time
	Reason     string
}

// Contains проверяет, попадает ли дата в диапазон
// Сравниваются только календарные даты, часовые пояса значений не важны.
func (r BlackoutRange) Contains(date time.Time) bool {
	d := dayNumber(date)
	return d >= dayNumber(r.StartDate) && d <= dayNumber(r.EndDate)
}

func dayNumber(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

// DateOnly обнуляет время, сохраняя часовой пояс
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDate проверяет, что две даты совпадают по календарю
func SameDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func isValidInterval(start, end types.TimeString) bool {
	s, err := start.Minutes()
	if err != nil {
		return false
	}
	e, err := end.Minutes()
	if err != nil {
		return false
	}
	return s < e
}
