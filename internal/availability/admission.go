package availability

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// dayContext то, что вычисляется один раз на дату и нужно каждой проверке слота
type dayContext struct {
	date      time.Time
	weekday   domain.Weekday
	now       time.Time
	resolved  ResolvedDay
	window    span
	windowOK  bool
	rawBreaks []domain.BreakWindow
	breaks    []span
	breaksOK  bool
}

func (e *Engine) prepare(snap *Snapshot, day time.Time) dayContext {
	dc := dayContext{
		date:    day,
		weekday: domain.WeekdayOf(day),
		now:     e.now(),
	}

	dc.resolved = resolveEffectiveWindow(snap, day)
	dc.window, dc.windowOK = dc.resolved.span()

	breaks, err := ResolveBreaks(snap, dc.weekday)
	if err == nil {
		dc.rawBreaks = breaks
		dc.breaks, dc.breaksOK = breakSpans(breaks)
	}

	return dc
}

// IsSlotAdmissible можно ли предложить слот с началом start на дату date
func (e *Engine) IsSlotAdmissible(snap *Snapshot, date time.Time, start types.TimeString) bool {
	return e.SlotRejection(snap, date, start) == Admitted
}

// SlotRejection проверка отдельного слота
// В режиме управляемых слотов начало должно совпадать с активным слотом, в котором есть места.
func (e *Engine) SlotRejection(snap *Snapshot, date time.Time, start types.TimeString) Rejection {
	if !snap.valid() {
		return RejectNoOffering
	}

	startMin, err := start.Minutes()
	if err != nil {
		return RejectOutsideWindow
	}

	dc := e.prepare(snap, e.calendarDate(date))

	if snap.Offering.ManagedSlotsEnabled {
		if _, r := findManaged(snap, dc.weekday, startMin); r != Admitted {
			return r
		}
		return e.admit(snap, dc, startMin, true)
	}

	return e.admit(snap, dc, startMin, false)
}

// admit все проверки слота. Буферы добавляются только к вычисленным слотам.
func (e *Engine) admit(snap *Snapshot, dc dayContext, startMin int, managed bool) Rejection {
	offering := snap.Offering
	before, after, ok := offeringSlotLength(offering)
	if !ok {
		return RejectBadDuration
	}
	if !dc.breaksOK {
		return RejectMalformedDay
	}

	padded := span{start: startMin - before, end: startMin + offering.DurationMinutes + after}

	if !dc.windowOK || !padded.within(dc.window) {
		return RejectOutsideWindow
	}
	if overlapsAny(padded, dc.breaks) {
		return RejectBreakOverlap
	}

	// нулевое уведомление все равно не пропускает слоты, начало которых уже прошло
	startsAt := time.Date(dc.date.Year(), dc.date.Month(), dc.date.Day(), 0, startMin, 0, 0, dc.date.Location())
	if startsAt.Before(dc.now.Add(offering.Constraints.MinNotice())) {
		return RejectMinNotice
	}

	load := snap.Bookings
	if load == nil {
		return Admitted
	}

	if !managed && overlapsAny(padded, bookedSpans(load.Booked)) {
		return RejectBookedOverlap
	}

	return checkCaps(offering.Constraints, load)
}

func checkCaps(c domain.BookingConstraints, load *domain.BookingLoad) Rejection {
	switch {
	case reached(c.MaxPerDay, load.DayCount):
		return RejectMaxPerDay
	case reached(c.MaxPerWeek, load.WeekCount):
		return RejectMaxPerWeek
	case reached(c.MaxPerMonth, load.MonthCount):
		return RejectMaxPerMonth
	case reached(c.MaxPerCustomer, load.CustomerCount):
		return RejectMaxPerCustomer
	}
	return Admitted
}

func reached(limit *int, count int) bool {
	return limit != nil && count >= *limit
}

func bookedSpans(booked []domain.Interval) []span {
	out := make([]span, 0, len(booked))
	for _, b := range booked {
		start, err := b.Start.Minutes()
		if err != nil {
			continue
		}
		end, err := b.End.Minutes()
		if err != nil || start >= end {
			continue
		}
		out = append(out, span{start: start, end: end})
	}
	return out
}

func findManaged(snap *Snapshot, day domain.Weekday, startMin int) (domain.ManagedSlot, Rejection) {
	full := false
	for _, s := range managedCandidates(snap, day) {
		m, _ := s.StartTime.Minutes()
		if m != startMin {
			continue
		}
		if s.HasCapacity() {
			return s, Admitted
		}
		full = true
	}
	if full {
		return domain.ManagedSlot{}, RejectCapacityFull
	}
	return domain.ManagedSlot{}, RejectNotProvisioned
}
