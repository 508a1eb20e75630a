package availability

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Engine расчет доступности услуги по снимку конфигурации
// Не хранит состояния между вызовами и не делает I/O.
type Engine struct {
	timeProvider TimeProvider
	loc          *time.Location
}

// NewEngine создает движок. Все даты интерпретируются в часовом поясе loc.
func NewEngine(timeProvider TimeProvider, loc *time.Location) *Engine {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{
		timeProvider: timeProvider,
		loc:          loc,
	}
}

// Location часовой пояс движка
func (e *Engine) Location() *time.Location {
	return e.loc
}

// Today текущая дата в часовом поясе движка
func (e *Engine) Today() time.Time {
	return domain.DateOnly(e.now())
}

func (e *Engine) now() time.Time {
	return e.timeProvider.Now().In(e.loc)
}

// calendarDate берет год, месяц и день как есть, без перевода между поясами
func (e *Engine) calendarDate(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, e.loc)
}

// Evaluation результат расчета одной даты
type Evaluation struct {
	Date          time.Time
	Mode          string
	DateRejection Rejection
	Window        ResolvedDay
	Slots         []domain.BookableSlot
	Rejections    map[Rejection]int // сколько кандидатов отсеяно по каждой причине
}

// DateAdmissible true, если дата прошла проверку уровня дня
func (ev Evaluation) DateAdmissible() bool {
	return ev.DateRejection == Admitted
}

// RejectedTotal общее число отсеянных кандидатов
func (ev Evaluation) RejectedTotal() int {
	total := 0
	for _, n := range ev.Rejections {
		total += n
	}
	return total
}

// ListBookableSlots упорядоченный список слотов, доступных на дату
// Пустой список - нормальный результат.
func (e *Engine) ListBookableSlots(snap *Snapshot, date time.Time) []domain.BookableSlot {
	return e.Evaluate(snap, date).Slots
}

// Evaluate проверка даты, выбор окна, генерация кандидатов и проверка каждого из них
func (e *Engine) Evaluate(snap *Snapshot, date time.Time) Evaluation {
	day := e.calendarDate(date)
	ev := Evaluation{
		Date:       day,
		Slots:      make([]domain.BookableSlot, 0),
		Rejections: make(map[Rejection]int),
	}

	if !snap.valid() {
		ev.DateRejection = RejectNoOffering
		return ev
	}
	offering := snap.Offering
	ev.Mode = offering.Mode()

	if r := e.DateRejection(snap, day); r != Admitted {
		ev.DateRejection = r
		return ev
	}

	dc := e.prepare(snap, day)
	ev.Window = dc.resolved

	_, _, lengthOK := offeringSlotLength(offering)
	switch {
	case !lengthOK:
		ev.Rejections[RejectBadDuration]++
		return ev
	case !dc.breaksOK:
		ev.Rejections[RejectMalformedDay]++
		return ev
	}

	if offering.ManagedSlotsEnabled {
		e.evaluateManaged(snap, dc, &ev)
	} else {
		e.evaluateComputed(snap, dc, &ev)
	}

	return ev
}

func (e *Engine) evaluateComputed(snap *Snapshot, dc dayContext, ev *Evaluation) {
	duration := snap.Offering.DurationMinutes
	before, after := snap.Offering.Constraints.Buffers()

	for _, start := range generateWithBuffers(dc.resolved, duration, before, after, dc.rawBreaks) {
		startMin, _ := start.Minutes()
		if r := e.admit(snap, dc, startMin, false); r != Admitted {
			ev.Rejections[r]++
			continue
		}
		ev.Slots = append(ev.Slots, domain.BookableSlot{
			StartTime:       start,
			DurationMinutes: duration,
		})
	}
}

func (e *Engine) evaluateManaged(snap *Snapshot, dc dayContext, ev *Evaluation) {
	duration := snap.Offering.DurationMinutes

	for _, slot := range managedCandidates(snap, dc.weekday) {
		if !slot.HasCapacity() {
			ev.Rejections[RejectCapacityFull]++
			continue
		}
		startMin, _ := slot.StartTime.Minutes()
		if r := e.admit(snap, dc, startMin, true); r != Admitted {
			ev.Rejections[r]++
			continue
		}
		start, err := types.NewTimeStringFromMinutes(startMin)
		if err != nil {
			ev.Rejections[RejectOutsideWindow]++
			continue
		}
		ev.Slots = append(ev.Slots, domain.BookableSlot{
			StartTime:         start,
			DurationMinutes:   duration,
			ManagedSlotID:     ptr.Ptr(slot.ID),
			RemainingCapacity: ptr.Ptr(slot.Remaining()),
		})
	}
}

// FindManagedSlot активный управляемый слот с местами для даты и начала
func (e *Engine) FindManagedSlot(snap *Snapshot, date time.Time, start types.TimeString) (domain.ManagedSlot, bool) {
	if !snap.valid() {
		return domain.ManagedSlot{}, false
	}
	startMin, err := start.Minutes()
	if err != nil {
		return domain.ManagedSlot{}, false
	}
	slot, r := findManaged(snap, domain.WeekdayOf(e.calendarDate(date)), startMin)
	return slot, r == Admitted
}
