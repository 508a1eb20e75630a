package availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Layer источник, из которого взято рабочее окно дня
type Layer string

const (
	LayerNone         Layer = ""
	LayerResource     Layer = "resource"
	LayerOffering     Layer = "offering"
	LayerOrganization Layer = "organization"
	LayerDefault      Layer = "default"
	LayerSpecialDate  Layer = "special_date"
)

// ResolvedDay итоговое рабочее окно дня и слой, который его определил
type ResolvedDay struct {
	Enabled bool
	Start   types.TimeString
	End     types.TimeString
	Layer   Layer
}

// span полуоткрытый интервал [start, end) в минутах от начала суток
type span struct {
	start int
	end   int
}

func (s span) overlaps(other span) bool {
	return s.start < other.end && s.end > other.start
}

func (s span) within(outer span) bool {
	return s.start >= outer.start && s.end <= outer.end
}

// ResolveDaySchedule выбирает ровно один слой расписания для дня недели
// Порядок: сотрудник, override услуги, организация, значение по умолчанию.
// Решает наличие записи, а не её включенность: выключенный день в верхнем слое
// не уступает нижнему.
func ResolveDaySchedule(snap *Snapshot, day domain.Weekday) ResolvedDay {
	if !snap.valid() || !day.IsValid() {
		return ResolvedDay{Layer: LayerNone}
	}

	if snap.Offering.HasResource() {
		if h, ok := snap.ResourceHours.Entry(day); ok {
			return fromEntry(h, LayerResource)
		}
	}
	if h, ok := snap.Offering.Schedule.Entry(day); ok {
		return fromEntry(h, LayerOffering)
	}
	if h, ok := snap.OrganizationHours.Entry(day); ok {
		return fromEntry(h, LayerOrganization)
	}

	h, _ := domain.DefaultWeeklySchedule().Entry(day)
	return fromEntry(h, LayerDefault)
}

// fromEntry некорректная запись выключает день
func fromEntry(h domain.DayHours, layer Layer) ResolvedDay {
	if !h.Enabled || !h.IsWellFormed() {
		return ResolvedDay{Layer: layer}
	}
	return ResolvedDay{Enabled: true, Start: h.Start, End: h.End, Layer: layer}
}

// ResolveBreaks выбирает список перерывов целиком из одной карты
// Перерывы услуги используются, если на этот день их хотя бы один, иначе перерывы организации.
func ResolveBreaks(snap *Snapshot, day domain.Weekday) ([]domain.BreakWindow, error) {
	if !snap.valid() {
		return nil, nil
	}

	selected := snap.Offering.Breaks.For(day)
	if len(selected) == 0 {
		selected = snap.OrganizationBreaks.For(day)
	}

	prevStart := -1
	for i, b := range selected {
		if !b.IsWellFormed() {
			return nil, fmt.Errorf("%w: %s break #%d %s-%s", ErrMalformedBreaks, day, i, b.StartTime, b.EndTime)
		}
		start, _ := b.StartTime.Minutes()
		if start < prevStart {
			return nil, fmt.Errorf("%w: %s breaks are not ordered by start", ErrMalformedBreaks, day)
		}
		prevStart = start
	}

	out := make([]domain.BreakWindow, len(selected))
	copy(out, selected)
	return out, nil
}

// resolveEffectiveWindow единое решение о рабочем окне даты для генерации и проверки слотов
// Разовое окно на дату заменяет недельное расписание. Некорректное разовое окно закрывает день.
func resolveEffectiveWindow(snap *Snapshot, date time.Time) ResolvedDay {
	if !snap.valid() {
		return ResolvedDay{Layer: LayerNone}
	}
	if o, ok := snap.specialDateFor(date); ok {
		if !o.IsWellFormed() {
			return ResolvedDay{Layer: LayerSpecialDate}
		}
		return ResolvedDay{Enabled: true, Start: o.StartTime, End: o.EndTime, Layer: LayerSpecialDate}
	}
	return ResolveDaySchedule(snap, domain.WeekdayOf(date))
}

func (d ResolvedDay) span() (span, bool) {
	if !d.Enabled {
		return span{}, false
	}
	start, err := d.Start.Minutes()
	if err != nil {
		return span{}, false
	}
	end, err := d.End.Minutes()
	if err != nil || start >= end {
		return span{}, false
	}
	return span{start: start, end: end}, true
}

// breakSpans переводит перерывы в минуты. Некорректный перерыв - false.
func breakSpans(breaks []domain.BreakWindow) ([]span, bool) {
	out := make([]span, 0, len(breaks))
	for _, b := range breaks {
		start, err := b.StartTime.Minutes()
		if err != nil {
			return nil, false
		}
		end, err := b.EndTime.Minutes()
		if err != nil || start >= end {
			return nil, false
		}
		out = append(out, span{start: start, end: end})
	}
	return out, true
}

func overlapsAny(s span, others []span) bool {
	for _, o := range others {
		if s.overlaps(o) {
			return true
		}
	}
	return false
}
