package availability

import (
	"sort"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Window рабочее окно для генерации слотов
type Window struct {
	Start types.TimeString
	End   types.TimeString
}

// GenerateSlots генерирует начала слотов с шагом durationMinutes от начала окна
// Слот попадает в результат, если [start, start+duration) помещается в окно
// и не пересекается ни с одним перерывом. При некорректных входных данных результат пустой.
func GenerateSlots(window Window, durationMinutes int, breaks []domain.BreakWindow) []types.TimeString {
	day := ResolvedDay{Enabled: true, Start: window.Start, End: window.End}
	return generateWithBuffers(day, durationMinutes, 0, 0, breaks)
}

// generateWithBuffers шаг равен before+duration+after, начало слота сдвинуто на before
// Вместе с буферами интервал должен помещаться в окно и не задевать перерывы.
func generateWithBuffers(day ResolvedDay, durationMinutes, before, after int, breaks []domain.BreakWindow) []types.TimeString {
	slots := make([]types.TimeString, 0)

	step, ok := slotLength(durationMinutes, before, after)
	if !ok {
		return slots
	}
	window, ok := day.span()
	if !ok {
		return slots
	}
	busy, ok := breakSpans(breaks)
	if !ok {
		return slots
	}

	for cursor := window.start; cursor+step <= window.end; cursor += step {
		padded := span{start: cursor, end: cursor + step}
		if overlapsAny(padded, busy) {
			continue
		}
		start, err := types.NewTimeStringFromMinutes(cursor + before)
		if err != nil {
			break
		}
		slots = append(slots, start)
	}

	return slots
}

// slotLength длина слота вместе с буферами
// Каждая часть ограничена сутками до сложения, поэтому сумма не переполняется.
func slotLength(durationMinutes, before, after int) (int, bool) {
	if durationMinutes <= 0 || before < 0 || after < 0 {
		return 0, false
	}
	if durationMinutes > domain.MinutesPerDay || before > domain.MinutesPerDay || after > domain.MinutesPerDay {
		return 0, false
	}
	total := before + durationMinutes + after
	if total > domain.MinutesPerDay {
		return 0, false
	}
	return total, true
}

// offeringSlotLength длина слота услуги. Буферы есть только у вычисляемых слотов.
func offeringSlotLength(offering *domain.Offering) (before, after int, ok bool) {
	if !offering.ManagedSlotsEnabled {
		before, after = offering.Constraints.Buffers()
	}
	_, ok = slotLength(offering.DurationMinutes, before, after)
	return before, after, ok
}

// managedCandidates активные управляемые слоты дня недели, упорядоченные по началу
func managedCandidates(snap *Snapshot, day domain.Weekday) []domain.ManagedSlot {
	out := make([]domain.ManagedSlot, 0)
	for _, s := range snap.ManagedSlots {
		if !s.IsActive || s.DayOfWeek != day {
			continue
		}
		if s.OfferingID != 0 && s.OfferingID != snap.Offering.ID {
			continue
		}
		if _, err := s.StartTime.Minutes(); err != nil {
			continue
		}
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, _ := out[i].StartTime.Minutes()
		b, _ := out[j].StartTime.Minutes()
		if a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	})

	return out
}
