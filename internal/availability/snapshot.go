package availability

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// Snapshot все документы конфигурации, нужные для расчета одной услуги
// Движок только читает снимок. Любой документ, кроме Offering, может отсутствовать.
type Snapshot struct {
	Offering           *domain.Offering
	OrganizationHours  domain.WeeklySchedule
	ResourceHours      domain.WeeklySchedule // учитывается, только если у услуги есть ResourceID
	OrganizationBreaks domain.BreakMap
	SpecialDates       []domain.SpecialDateOverride
	Blackouts          []domain.BlackoutRange
	ManagedSlots       []domain.ManagedSlot

	// Bookings текущая загрузка на запрошенную дату. nil - лимиты и занятость не проверяются.
	Bookings *domain.BookingLoad
}

func (s *Snapshot) valid() bool {
	return s != nil && s.Offering != nil
}

// appliesTo true, если запись организации или этой услуги
func (s *Snapshot) appliesTo(offeringID *int64) bool {
	return offeringID == nil || *offeringID == s.Offering.ID
}

// specialDateFor ищет разовое окно на дату
// Запись конкретной услуги важнее записи всей организации.
func (s *Snapshot) specialDateFor(date time.Time) (domain.SpecialDateOverride, bool) {
	var (
		orgWide domain.SpecialDateOverride
		found   bool
	)
	for _, o := range s.SpecialDates {
		if !domain.SameDate(o.Date, date) || !s.appliesTo(o.OfferingID) {
			continue
		}
		if o.OfferingID != nil {
			return o, true
		}
		if !found {
			orgWide, found = o, true
		}
	}
	return orgWide, found
}

func (s *Snapshot) blackedOut(date time.Time) bool {
	for _, r := range s.Blackouts {
		if s.appliesTo(r.OfferingID) && r.Contains(date) {
			return true
		}
	}
	return false
}
