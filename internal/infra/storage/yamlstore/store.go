package yamlstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Store хранилище расписаний поверх YAML документа
// Отдает те же ошибки, что и PostgreSQL репозиторий, поэтому подходит
// как источник для сервиса снимков. Документ можно заменить на лету.
type Store struct {
	mu  sync.RWMutex
	doc *Document
	loc *time.Location
}

// NewStore создает хранилище. Даты документа читаются в его часовом поясе.
func NewStore(doc *Document) *Store {
	return &Store{doc: doc, loc: doc.Location()}
}

// Replace подменяет документ, например после перечитывания файла
func (s *Store) Replace(doc *Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	s.loc = doc.Location()
}

// Location часовой пояс текущего документа
func (s *Store) Location() *time.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loc
}

// OfferingIDs идентификаторы услуг документа по порядку
func (s *Store) OfferingIDs() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.doc.Offerings))
	for _, o := range s.doc.Offerings {
		ids = append(ids, o.ID)
	}
	return ids
}

func (s *Store) GetOffering(_ context.Context, offeringID int64) (*domain.Offering, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.offering(offeringID)
	if !ok {
		return nil, fmt.Errorf("%w: id=%d", scheduleRepo.ErrOfferingNotFound, offeringID)
	}

	c := entry.Constraints
	return &domain.Offering{
		ID:              entry.ID,
		OrganizationID:  entry.OrganizationID,
		Name:            entry.Name,
		ResourceID:      entry.ResourceID,
		DurationMinutes: entry.DurationMinutes,
		Schedule:        toWeekly(entry.Hours),
		Breaks:          toBreaks(fmt.Sprintf("offering/%d", entry.ID), entry.Breaks),
		Constraints: domain.BookingConstraints{
			MinNoticeHours:    c.MinNoticeHours,
			BookingWindowDays: c.BookingWindowDays,
			BufferBeforeMins:  c.BufferBeforeMins,
			BufferAfterMins:   c.BufferAfterMins,
			MaxPerDay:         c.MaxPerDay,
			MaxPerWeek:        c.MaxPerWeek,
			MaxPerMonth:       c.MaxPerMonth,
			MaxPerCustomer:    c.MaxPerCustomer,
		},
		ManagedSlotsEnabled: entry.ManagedSlots,
	}, nil
}

func (s *Store) GetOrganizationHours(_ context.Context, organizationID int64) (domain.WeeklySchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, org := range s.doc.Organizations {
		if org.ID == organizationID && len(org.Hours) > 0 {
			return toWeekly(org.Hours), nil
		}
	}
	return nil, fmt.Errorf("%w: organization=%d", scheduleRepo.ErrScheduleNotFound, organizationID)
}

func (s *Store) GetResourceHours(_ context.Context, resourceID int64) (domain.WeeklySchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, res := range s.doc.Resources {
		if res.ID == resourceID && len(res.Hours) > 0 {
			return toWeekly(res.Hours), nil
		}
	}
	return nil, fmt.Errorf("%w: resource=%d", scheduleRepo.ErrScheduleNotFound, resourceID)
}

func (s *Store) GetOrganizationBreaks(_ context.Context, organizationID int64) (domain.BreakMap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, org := range s.doc.Organizations {
		if org.ID == organizationID {
			return toBreaks(fmt.Sprintf("organization/%d", org.ID), org.Breaks), nil
		}
	}
	return domain.BreakMap{}, nil
}

// GetSpecialDates разовые окна организации и услуги в диапазоне [from, to]
func (s *Store) GetSpecialDates(_ context.Context, organizationID, offeringID int64, from, to time.Time) ([]domain.SpecialDateOverride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.SpecialDateOverride, 0)
	for i, e := range s.doc.SpecialDates {
		if !matches(e.OrganizationID, e.OfferingID, organizationID, offeringID) {
			continue
		}
		date, err := time.ParseInLocation(domain.DateFormat, e.Date, s.loc)
		if err != nil {
			continue
		}
		if !within(date, date, from, to) {
			continue
		}
		out = append(out, domain.SpecialDateOverride{
			ID:         int64(i + 1),
			OfferingID: e.OfferingID,
			Date:       date,
			StartTime:  types.TimeString(e.Start),
			EndTime:    types.TimeString(e.End),
		})
	}
	return out, nil
}

// GetBlackouts закрытые диапазоны, пересекающиеся с [from, to]
func (s *Store) GetBlackouts(_ context.Context, organizationID, offeringID int64, from, to time.Time) ([]domain.BlackoutRange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.BlackoutRange, 0)
	for i, e := range s.doc.Blackouts {
		if !matches(e.OrganizationID, e.OfferingID, organizationID, offeringID) {
			continue
		}
		start, err := time.ParseInLocation(domain.DateFormat, e.From, s.loc)
		if err != nil {
			continue
		}
		end, err := time.ParseInLocation(domain.DateFormat, e.To, s.loc)
		if err != nil {
			continue
		}
		if !within(start, end, from, to) {
			continue
		}
		out = append(out, domain.BlackoutRange{
			ID:         int64(i + 1),
			OfferingID: e.OfferingID,
			StartDate:  start,
			EndDate:    end,
			Reason:     e.Reason,
		})
	}
	return out, nil
}

func (s *Store) GetManagedSlots(_ context.Context, offeringID int64) ([]domain.ManagedSlot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.offering(offeringID)
	if !ok {
		return nil, fmt.Errorf("%w: id=%d", scheduleRepo.ErrOfferingNotFound, offeringID)
	}

	slots := make([]domain.ManagedSlot, 0, len(entry.Slots))
	for i, e := range entry.Slots {
		day, err := domain.ParseWeekday(e.Day)
		if err != nil {
			continue
		}
		id := e.ID
		if id == 0 {
			id = int64(i + 1)
		}
		slots = append(slots, domain.ManagedSlot{
			ID:              id,
			OfferingID:      offeringID,
			DayOfWeek:       day,
			StartTime:       types.TimeString(e.Start),
			EndTime:         types.TimeString(e.End),
			MaxBookings:     e.MaxBookings,
			CurrentBookings: e.CurrentBookings,
			IsActive:        e.Active,
		})
	}
	return slots, nil
}

// GetLoad загрузка услуги на дату по бронированиям документа
// Счетчики считаются так же, как в PostgreSQL репозитории бронирований.
func (s *Store) GetLoad(_ context.Context, offeringID int64, date time.Time, customerID *int64, today time.Time) (*domain.BookingLoad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	load := &domain.BookingLoad{Booked: make([]domain.Interval, 0)}
	weekStart, weekEnd := isoWeek(date)
	monthStart := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
	monthEnd := monthStart.AddDate(0, 1, -1)

	for _, b := range s.doc.Bookings {
		if b.OfferingID != offeringID || !isActive(b.Status) {
			continue
		}
		day, err := time.ParseInLocation(domain.DateFormat, b.Date, s.loc)
		if err != nil {
			continue
		}

		if domain.SameDate(day, date) {
			start := types.TimeString(b.Start)
			if end, err := start.AddMinutes(b.DurationMinutes); err == nil {
				load.Booked = append(load.Booked, domain.Interval{Start: start, End: end})
			}
			load.DayCount++
		}
		if within(day, day, weekStart, weekEnd) {
			load.WeekCount++
		}
		if within(day, day, monthStart, monthEnd) {
			load.MonthCount++
		}
		if customerID != nil && b.CustomerID == *customerID && !dateKey(day).Before(dateKey(today)) {
			load.CustomerCount++
		}
	}

	return load, nil
}

func (s *Store) offering(offeringID int64) (OfferingEntry, bool) {
	for _, o := range s.doc.Offerings {
		if o.ID == offeringID {
			return o, true
		}
	}
	return OfferingEntry{}, false
}

func matches(entryOrg int64, entryOffering *int64, organizationID, offeringID int64) bool {
	if entryOrg != organizationID {
		return false
	}
	return entryOffering == nil || *entryOffering == offeringID
}

// within true, если [start, end] пересекается с [from, to] по календарным датам
func within(start, end, from, to time.Time) bool {
	return !dateKey(end).Before(dateKey(from)) && !dateKey(start).After(dateKey(to))
}

func dateKey(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func isoWeek(date time.Time) (time.Time, time.Time) {
	offset := int(domain.WeekdayOf(date)) - int(domain.Monday)
	start := domain.DateOnly(date).AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 6)
}

func isActive(status string) bool {
	if status == "" {
		return true
	}
	for _, s := range domain.ActiveStatuses {
		if string(s) == status {
			return true
		}
	}
	return false
}

func toWeekly(hours map[string]DayEntry) domain.WeeklySchedule {
	if len(hours) == 0 {
		return nil
	}
	schedule := make(domain.WeeklySchedule, len(hours))
	for key, h := range hours {
		day, err := domain.ParseWeekday(key)
		if err != nil {
			continue
		}
		schedule[day] = domain.DayHours{
			Enabled: h.Enabled,
			Start:   types.TimeString(h.Start),
			End:     types.TimeString(h.End),
		}
	}
	return schedule
}

// toBreaks порядок перерывов сохраняется как в файле
// ID детерминированы, чтобы повторная загрузка давала тот же снимок.
func toBreaks(owner string, breaks map[string][]BreakEntry) domain.BreakMap {
	out := make(domain.BreakMap, len(breaks))
	for key, list := range breaks {
		day, err := domain.ParseWeekday(key)
		if err != nil {
			continue
		}
		windows := make([]domain.BreakWindow, 0, len(list))
		for i, b := range list {
			windows = append(windows, domain.BreakWindow{
				ID:        uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("%s/%s/%d", owner, day, i))),
				StartTime: types.TimeString(b.Start),
				EndTime:   types.TimeString(b.End),
			})
		}
		out[day] = windows
	}
	return out
}
