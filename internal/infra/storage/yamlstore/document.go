package yamlstore

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// Document корень YAML файла с расписаниями
// Время хранится строками "HH:MM" как есть: некорректные значения доходят до движка
// и закрывают день, а не роняют загрузку.
type Document struct {
	Timezone      string              `yaml:"timezone,omitempty"`
	Organizations []OrganizationEntry `yaml:"organizations"`
	Resources     []ResourceEntry     `yaml:"resources,omitempty"`
	Offerings     []OfferingEntry     `yaml:"offerings"`
	SpecialDates  []SpecialDateEntry  `yaml:"special_dates,omitempty"`
	Blackouts     []BlackoutEntry     `yaml:"blackouts,omitempty"`
	Bookings      []BookingEntry      `yaml:"bookings,omitempty"`
}

// DayEntry часы одного дня
type DayEntry struct {
	Enabled bool   `yaml:"enabled"`
	Start   string `yaml:"start,omitempty"`
	End     string `yaml:"end,omitempty"`
}

// BreakEntry перерыв
type BreakEntry struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// OrganizationEntry часы и перерывы организации
type OrganizationEntry struct {
	ID     int64                   `yaml:"id"`
	Hours  map[string]DayEntry     `yaml:"hours,omitempty"`
	Breaks map[string][]BreakEntry `yaml:"breaks,omitempty"`
}

// ResourceEntry личное расписание сотрудника
type ResourceEntry struct {
	ID    int64               `yaml:"id"`
	Hours map[string]DayEntry `yaml:"hours,omitempty"`
}

// ConstraintsEntry ограничения бронирования
type ConstraintsEntry struct {
	MinNoticeHours    *int `yaml:"min_notice_hours,omitempty"`
	BookingWindowDays *int `yaml:"booking_window_days,omitempty"`
	BufferBeforeMins  *int `yaml:"buffer_before_mins,omitempty"`
	BufferAfterMins   *int `yaml:"buffer_after_mins,omitempty"`
	MaxPerDay         *int `yaml:"max_per_day,omitempty"`
	MaxPerWeek        *int `yaml:"max_per_week,omitempty"`
	MaxPerMonth       *int `yaml:"max_per_month,omitempty"`
	MaxPerCustomer    *int `yaml:"max_per_customer,omitempty"`
}

// ManagedSlotEntry заранее созданный слот
type ManagedSlotEntry struct {
	ID              int64  `yaml:"id"`
	Day             string `yaml:"day"`
	Start           string `yaml:"start"`
	End             string `yaml:"end"`
	MaxBookings     int    `yaml:"max_bookings"`
	CurrentBookings int    `yaml:"current_bookings"`
	Active          bool   `yaml:"active"`
}

// OfferingEntry услуга
type OfferingEntry struct {
	ID              int64                   `yaml:"id"`
	OrganizationID  int64                   `yaml:"organization_id"`
	Name            string                  `yaml:"name"`
	ResourceID      *int64                  `yaml:"resource_id,omitempty"`
	DurationMinutes int                     `yaml:"duration_minutes"`
	ManagedSlots    bool                    `yaml:"managed_slots,omitempty"`
	Hours           map[string]DayEntry     `yaml:"hours,omitempty"`
	Breaks          map[string][]BreakEntry `yaml:"breaks,omitempty"`
	Constraints     ConstraintsEntry        `yaml:"constraints,omitempty"`
	Slots           []ManagedSlotEntry      `yaml:"slots,omitempty"`
}

// SpecialDateEntry разовое окно. Без offering_id действует для всей организации.
type SpecialDateEntry struct {
	OrganizationID int64  `yaml:"organization_id"`
	OfferingID     *int64 `yaml:"offering_id,omitempty"`
	Date           string `yaml:"date"`
	Start          string `yaml:"start"`
	End            string `yaml:"end"`
}

// BlackoutEntry закрытый диапазон дат, включительно
type BlackoutEntry struct {
	OrganizationID int64  `yaml:"organization_id"`
	OfferingID     *int64 `yaml:"offering_id,omitempty"`
	From           string `yaml:"from"`
	To             string `yaml:"to"`
	Reason         string `yaml:"reason,omitempty"`
}

// BookingEntry существующее бронирование для расчета загрузки
type BookingEntry struct {
	OfferingID      int64  `yaml:"offering_id"`
	CustomerID      int64  `yaml:"customer_id"`
	Date            string `yaml:"date"`
	Start           string `yaml:"start"`
	DurationMinutes int    `yaml:"duration_minutes"`
	Status          string `yaml:"status,omitempty"`
}

// LoadDocument читает и проверяет YAML файл
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadFile, path, err)
	}
	return ParseDocument(data)
}

// ParseDocument разбирает и проверяет YAML документ
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate проверяет структуру документа
// Проверяются ссылки, дни недели и даты. Время не проверяется.
func (d *Document) Validate() error {
	if d.Timezone != "" {
		if _, err := time.LoadLocation(d.Timezone); err != nil {
			return fmt.Errorf("%w: timezone %q: %v", ErrInvalidDocument, d.Timezone, err)
		}
	}

	orgs := make(map[int64]bool, len(d.Organizations))
	for i, org := range d.Organizations {
		if org.ID <= 0 || orgs[org.ID] {
			return fmt.Errorf("%w: organizations[%d]: id must be positive and unique, got %d", ErrInvalidDocument, i, org.ID)
		}
		orgs[org.ID] = true
		if err := checkDays(org.Hours, org.Breaks, fmt.Sprintf("organizations[%d]", i)); err != nil {
			return err
		}
	}

	resources := make(map[int64]bool, len(d.Resources))
	for i, res := range d.Resources {
		if res.ID <= 0 || resources[res.ID] {
			return fmt.Errorf("%w: resources[%d]: id must be positive and unique, got %d", ErrInvalidDocument, i, res.ID)
		}
		resources[res.ID] = true
		if err := checkDays(res.Hours, nil, fmt.Sprintf("resources[%d]", i)); err != nil {
			return err
		}
	}

	offerings := make(map[int64]bool, len(d.Offerings))
	for i, o := range d.Offerings {
		where := fmt.Sprintf("offerings[%d]", i)
		if o.ID <= 0 || offerings[o.ID] {
			return fmt.Errorf("%w: %s: id must be positive and unique, got %d", ErrInvalidDocument, where, o.ID)
		}
		offerings[o.ID] = true
		if !orgs[o.OrganizationID] {
			return fmt.Errorf("%w: %s: unknown organization %d", ErrInvalidDocument, where, o.OrganizationID)
		}
		if o.ResourceID != nil && !resources[*o.ResourceID] {
			return fmt.Errorf("%w: %s: unknown resource %d", ErrInvalidDocument, where, *o.ResourceID)
		}
		if o.DurationMinutes < domain.MinDurationMinutes || o.DurationMinutes > domain.MaxDurationMinutes {
			return fmt.Errorf("%w: %s: duration_minutes must be in %d..%d, got %d",
				ErrInvalidDocument, where, domain.MinDurationMinutes, domain.MaxDurationMinutes, o.DurationMinutes)
		}
		if err := checkBuffer(o.Constraints.BufferBeforeMins, where+".constraints.buffer_before_mins"); err != nil {
			return err
		}
		if err := checkBuffer(o.Constraints.BufferAfterMins, where+".constraints.buffer_after_mins"); err != nil {
			return err
		}
		if err := checkDays(o.Hours, o.Breaks, where); err != nil {
			return err
		}
		for j, s := range o.Slots {
			if _, err := domain.ParseWeekday(s.Day); err != nil {
				return fmt.Errorf("%w: %s.slots[%d]: %v", ErrInvalidDocument, where, j, err)
			}
		}
	}

	for i, s := range d.SpecialDates {
		if _, err := time.Parse(domain.DateFormat, s.Date); err != nil {
			return fmt.Errorf("%w: special_dates[%d]: date %q", ErrInvalidDocument, i, s.Date)
		}
	}
	for i, b := range d.Blackouts {
		from, err := time.Parse(domain.DateFormat, b.From)
		if err != nil {
			return fmt.Errorf("%w: blackouts[%d]: from %q", ErrInvalidDocument, i, b.From)
		}
		to, err := time.Parse(domain.DateFormat, b.To)
		if err != nil {
			return fmt.Errorf("%w: blackouts[%d]: to %q", ErrInvalidDocument, i, b.To)
		}
		if to.Before(from) {
			return fmt.Errorf("%w: blackouts[%d]: to before from", ErrInvalidDocument, i)
		}
	}
	for i, b := range d.Bookings {
		if !offerings[b.OfferingID] {
			return fmt.Errorf("%w: bookings[%d]: unknown offering %d", ErrInvalidDocument, i, b.OfferingID)
		}
		if _, err := time.Parse(domain.DateFormat, b.Date); err != nil {
			return fmt.Errorf("%w: bookings[%d]: date %q", ErrInvalidDocument, i, b.Date)
		}
		if b.DurationMinutes <= 0 || b.DurationMinutes > domain.MinutesPerDay {
			return fmt.Errorf("%w: bookings[%d]: duration_minutes must be in 1..%d, got %d",
				ErrInvalidDocument, i, domain.MinutesPerDay, b.DurationMinutes)
		}
	}

	return nil
}

// Location часовой пояс документа, UTC по умолчанию
func (d *Document) Location() *time.Location {
	if d.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func checkDays(hours map[string]DayEntry, breaks map[string][]BreakEntry, where string) error {
	for key := range hours {
		if _, err := domain.ParseWeekday(key); err != nil {
			return fmt.Errorf("%w: %s.hours: %v", ErrInvalidDocument, where, err)
		}
	}
	for key := range breaks {
		if _, err := domain.ParseWeekday(key); err != nil {
			return fmt.Errorf("%w: %s.breaks: %v", ErrInvalidDocument, where, err)
		}
	}
	return nil
}

func checkBuffer(mins *int, where string) error {
	if mins == nil {
		return nil
	}
	if *mins < 0 || *mins > domain.MaxBufferMinutes {
		return fmt.Errorf("%w: %s must be in 0..%d, got %d", ErrInvalidDocument, where, domain.MaxBufferMinutes, *mins)
	}
	return nil
}
