package domain

import (
	"fmt"
	"strings"
	"time"
)

// Weekday день недели, закрытое перечисление Monday..Sunday
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// AllWeekdays все дни недели по порядку, начиная с понедельника
var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayNames = map[Weekday]string{
	Monday:    "monday",
	Tuesday:   "tuesday",
	Wednesday: "wednesday",
	Thursday:  "thursday",
	Friday:    "friday",
	Saturday:  "saturday",
	Sunday:    "sunday",
}

// WeekdayOf возвращает день недели для даты
func WeekdayOf(t time.Time) Weekday {
	if t.Weekday() == time.Sunday {
		return Sunday
	}
	return Weekday(t.Weekday())
}

// ParseWeekday парсит имя дня недели ("monday", "Mon") или номер 1..7
func ParseWeekday(s string) (Weekday, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for day, name := range weekdayNames {
		if normalized == name || (len(normalized) == 3 && strings.HasPrefix(name, normalized)) {
			return day, nil
		}
	}
	var n int
	if _, err := fmt.Sscanf(normalized, "%d", &n); err == nil && Weekday(n).IsValid() {
		return Weekday(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
}

// IsValid проверяет, что значение входит в перечисление
func (d Weekday) IsValid() bool {
	return d >= Monday && d <= Sunday
}

// IsWeekend true для субботы и воскресенья
func (d Weekday) IsWeekend() bool {
	return d == Saturday || d == Sunday
}

func (d Weekday) String() string {
	if name, ok := weekdayNames[d]; ok {
		return name
	}
	return fmt.Sprintf("weekday(%d)", int(d))
}

// MarshalText сериализует день недели по имени (ключи JSON/YAML)
func (d Weekday) MarshalText() ([]byte, error) {
	if !d.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWeekday, int(d))
	}
	return []byte(d.String()), nil
}

func (d *Weekday) UnmarshalText(text []byte) error {
	parsed, err := ParseWeekday(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
