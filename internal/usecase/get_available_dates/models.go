package get_available_dates

import "time"

// Request модель запроса календаря доступных дат
type Request struct {
	OfferingID int64
	From       time.Time // первая дата диапазона включительно
	To         time.Time // последняя дата диапазона включительно
}

// Response модель ответа с календарем
type Response struct {
	OfferingID int64
	From       time.Time
	To         time.Time
	Days       []Day
}

// Day статус одной даты календаря
type Day struct {
	Date       time.Time
	Admissible bool
	Rejection  string // пусто, если дата доступна
}
