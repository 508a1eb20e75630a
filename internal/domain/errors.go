package domain

import "errors"

var (
	// ErrInvalidWeekday возвращается при разборе неизвестного дня недели
	ErrInvalidWeekday = errors.New("domain: invalid weekday")
)
