package schedule

import "errors"

var (
	// ErrOfferingNotFound возвращается, когда услуга не найдена
	ErrOfferingNotFound = errors.New("schedule: offering not found")

	// ErrAccessDenied возвращается, когда пользователь не менеджер организации
	ErrAccessDenied = errors.New("schedule: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("schedule: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("schedule: internal error")
)
