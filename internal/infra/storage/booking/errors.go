package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено или уже не активно
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrManagedSlotNotFound возвращается, когда в управляемом слоте нечего освобождать
	ErrManagedSlotNotFound = errors.New("booking.repository: managed slot not found")

	// ErrSlotNotAvailable возвращается, когда слот уже занят или в управляемом слоте нет мест
	ErrSlotNotAvailable = errors.New("booking.repository: slot not available")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
