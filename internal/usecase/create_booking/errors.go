package create_booking

import "errors"

var (
	// ErrOfferingNotFound возвращается, когда услуга не найдена
	ErrOfferingNotFound = errors.New("create_booking: offering not found")

	// ErrDateNotAdmissible возвращается, когда на дату нельзя бронировать (прошлое, блокировка, выходной)
	ErrDateNotAdmissible = errors.New("create_booking: date is not admissible")

	// ErrInvalidTimeSlot возвращается, когда время не является слотом услуги на эту дату
	ErrInvalidTimeSlot = errors.New("create_booking: invalid time slot")

	// ErrTooLateToBook возвращается, когда до начала слота меньше минимального уведомления
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrSlotNotAvailable возвращается, когда слот уже занят
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrBookingLimitReached возвращается при достижении лимита бронирований
	ErrBookingLimitReached = errors.New("create_booking: booking limit reached")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
