package snapshot

import "errors"

var (
	// ErrOfferingNotFound возвращается, когда услуга не найдена
	ErrOfferingNotFound = errors.New("snapshot: offering not found")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("snapshot: internal error")
)
