package availability

import "errors"

var (
	// ErrMalformedBreaks возвращается, когда выбранный список перерывов некорректен
	// (неразбираемое время, start >= end или нарушен порядок по началу)
	ErrMalformedBreaks = errors.New("availability: malformed break list")
)
