package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// rawTime сканирует TIME/TEXT колонку без валидации
// Строка сохраняется как есть в формате HH:MM, чтобы некорректные данные дошли до движка.
type rawTime struct {
	dst *types.TimeString
}

func (r *rawTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*r.dst = ""
	case string:
		*r.dst = types.TimeString(trimSeconds(v))
	case []byte:
		*r.dst = types.TimeString(trimSeconds(string(v)))
	case time.Time:
		*r.dst = types.NewTimeString(v)
	default:
		return fmt.Errorf("unsupported time column type %T", src)
	}
	return nil
}

// trimSeconds "09:00:00" -> "09:00"
func trimSeconds(s string) string {
	s = strings.TrimSpace(s)
	if len(s) == len("15:04:05") && strings.HasSuffix(s, ":00") {
		return s[:len(s)-3]
	}
	return s
}
