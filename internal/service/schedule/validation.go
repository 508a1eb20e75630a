package schedule

import (
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule/models"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return types.TimeString(fl.Field().String()).Validate() == nil
	})
	return v
}

// toDomain проверяет запрос и собирает расписание и перерывы
// Перерывы дня сортируются по началу и не должны пересекаться.
func (s *Service) toDomain(req *models.UpdateScheduleRequest) (domain.WeeklySchedule, domain.BreakMap, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	schedule := make(domain.WeeklySchedule, len(req.Days))
	breaks := make(domain.BreakMap)

	for _, day := range req.Days {
		if _, dup := schedule[day.Day]; dup {
			return nil, nil, fmt.Errorf("%w: day %s listed twice", ErrInvalidInput, day.Day)
		}

		hours := domain.DayHours{Enabled: day.Enabled, Start: day.Start, End: day.End}
		if !hours.IsWellFormed() {
			return nil, nil, fmt.Errorf("%w: %s: start must be before end", ErrInvalidInput, day.Day)
		}
		schedule[day.Day] = hours

		if len(day.Breaks) == 0 {
			continue
		}

		windows := make([]domain.BreakWindow, 0, len(day.Breaks))
		for _, b := range day.Breaks {
			w := domain.BreakWindow{ID: s.newID(), StartTime: b.Start, EndTime: b.End}
			if b.ID != nil {
				w.ID = *b.ID
			}
			if !w.IsWellFormed() {
				return nil, nil, fmt.Errorf("%w: %s: break %s-%s must have start before end", ErrInvalidInput, day.Day, b.Start, b.End)
			}
			windows = append(windows, w)
		}

		sort.Slice(windows, func(i, j int) bool {
			return windows[i].StartTime.IsBefore(windows[j].StartTime)
		})
		for i := 1; i < len(windows); i++ {
			if windows[i].StartTime.IsBefore(windows[i-1].EndTime) {
				return nil, nil, fmt.Errorf("%w: %s: breaks %s-%s and %s-%s overlap", ErrInvalidInput, day.Day,
					windows[i-1].StartTime, windows[i-1].EndTime, windows[i].StartTime, windows[i].EndTime)
			}
		}
		breaks[day.Day] = windows
	}

	return schedule, breaks, nil
}

func defaultID() uuid.UUID {
	return uuid.New()
}
