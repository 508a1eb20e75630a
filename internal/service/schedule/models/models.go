package models

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Request модели

// UpdateScheduleRequest замена собственного расписания услуги
// Пустой список дней удаляет override, и услуга снова работает по часам организации.
type UpdateScheduleRequest struct {
	UserID int64        `json:"-" validate:"gt=0"`
	Days   []DayRequest `json:"days" validate:"max=7,dive"`
}

// DayRequest часы и перерывы одного дня недели
type DayRequest struct {
	Day     domain.Weekday   `json:"day" validate:"min=1,max=7"`
	Enabled bool             `json:"enabled"`
	Start   types.TimeString `json:"start,omitempty" validate:"required_if=Enabled true,omitempty,hhmm"`
	End     types.TimeString `json:"end,omitempty" validate:"required_if=Enabled true,omitempty,hhmm"`
	Breaks  []BreakRequest   `json:"breaks,omitempty" validate:"max=16,dive"`
}

// BreakRequest перерыв. ID передается для уже существующих перерывов.
type BreakRequest struct {
	ID    *uuid.UUID       `json:"id,omitempty"`
	Start types.TimeString `json:"start" validate:"required,hhmm"`
	End   types.TimeString `json:"end" validate:"required,hhmm"`
}

// Response модели

// WeekView итоговое расписание услуги по дням недели
type WeekView struct {
	OfferingID int64     `json:"offeringId"`
	Mode       string    `json:"mode"`
	Days       []DayView `json:"days"`
}

// DayView итог одного дня: какой слой победил и какие перерывы действуют
type DayView struct {
	Day             domain.Weekday   `json:"day"`
	Enabled         bool             `json:"enabled"`
	Start           types.TimeString `json:"start,omitempty"`
	End             types.TimeString `json:"end,omitempty"`
	Layer           string           `json:"layer"`
	Breaks          []BreakView      `json:"breaks"`
	BreaksMalformed bool             `json:"breaksMalformed,omitempty"`
}

// BreakView перерыв в ответе
type BreakView struct {
	ID    uuid.UUID        `json:"id"`
	Start types.TimeString `json:"start"`
	End   types.TimeString `json:"end"`
}

// Методы конвертации

// FromDomainBreaks конвертирует перерывы в DTO
func FromDomainBreaks(breaks []domain.BreakWindow) []BreakView {
	views := make([]BreakView, 0, len(breaks))
	for _, b := range breaks {
		views = append(views, BreakView{ID: b.ID, Start: b.StartTime, End: b.EndTime})
	}
	return views
}
