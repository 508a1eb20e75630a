package update_offering_schedule

import (
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule/models"
)

// UpdateOfferingScheduleRequest HTTP request model
// Пустой days удаляет собственное расписание услуги.
type UpdateOfferingScheduleRequest struct {
	Days []models.DayRequest `json:"days"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateOfferingScheduleRequest) ToServiceRequest(userID int64) *models.UpdateScheduleRequest {
	return &models.UpdateScheduleRequest{
		UserID: userID,
		Days:   r.Days,
	}
}
