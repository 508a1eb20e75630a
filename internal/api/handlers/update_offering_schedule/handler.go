package update_offering_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule"
)

const (
	msgMissingUserID      = "требуется заголовок X-User-ID"
	msgInvalidOfferingID  = "некорректный ID услуги"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgOfferingNotFound   = "услуга не найдена"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/offerings/{offeringId}/schedule
// Только для менеджеров организации услуги
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /offerings/{id}/schedule - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	offeringID, err := strconv.ParseInt(mux.Vars(r)["offeringId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /offerings/{id}/schedule - Invalid offering ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOfferingID)
		return
	}

	var req UpdateOfferingScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /offerings/{id}/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Сервис сам проверит права менеджера
	result, err := h.service.UpdateOfferingSchedule(r.Context(), offeringID, req.ToServiceRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /offerings/{id}/schedule - Invalid data: offering_id=%d: %v", offeringID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, schedule.ErrOfferingNotFound):
			h.logger.Warn("PUT /offerings/{id}/schedule - Offering not found: offering_id=%d", offeringID)
			handlers.RespondNotFound(w, msgOfferingNotFound)

		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("PUT /offerings/{id}/schedule - Access denied: offering_id=%d, user_id=%d", offeringID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PUT /offerings/{id}/schedule - Failed to update schedule: offering_id=%d, error=%v", offeringID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /offerings/{id}/schedule - Schedule updated: offering_id=%d, user_id=%d", offeringID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
