package get_offering_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule"
)

const (
	msgInvalidOfferingID = "некорректный ID услуги"
	msgOfferingNotFound  = "услуга не найдена"
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

// Handle GET /api/v1/offerings/{offeringId}/schedule
// Публичный endpoint - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	offeringID, err := strconv.ParseInt(mux.Vars(r)["offeringId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /offerings/{id}/schedule - Invalid offering ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOfferingID)
		return
	}

	result, err := h.service.GetWeekView(r.Context(), offeringID)
	if err != nil {
		if errors.Is(err, schedule.ErrOfferingNotFound) {
			h.logger.Warn("GET /offerings/{id}/schedule - Offering not found: offering_id=%d", offeringID)
			handlers.RespondNotFound(w, msgOfferingNotFound)
			return
		}
		h.logger.Error("GET /offerings/{id}/schedule - Failed to get schedule: offering_id=%d, error=%v", offeringID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /offerings/{id}/schedule - Schedule retrieved: offering_id=%d", offeringID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
