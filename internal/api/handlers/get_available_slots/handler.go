package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_available_slots"
)

const (
	msgInvalidOfferingID = "некорректный ID услуги"
	msgMissingDate       = "дата обязательна"
	msgInvalidParams     = "некорректная дата (ожидается YYYY-MM-DD) или ID клиента"
	msgOfferingNotFound  = "услуга не найдена"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	loc     *time.Location
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, loc *time.Location, logger Logger) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		useCase: useCase,
		loc:     loc,
		logger:  logger,
	}
}

// Handle GET /api/v1/offerings/{offeringId}/available-slots
// Query params: date (required, YYYY-MM-DD), customerId (опционально, для лимита на клиента)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	offeringID, err := strconv.ParseInt(mux.Vars(r)["offeringId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /offerings/{id}/available-slots - Invalid offering ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOfferingID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /offerings/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(offeringID, dateStr, r.URL.Query().Get("customerId"), h.loc)
	if err != nil {
		h.logger.Warn("GET /offerings/{id}/available-slots - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrOfferingNotFound):
			h.logger.Warn("GET /offerings/{id}/available-slots - Offering not found: offering_id=%d", offeringID)
			handlers.RespondNotFound(w, msgOfferingNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /offerings/{id}/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /offerings/{id}/available-slots - Failed to get slots: offering_id=%d, error=%v",
				offeringID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /offerings/{id}/available-slots - Slots retrieved successfully: offering_id=%d, date=%s, slots_count=%d",
		offeringID, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
