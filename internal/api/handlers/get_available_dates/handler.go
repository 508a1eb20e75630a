package get_available_dates

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	getAvailableDates "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_available_dates"
)

const (
	msgInvalidOfferingID = "некорректный ID услуги"
	msgInvalidRange      = "некорректный диапазон дат, ожидается from и to в формате YYYY-MM-DD"
	msgOfferingNotFound  = "услуга не найдена"
)

type Handler struct {
	useCase GetAvailableDatesUseCase
	loc     *time.Location
	logger  Logger
}

func NewHandler(useCase GetAvailableDatesUseCase, loc *time.Location, logger Logger) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		useCase: useCase,
		loc:     loc,
		logger:  logger,
	}
}

// Handle GET /api/v1/offerings/{offeringId}/available-dates
// Query params: from, to (required, YYYY-MM-DD, включительно)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	offeringID, err := strconv.ParseInt(mux.Vars(r)["offeringId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /offerings/{id}/available-dates - Invalid offering ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOfferingID)
		return
	}

	query := r.URL.Query()
	useCaseReq, err := ToUseCaseRequest(offeringID, query.Get("from"), query.Get("to"), h.loc)
	if err != nil {
		h.logger.Warn("GET /offerings/{id}/available-dates - Invalid range: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRange)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableDates.ErrOfferingNotFound):
			h.logger.Warn("GET /offerings/{id}/available-dates - Offering not found: offering_id=%d", offeringID)
			handlers.RespondNotFound(w, msgOfferingNotFound)

		case errors.Is(err, getAvailableDates.ErrInvalidInput):
			h.logger.Warn("GET /offerings/{id}/available-dates - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /offerings/{id}/available-dates - Failed to get dates: offering_id=%d, error=%v",
				offeringID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /offerings/{id}/available-dates - Calendar retrieved: offering_id=%d, days=%d",
		offeringID, len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
