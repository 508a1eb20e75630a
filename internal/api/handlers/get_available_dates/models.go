package get_available_dates

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	getAvailableDates "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_available_dates"
)

// AvailableDatesResponse HTTP response model
type AvailableDatesResponse struct {
	OfferingID int64       `json:"offeringId"`
	From       string      `json:"from"`
	To         string      `json:"to"`
	Days       []DayStatus `json:"days"`
}

// DayStatus доступность одной даты
type DayStatus struct {
	Date       string `json:"date"`
	Admissible bool   `json:"admissible"`
	Rejection  string `json:"rejection,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableDates.Response) *AvailableDatesResponse {
	days := make([]DayStatus, len(resp.Days))
	for i, d := range resp.Days {
		days[i] = DayStatus{
			Date:       d.Date.Format(domain.DateFormat),
			Admissible: d.Admissible,
			Rejection:  d.Rejection,
		}
	}

	return &AvailableDatesResponse{
		OfferingID: resp.OfferingID,
		From:       resp.From.Format(domain.DateFormat),
		To:         resp.To.Format(domain.DateFormat),
		Days:       days,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(offeringID int64, fromStr, toStr string, loc *time.Location) (*getAvailableDates.Request, error) {
	from, err := time.ParseInLocation(domain.DateFormat, fromStr, loc)
	if err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	to, err := time.ParseInLocation(domain.DateFormat, toStr, loc)
	if err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}

	return &getAvailableDates.Request{
		OfferingID: offeringID,
		From:       from,
		To:         to,
	}, nil
}
