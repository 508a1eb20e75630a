package get_available_slots

import (
	"strconv"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date           string          `json:"date"`
	OfferingID     int64           `json:"offeringId"`
	Mode           string          `json:"mode"`
	DateAdmissible bool            `json:"dateAdmissible"`
	DateRejection  string          `json:"dateRejection,omitempty"`
	Layer          string          `json:"layer,omitempty"`
	Slots          []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
	DurationMinutes   int    `json:"durationMinutes"`
	ManagedSlotID     *int64 `json:"managedSlotId,omitempty"`
	RemainingCapacity *int   `json:"remainingCapacity,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		bookable := domain.BookableSlot{StartTime: slot.StartTime, DurationMinutes: slot.DurationMinutes}
		slots[i] = AvailableSlot{
			StartTime:         slot.StartTime.String(),
			EndTime:           bookable.EndTime().String(),
			DurationMinutes:   slot.DurationMinutes,
			ManagedSlotID:     slot.ManagedSlotID,
			RemainingCapacity: slot.RemainingCapacity,
		}
	}

	return &AvailableSlotsResponse{
		Date:           resp.Date.Format(domain.DateFormat),
		OfferingID:     resp.OfferingID,
		Mode:           resp.Mode,
		DateAdmissible: resp.DateAdmissible,
		DateRejection:  resp.DateRejection,
		Layer:          resp.WindowLayer,
		Slots:          slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
// customerIDStr может быть пустым.
func ToUseCaseRequest(offeringID int64, dateStr, customerIDStr string, loc *time.Location) (*getAvailableSlots.Request, error) {
	// Дата интерпретируется в часовом поясе движка
	date, err := time.ParseInLocation(domain.DateFormat, dateStr, loc)
	if err != nil {
		return nil, err
	}

	req := &getAvailableSlots.Request{
		OfferingID: offeringID,
		Date:       date,
	}

	if customerIDStr != "" {
		customerID, err := strconv.ParseInt(customerIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.CustomerID = &customerID
	}

	return req, nil
}
