package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	OfferingID int64     // ID услуги
	CustomerID *int64    // ID клиента (опционально, для лимита на клиента)
	Date       time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date           time.Time // Дата, на которую запрашивались слоты
	OfferingID     int64     // ID услуги
	Mode           string    // computed или managed
	DateAdmissible bool      // false - дату нельзя выбрать в календаре
	DateRejection  string    // причина, если дата недопустима
	WindowLayer    string    // слой расписания, определивший окно дня
	Slots          []Slot    // Список доступных слотов, может быть пустым
}

// Slot модель временного слота
type Slot struct {
	StartTime         types.TimeString // Время начала слота (например, "10:00")
	DurationMinutes   int              // Длительность встречи в минутах
	ManagedSlotID     *int64           // Только для управляемых слотов
	RemainingCapacity *int             // Количество свободных мест в управляемом слоте
}
