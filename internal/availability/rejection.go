package availability

// Rejection причина, по которой дата или слот не предлагается клиенту
type Rejection string

const (
	Admitted Rejection = ""

	// Причины уровня даты
	RejectNoOffering   Rejection = "no_offering"
	RejectPastDate     Rejection = "past_date"
	RejectBeyondWindow Rejection = "beyond_booking_window"
	RejectBlackout     Rejection = "blackout"
	RejectDayDisabled  Rejection = "day_disabled"
	RejectMalformedDay Rejection = "malformed_breaks"
	RejectBadDuration  Rejection = "invalid_duration"

	// Причины уровня слота
	RejectOutsideWindow  Rejection = "outside_window"
	RejectBreakOverlap   Rejection = "break_overlap"
	RejectMinNotice      Rejection = "min_notice"
	RejectBookedOverlap  Rejection = "booked_overlap"
	RejectNotProvisioned Rejection = "not_provisioned"
	RejectCapacityFull   Rejection = "capacity_full"
	RejectMaxPerDay      Rejection = "max_per_day"
	RejectMaxPerWeek     Rejection = "max_per_week"
	RejectMaxPerMonth    Rejection = "max_per_month"
	RejectMaxPerCustomer Rejection = "max_per_customer"
)

// String реализует fmt.Stringer
func (r Rejection) String() string {
	if r == Admitted {
		return "admitted"
	}
	return string(r)
}
