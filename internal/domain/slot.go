package domain

import "github.com/m04kA/SMC-AvailabilityService/pkg/types"

// BookableSlot represents a start time offered to the customer
type BookableSlot struct {
	StartTime         types.TimeString
	DurationMinutes   int
	ManagedSlotID     *int64 // only in managed-slot mode
	RemainingCapacity *int   // only in managed-slot mode
}

// IsManaged returns true if the slot comes from pre-provisioned inventory
func (s *BookableSlot) IsManaged() bool {
	return s.ManagedSlotID != nil
}

// EndTime returns the end of the meeting, or an empty value when it cannot be computed
func (s *BookableSlot) EndTime() types.TimeString {
	end, err := s.StartTime.AddMinutes(s.DurationMinutes)
	if err != nil {
		return ""
	}
	return end
}
