package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
)

func TestWeekdayOf(t *testing.T) {
	// 2026-10-19 - понедельник
	monday := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	for i, want := range AllWeekdays {
		assert.Equal(t, want, WeekdayOf(monday.AddDate(0, 0, i)))
	}
}

func TestParseWeekday(t *testing.T) {
	tests := map[string]Weekday{
		"monday": Monday,
		"Sun":    Sunday,
		" THU ":  Thursday,
		"6":      Saturday,
	}
	for input, want := range tests {
		got, err := ParseWeekday(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseWeekday("someday")
	assert.ErrorIs(t, err, ErrInvalidWeekday)

	_, err = ParseWeekday("8")
	assert.ErrorIs(t, err, ErrInvalidWeekday)
}

func TestDefaultWeeklySchedule(t *testing.T) {
	schedule := DefaultWeeklySchedule()
	require.Len(t, schedule, 7)

	for _, day := range AllWeekdays {
		h := schedule[day]
		assert.Equal(t, !day.IsWeekend(), h.Enabled, day.String())
		assert.Equal(t, DefaultDayStart, h.Start)
		assert.Equal(t, DefaultDayEnd, h.End)
	}
}

func TestDayHours_IsWellFormed(t *testing.T) {
	assert.True(t, DayHours{Enabled: true, Start: "09:00", End: "17:00"}.IsWellFormed())
	assert.False(t, DayHours{Enabled: true, Start: "17:00", End: "09:00"}.IsWellFormed())
	assert.False(t, DayHours{Enabled: true, Start: "nine", End: "17:00"}.IsWellFormed())
	assert.True(t, DayHours{Enabled: false, Start: "nine"}.IsWellFormed())
}

func TestBlackoutRange_Contains(t *testing.T) {
	r := BlackoutRange{
		StartDate: time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 12, 26, 0, 0, 0, 0, time.UTC),
	}

	assert.False(t, r.Contains(time.Date(2026, 12, 23, 23, 59, 0, 0, time.UTC)))
	assert.True(t, r.Contains(time.Date(2026, 12, 24, 8, 0, 0, 0, time.UTC)))
	assert.True(t, r.Contains(time.Date(2026, 12, 26, 18, 0, 0, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2026, 12, 27, 0, 0, 0, 0, time.UTC)))

	msk := time.FixedZone("MSK", 3*60*60)
	assert.True(t, r.Contains(time.Date(2026, 12, 24, 0, 0, 0, 0, msk)))
	assert.False(t, r.Contains(time.Date(2026, 12, 27, 1, 0, 0, 0, msk)))
}

func TestBookingConstraints(t *testing.T) {
	var empty BookingConstraints
	assert.Equal(t, time.Duration(0), empty.MinNotice())
	assert.False(t, empty.HasBookingWindow())
	before, after := empty.Buffers()
	assert.Zero(t, before)
	assert.Zero(t, after)

	c := BookingConstraints{
		MinNoticeHours:    ptr.Ptr(24),
		BookingWindowDays: ptr.Ptr(30),
		BufferBeforeMins:  ptr.Ptr(10),
		BufferAfterMins:   ptr.Ptr(-5),
	}
	assert.Equal(t, 24*time.Hour, c.MinNotice())
	assert.True(t, c.HasBookingWindow())
	before, after = c.Buffers()
	assert.Equal(t, 10, before)
	assert.Zero(t, after)
}

func TestManagedSlot_Capacity(t *testing.T) {
	s := ManagedSlot{MaxBookings: 3, CurrentBookings: 1}
	assert.True(t, s.HasCapacity())
	assert.Equal(t, 2, s.Remaining())

	s.CurrentBookings = 3
	assert.False(t, s.HasCapacity())
	assert.Zero(t, s.Remaining())
}
