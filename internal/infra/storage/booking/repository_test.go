package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsoWeek(t *testing.T) {
	tests := []struct {
		name       string
		date       time.Time
		wantMonday time.Time
	}{
		{name: "monday", date: time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC), wantMonday: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)},
		{name: "sunday", date: time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC), wantMonday: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)},
		{name: "across month", date: time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC), wantMonday: time.Date(2026, 10, 26, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			monday, sunday := isoWeek(tt.date)
			assert.Equal(t, tt.wantMonday, monday)
			assert.Equal(t, tt.wantMonday.AddDate(0, 0, 6), sunday)
		})
	}
}

func TestActiveStatusStrings(t *testing.T) {
	assert.Equal(t, []string{"pending", "confirmed", "completed"}, activeStatusStrings())
}
