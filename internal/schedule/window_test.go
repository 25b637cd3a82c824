package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var eventStart = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func TestIsWithinCheckInWindow_Boundaries(t *testing.T) {
	window := 30 * time.Minute

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"exactly at window open", eventStart.Add(-30 * time.Minute), true},
		{"one minute early", eventStart.Add(-31 * time.Minute), false},
		{"one second early", eventStart.Add(-30*time.Minute - time.Second), false},
		{"just inside", eventStart.Add(-29 * time.Minute), true},
		{"at event start", eventStart, true},
		{"after event start", eventStart.Add(2 * time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWithinCheckInWindow(tt.now, eventStart, window))
		})
	}
}

func TestIsWithinCheckInWindow_DefaultsWindow(t *testing.T) {
	assert.True(t, IsWithinCheckInWindow(eventStart.Add(-30*time.Minute), eventStart, 0))
	assert.False(t, IsWithinCheckInWindow(eventStart.Add(-31*time.Minute), eventStart, 0))
}

func TestMinutesUntilWindowOpens(t *testing.T) {
	window := 30 * time.Minute

	assert.Equal(t, 0, MinutesUntilWindowOpens(eventStart.Add(-30*time.Minute), eventStart, window))
	assert.Equal(t, 1, MinutesUntilWindowOpens(eventStart.Add(-31*time.Minute), eventStart, window))
	assert.Equal(t, 60, MinutesUntilWindowOpens(eventStart.Add(-90*time.Minute), eventStart, window))

	// Partial minutes round up so "opens in 0 minutes" never shows while closed.
	assert.Equal(t, 1, MinutesUntilWindowOpens(eventStart.Add(-30*time.Minute-30*time.Second), eventStart, window))
}
