// Package schedule holds the check-in window policy. Everything here is a
// pure function of its arguments so callers inject the clock.
package schedule

import "time"

// DefaultWindowBefore is how long before the booking start check-in opens.
const DefaultWindowBefore = 30 * time.Minute

// IsWithinCheckInWindow reports whether now falls inside the permitted
// check-in window: open from (eventStart - windowBefore), inclusive, with no
// upper bound. Late-arrival handling is the caller's business decision.
func IsWithinCheckInWindow(now, eventStart time.Time, windowBefore time.Duration) bool {
	if windowBefore <= 0 {
		windowBefore = DefaultWindowBefore
	}
	opensAt := eventStart.Add(-windowBefore)
	return !now.Before(opensAt)
}

// MinutesUntilWindowOpens returns how many whole minutes remain until the
// window opens, rounding up, or 0 when it is already open. For user-facing
// messaging.
func MinutesUntilWindowOpens(now, eventStart time.Time, windowBefore time.Duration) int {
	if windowBefore <= 0 {
		windowBefore = DefaultWindowBefore
	}
	opensAt := eventStart.Add(-windowBefore)
	if !now.Before(opensAt) {
		return 0
	}
	remaining := opensAt.Sub(now)
	minutes := int(remaining / time.Minute)
	if remaining%time.Minute != 0 {
		minutes++
	}
	return minutes
}
