package booking

import (
	"time"
)

// SlotSpacing is the minimum gap between two appointments on the same
// property. A requested time conflicts with any non-cancelled booking
// scheduled within this distance of it.
const SlotSpacing = 30 * time.Minute

// ConflictWindow is the closed interval a requested time is checked
// against. Existing bookings scheduled inside it block the slot.
func ConflictWindow(requested time.Time) (from, to time.Time) {
	return requested.Add(-SlotSpacing), requested.Add(SlotSpacing)
}

// Conflicts reports whether an existing scheduled time blocks the
// requested one. Both window ends are inclusive: a booking exactly 30
// minutes away still conflicts.
func Conflicts(requested, existing time.Time) bool {
	from, to := ConflictWindow(requested)
	return !existing.Before(from) && !existing.After(to)
}

// SlotAvailable checks a requested time against existing scheduled
// times. Callers must pre-filter cancelled bookings out.
func SlotAvailable(requested time.Time, existing []time.Time) bool {
	for _, e := range existing {
		if Conflicts(requested, e) {
			return false
		}
	}
	return true
}

// VisitSlots enumerates bookable half-hour slots between from and to,
// skipping those blocked by existing bookings
func VisitSlots(from, to time.Time, existing []time.Time) []time.Time {
	var slots []time.Time
	for t := from.Truncate(SlotSpacing); !t.After(to); t = t.Add(SlotSpacing) {
		if t.Before(from) {
			continue
		}
		if SlotAvailable(t, existing) {
			slots = append(slots, t)
		}
	}
	return slots
}
