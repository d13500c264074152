package booking

import (
	"fmt"

	"github.com/ritikk978/next-nest/internal/model"
)

// Side is which party of the booking is driving a transition
type Side string

const (
	SideTenant Side = "tenant"
	SideOwner  Side = "owner"
	SideAdmin  Side = "admin"
)

// transitions maps a current status to the statuses it may move into
var transitions = map[model.BookingStatus][]model.BookingStatus{
	model.BookingPending:   {model.BookingConfirmed, model.BookingCancelled},
	model.BookingConfirmed: {model.BookingCompleted, model.BookingCancelled, model.BookingNoShow},
}

// CanTransition reports whether a booking may move between two statuses
func CanTransition(from, to model.BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates a status change and who is making it. Cancelling
// is open to both parties; confirm, complete and no-show belong to the
// property side.
func Transition(from, to model.BookingStatus, by Side) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("booking cannot move from %s to %s", from, to)
	}
	if by == SideAdmin {
		return nil
	}
	if to == model.BookingCancelled {
		return nil
	}
	if by != SideOwner {
		return fmt.Errorf("only the property owner can set status %s", to)
	}
	return nil
}

// CanLeaveFeedback reports whether the tenant may rate the visit.
// Feedback is only accepted once the visit actually happened.
func CanLeaveFeedback(b *model.Booking, callerID uint) bool {
	return b.Status == model.BookingCompleted && b.TenantID == callerID
}

// IsTerminal reports whether a status admits no further transitions
func IsTerminal(s model.BookingStatus) bool {
	_, ok := transitions[s]
	return !ok
}
