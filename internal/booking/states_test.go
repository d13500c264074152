package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ritikk978/next-nest/internal/model"
)

func TestPendingTransitions(t *testing.T) {
	assert.True(t, CanTransition(model.BookingPending, model.BookingConfirmed))
	assert.True(t, CanTransition(model.BookingPending, model.BookingCancelled))
	assert.False(t, CanTransition(model.BookingPending, model.BookingCompleted))
	assert.False(t, CanTransition(model.BookingPending, model.BookingNoShow))
}

func TestConfirmedTransitions(t *testing.T) {
	assert.True(t, CanTransition(model.BookingConfirmed, model.BookingCompleted))
	assert.True(t, CanTransition(model.BookingConfirmed, model.BookingCancelled))
	assert.True(t, CanTransition(model.BookingConfirmed, model.BookingNoShow))
	assert.False(t, CanTransition(model.BookingConfirmed, model.BookingPending))
}

func TestTerminalStatesAdmitNothing(t *testing.T) {
	for _, s := range []model.BookingStatus{model.BookingCompleted, model.BookingCancelled, model.BookingNoShow} {
		assert.True(t, IsTerminal(s))
		assert.False(t, CanTransition(s, model.BookingConfirmed))
	}
}

func TestTenantCanOnlyCancel(t *testing.T) {
	assert.NoError(t, Transition(model.BookingPending, model.BookingCancelled, SideTenant))
	assert.Error(t, Transition(model.BookingPending, model.BookingConfirmed, SideTenant))
	assert.Error(t, Transition(model.BookingConfirmed, model.BookingCompleted, SideTenant))
}

func TestOwnerDrivesTheLifecycle(t *testing.T) {
	assert.NoError(t, Transition(model.BookingPending, model.BookingConfirmed, SideOwner))
	assert.NoError(t, Transition(model.BookingConfirmed, model.BookingCompleted, SideOwner))
	assert.NoError(t, Transition(model.BookingConfirmed, model.BookingNoShow, SideOwner))
	assert.NoError(t, Transition(model.BookingConfirmed, model.BookingCancelled, SideOwner))
}

func TestAdminBypassesSideChecks(t *testing.T) {
	assert.NoError(t, Transition(model.BookingPending, model.BookingConfirmed, SideAdmin))
	assert.Error(t, Transition(model.BookingCancelled, model.BookingConfirmed, SideAdmin))
}

func TestFeedbackOnlyWhenCompleted(t *testing.T) {
	b := &model.Booking{TenantID: 4, Status: model.BookingCompleted}
	assert.True(t, CanLeaveFeedback(b, 4))
	assert.False(t, CanLeaveFeedback(b, 5))

	b.Status = model.BookingConfirmed
	assert.False(t, CanLeaveFeedback(b, 4))
}
