package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, min int) time.Time {
	return time.Date(2025, 1, 10, hour, min, 0, 0, time.UTC)
}

func TestConflictsInsideBuffer(t *testing.T) {
	assert.True(t, Conflicts(at(10, 20), at(10, 0)))
	assert.True(t, Conflicts(at(10, 0), at(10, 20)))
	assert.True(t, Conflicts(at(10, 0), at(10, 29)))
}

func TestNoConflictOutsideBuffer(t *testing.T) {
	assert.False(t, Conflicts(at(11, 5), at(10, 0)))
	assert.False(t, Conflicts(at(10, 0), at(11, 5)))
}

func TestExactBoundaryConflicts(t *testing.T) {
	assert.True(t, Conflicts(at(10, 30), at(10, 0)))
	assert.True(t, Conflicts(at(10, 0), at(10, 30)))
	assert.False(t, Conflicts(at(10, 31), at(10, 0)))
	assert.False(t, Conflicts(at(10, 0), at(10, 31)))
}

func TestSlotAvailable(t *testing.T) {
	existing := []time.Time{at(10, 0), at(14, 0)}

	assert.False(t, SlotAvailable(at(10, 20), existing))
	assert.False(t, SlotAvailable(at(13, 45), existing))
	assert.True(t, SlotAvailable(at(11, 5), existing))
	assert.True(t, SlotAvailable(at(12, 0), nil))
}

func TestVisitSlots(t *testing.T) {
	existing := []time.Time{at(10, 0)}
	slots := VisitSlots(at(9, 0), at(11, 0), existing)

	assert.Contains(t, slots, at(9, 0))
	assert.NotContains(t, slots, at(9, 30))
	assert.NotContains(t, slots, at(10, 0))
	assert.NotContains(t, slots, at(10, 30))
	assert.Contains(t, slots, at(11, 0))
}
