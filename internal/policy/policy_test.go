package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ritikk978/next-nest/internal/model"
)

func TestAdminPassesEverything(t *testing.T) {
	assert.True(t, Allow(model.RoleAdmin, "property", ActionDelete))
	assert.True(t, Allow(model.RoleAdmin, "booking", ActionManage))
	assert.True(t, Allow(model.RoleAdmin, "unknown", ActionUpdate))
}

func TestSelfOnlyActions(t *testing.T) {
	assert.True(t, Allow(model.RoleTenant, "user", ActionUpdate, RelSelf))
	assert.False(t, Allow(model.RoleTenant, "user", ActionUpdate))
	assert.False(t, Allow(model.RoleLandlord, "user", ActionDelete, RelOwner))
}

func TestOwnerActions(t *testing.T) {
	assert.True(t, Allow(model.RoleLandlord, "property", ActionUpdate, RelOwner))
	assert.False(t, Allow(model.RoleTenant, "property", ActionUpdate, RelSelf))
	assert.True(t, Allow(model.RoleLandlord, "booking", ActionManage, RelOwner))
	assert.False(t, Allow(model.RoleTenant, "booking", ActionManage, RelSelf))
}

func TestBookingCancelAllowsBothSides(t *testing.T) {
	assert.True(t, Allow(model.RoleTenant, "booking", ActionUpdate, RelSelf))
	assert.True(t, Allow(model.RoleLandlord, "booking", ActionUpdate, RelOwner))
	assert.False(t, Allow(model.RoleTenant, "booking", ActionUpdate))
}

func TestAnyoneRules(t *testing.T) {
	assert.True(t, Allow(model.RoleTenant, "property", ActionRead))
	assert.True(t, Allow(model.RoleBroker, "roommate_request", ActionRead))
}

func TestUnknownResourceDenies(t *testing.T) {
	assert.False(t, Allow(model.RoleTenant, "nonexistent", ActionRead, RelSelf, RelOwner))
}

func TestRelate(t *testing.T) {
	assert.ElementsMatch(t, []Relationship{RelSelf}, Relate(7, 7, 0))
	assert.ElementsMatch(t, []Relationship{RelOwner}, Relate(3, 9, 3))
	assert.ElementsMatch(t, []Relationship{RelSelf, RelOwner}, Relate(5, 5, 5))
	assert.Empty(t, Relate(1, 2, 3))
}
