package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleFromString(t *testing.T) {
	assert.Equal(t, RoleAdmin, RoleFromString("admin"))
	assert.Equal(t, RoleSupervisor, RoleFromString(" Supervisor "))
	assert.Equal(t, RoleTechnician, RoleFromString("TECHNICIAN"))
	assert.Equal(t, RoleUser, RoleFromString("user"))
	assert.Equal(t, RoleUnknown, RoleFromString("janitor"))
	assert.Equal(t, RoleUnknown, RoleFromString(""))
}

func TestRoleRanking(t *testing.T) {
	assert.True(t, RoleAdmin.AtLeast(RoleSupervisor))
	assert.True(t, RoleSupervisor.AtLeast(RoleTechnician))
	assert.True(t, RoleTechnician.AtLeast(RoleUser))
	assert.False(t, RoleUser.AtLeast(RoleTechnician))
	assert.False(t, RoleUnknown.AtLeast(RoleUser))
}

func TestRoleCapabilities(t *testing.T) {
	assert.True(t, RoleSupervisor.CanApprove())
	assert.True(t, RoleAdmin.CanApprove())
	assert.False(t, RoleTechnician.CanApprove())

	assert.True(t, RoleTechnician.CanSubmitPartOrders())
	assert.False(t, RoleUser.CanSubmitPartOrders())

	assert.True(t, RoleSupervisor.CanFinalizePartOrders())
	assert.False(t, RoleTechnician.CanFinalizePartOrders())

	assert.True(t, RoleAdmin.CanAdminister())
	assert.False(t, RoleSupervisor.CanAdminister())
}
