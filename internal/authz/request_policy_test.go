package authz

import (
	"testing"

	"maintenance-system/pkg/constants"

	"github.com/stretchr/testify/assert"
)

func TestBasicFieldGating(t *testing.T) {
	t.Run("non-approver only while both axes pending", func(t *testing.T) {
		c := RequestEditContext{
			ActorRole:      RoleTechnician,
			ApprovalStatus: constants.ApprovalPending,
			WorkStatus:     constants.WorkPending,
		}
		assert.True(t, c.CanEditBasicFields())

		c.ApprovalStatus = constants.ApprovalApproved
		assert.False(t, c.CanEditBasicFields())

		c.ApprovalStatus = constants.ApprovalPending
		c.WorkStatus = constants.WorkInProgress
		assert.False(t, c.CanEditBasicFields())
	})

	t.Run("approver until work completes", func(t *testing.T) {
		c := RequestEditContext{
			ActorRole:      RoleSupervisor,
			ApprovalStatus: constants.ApprovalApproved,
			WorkStatus:     constants.WorkInProgress,
		}
		assert.True(t, c.CanEditBasicFields())

		c.WorkStatus = constants.WorkCompleted
		assert.False(t, c.CanEditBasicFields())
	})
}

func TestTechnicalFieldGating(t *testing.T) {
	// Spec example: approved + work pending, assigned technician may edit
	// the assessment but not the approval status.
	c := RequestEditContext{
		ActorRole:       RoleTechnician,
		ActorIsAssignee: true,
		ApprovalStatus:  constants.ApprovalApproved,
		WorkStatus:      constants.WorkPending,
	}
	assert.True(t, c.CanEditTechnicalFields())
	assert.False(t, c.CanSetApprovalStatus())

	t.Run("blocked once work starts", func(t *testing.T) {
		c := c
		c.WorkStatus = constants.WorkInProgress
		assert.False(t, c.CanEditTechnicalFields())
	})

	t.Run("blocked before approval for non-approvers", func(t *testing.T) {
		c := c
		c.ApprovalStatus = constants.ApprovalPending
		assert.False(t, c.CanEditTechnicalFields())
	})

	t.Run("approver exempt from approval precondition", func(t *testing.T) {
		c := RequestEditContext{
			ActorRole:      RoleSupervisor,
			ApprovalStatus: constants.ApprovalPending,
			WorkStatus:     constants.WorkPending,
		}
		assert.True(t, c.CanEditTechnicalFields())
	})
}

func TestApprovalIsTerminal(t *testing.T) {
	c := RequestEditContext{
		ActorRole:      RoleSupervisor,
		ApprovalStatus: constants.ApprovalPending,
		WorkStatus:     constants.WorkPending,
	}
	assert.True(t, c.CanSetApprovalStatus())

	for _, s := range []string{constants.ApprovalApproved, constants.ApprovalRejected} {
		c := c
		c.ApprovalStatus = s
		assert.False(t, c.CanSetApprovalStatus(), "approval must be terminal once %s", s)
	}
}

func TestWorkStatusGating(t *testing.T) {
	c := RequestEditContext{
		ActorRole:       RoleTechnician,
		ActorIsAssignee: true,
		ApprovalStatus:  constants.ApprovalApproved,
		WorkStatus:      constants.WorkInProgress,
	}
	assert.True(t, c.CanSetWorkStatus())

	c.WorkStatus = constants.WorkCompleted
	assert.False(t, c.CanSetWorkStatus(), "work status is terminal at completed")

	c.WorkStatus = constants.WorkPending
	c.ActorIsAssignee = false
	assert.False(t, c.CanSetWorkStatus(), "unrelated technician may not drive work status")
}
