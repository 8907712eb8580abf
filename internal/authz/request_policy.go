package authz

import "maintenance-system/pkg/constants"

// RequestEditContext describes who is editing a service request and what
// state it is in. The policy below is evaluated server-side on every update.
type RequestEditContext struct {
	ActorRole       Role
	ActorIsAssignee bool
	ApprovalStatus  string
	WorkStatus      string
}

// CanEditBasicFields gates equipment, assignee, type and schedule changes.
// Non-approvers may touch them only while both axes are still pending;
// approvers may touch them any time work is not completed.
func (c RequestEditContext) CanEditBasicFields() bool {
	if c.WorkStatus == constants.WorkCompleted {
		return false
	}
	if c.ActorRole.CanApprove() {
		return true
	}
	return c.ApprovalStatus == constants.ApprovalPending && c.WorkStatus == constants.WorkPending
}

// CanEditTechnicalFields gates problem description, assessment,
// recommendation and the spare-parts list. Editable only while work has not
// started, and only once the request is approved (approvers are exempt from
// the approval precondition).
func (c RequestEditContext) CanEditTechnicalFields() bool {
	if c.WorkStatus != constants.WorkPending {
		return false
	}
	return c.ApprovalStatus == constants.ApprovalApproved || c.ActorRole.CanApprove()
}

// CanSetApprovalStatus: approver roles only, and only while approval is
// still pending. The approval axis is terminal once decided.
func (c RequestEditContext) CanSetApprovalStatus() bool {
	return c.ActorRole.CanApprove() && c.ApprovalStatus == constants.ApprovalPending
}

// CanSetWorkStatus: anyone allowed to edit the record may advance work
// status, but never once it is completed.
func (c RequestEditContext) CanSetWorkStatus() bool {
	if c.WorkStatus == constants.WorkCompleted {
		return false
	}
	return c.ActorRole.CanApprove() || c.ActorIsAssignee
}

// CanEditAnything reports whether the actor may touch the record at all.
func (c RequestEditContext) CanEditAnything() bool {
	return c.CanEditBasicFields() || c.CanEditTechnicalFields() || c.CanSetApprovalStatus() || c.CanSetWorkStatus()
}
