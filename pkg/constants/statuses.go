package constants

// Approval axis of a service request. Terminal once it leaves PENDING.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// Work axis of a service request. Terminal at COMPLETED.
const (
	WorkPending    = "pending"
	WorkInProgress = "in_progress"
	WorkCompleted  = "completed"
)

// Service request types.
const (
	RequestTypePreventive = "preventive"
	RequestTypeCorrective = "corrective"
	RequestTypeInstall    = "install"
	RequestTypeAssess     = "assess"
	RequestTypeOther      = "other"
)

// Priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Spare-part restock order lifecycle.
const (
	SparePartOrderPendingTechnician = "Pending Technician Action"
	SparePartOrderPendingSupervisor = "Pending Supervisor Review"
	SparePartOrderCompleted         = "Completed"
	SparePartOrderApproved          = "Approved"
)

// Job order statuses.
const (
	JobOrderSubmitted = "submitted"
	JobOrderCompleted = "completed"
)

func IsValidApprovalStatus(s string) bool {
	return s == ApprovalPending || s == ApprovalApproved || s == ApprovalRejected
}

func IsValidWorkStatus(s string) bool {
	return s == WorkPending || s == WorkInProgress || s == WorkCompleted
}

func IsValidRequestType(s string) bool {
	switch s {
	case RequestTypePreventive, RequestTypeCorrective, RequestTypeInstall, RequestTypeAssess, RequestTypeOther:
		return true
	}
	return false
}

func IsValidPriority(s string) bool {
	return s == PriorityLow || s == PriorityMedium || s == PriorityHigh
}
