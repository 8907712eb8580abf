package entities

import (
	"time"

	"maintenance-system/pkg/types"
)

type ServiceRequest struct {
	ID               uint64     `json:"id"`
	TicketID         string     `json:"ticket_id"`
	EquipmentID      uint64     `json:"equipment_id"`
	AssigneeID       *uint64    `json:"assignee_id"`
	ExtraAssignees   []uint64   `json:"extra_assignees"`
	RequestType      string     `json:"request_type"`
	Priority         string     `json:"priority"`
	ScheduledAt      *time.Time `json:"scheduled_at"`
	ApprovalStatus   string     `json:"approval_status"`
	WorkStatus       string     `json:"work_status"`
	ProblemDesc      string     `json:"problem_description"`
	Assessment       string     `json:"technical_assessment"`
	Recommendation   string     `json:"recommendation"`
	CreatedBy        uint64     `json:"created_by"`

	types.BaseEntity
	types.SoftDelete
}

// RequestPart is one spare-parts-needed line on a service request.
// SparePartID is filled by the upsert-by-name linking step when absent.
type RequestPart struct {
	ID          uint64  `json:"id"`
	RequestID   uint64  `json:"request_id"`
	SparePartID *uint64 `json:"spare_part_id"`
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	UnitCost    float64 `json:"unit_cost"`
}
