package dto

import (
	"time"

	"github.com/aarondl/null/v8"
)

type RequestPartDTO struct {
	SparePartID *uint64 `json:"spare_part_id,omitempty" validate:"omitempty,gt=0"`
	Name        string  `json:"name" validate:"required_without=SparePartID,max=255"`
	Quantity    int     `json:"quantity" validate:"required,gt=0"`
	UnitCost    float64 `json:"unit_cost" validate:"gte=0"`
}

type CreateServiceRequestDTO struct {
	EquipmentID    uint64     `json:"equipment_id" validate:"required,gt=0"`
	AssigneeID     *uint64    `json:"assignee_id,omitempty" validate:"omitempty,gt=0"`
	ExtraAssignees []uint64   `json:"extra_assignees,omitempty"`
	RequestType    string     `json:"request_type" validate:"required,oneof=preventive corrective install assess other"`
	Priority       string     `json:"priority" validate:"required,oneof=low medium high"`
	ScheduledAt    *time.Time `json:"scheduled_at,omitempty"`
	ProblemDesc    string     `json:"problem_description" validate:"max=4000"`
}

// UpdateServiceRequestDTO uses pointers throughout: only supplied fields are
// checked against the edit policy and applied.
type UpdateServiceRequestDTO struct {
	EquipmentID    *uint64    `json:"equipment_id,omitempty" validate:"omitempty,gt=0"`
	AssigneeID     *uint64    `json:"assignee_id,omitempty" validate:"omitempty,gt=0"`
	ExtraAssignees []uint64   `json:"extra_assignees,omitempty"`
	RequestType    *string    `json:"request_type,omitempty" validate:"omitempty,oneof=preventive corrective install assess other"`
	Priority       *string    `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	ScheduledAt    *time.Time `json:"scheduled_at,omitempty"`

	ProblemDesc    *string          `json:"problem_description,omitempty" validate:"omitempty,max=4000"`
	Assessment     *string          `json:"technical_assessment,omitempty" validate:"omitempty,max=4000"`
	Recommendation *string          `json:"recommendation,omitempty" validate:"omitempty,max=4000"`
	Parts          []RequestPartDTO `json:"spare_parts_needed,omitempty" validate:"omitempty,dive"`

	ApprovalStatus *string `json:"approval_status,omitempty" validate:"omitempty,oneof=approved rejected"`
	WorkStatus     *string `json:"work_status,omitempty" validate:"omitempty,oneof=pending in_progress completed"`
}

type ServiceRequestDTO struct {
	ID             uint64            `json:"id"`
	TicketID       string            `json:"ticket_id"`
	EquipmentID    uint64            `json:"equipment_id"`
	EquipmentName  string            `json:"equipment_name,omitempty"`
	Assignee       *ShortUserDTO     `json:"assignee,omitempty"`
	ExtraAssignees []uint64          `json:"extra_assignees,omitempty"`
	RequestType    string            `json:"request_type"`
	Priority       string            `json:"priority"`
	ScheduledAt    null.Time         `json:"scheduled_at"`
	ApprovalStatus string            `json:"approval_status"`
	WorkStatus     string            `json:"work_status"`
	ProblemDesc    string            `json:"problem_description"`
	Assessment     string            `json:"technical_assessment"`
	Recommendation string            `json:"recommendation"`
	Parts          []RequestPartItem `json:"spare_parts_needed"`
	CreatedBy      uint64            `json:"created_by"`
	CreatedAt      string            `json:"created_at"`
	UpdatedAt      string            `json:"updated_at"`
}

type RequestPartItem struct {
	ID          uint64  `json:"id"`
	SparePartID *uint64 `json:"spare_part_id,omitempty"`
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	UnitCost    float64 `json:"unit_cost"`
}

// BulkCompleteDTO scopes the PM bulk completion to one location.
type BulkCompleteDTO struct {
	LocationID      uint64     `json:"location_id" validate:"required,gt=0"`
	MaintenanceDate *time.Time `json:"maintenance_date,omitempty"`
}
