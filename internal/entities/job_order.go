package entities

import (
	"time"

	"maintenance-system/pkg/types"
)

type JobOrder struct {
	ID          uint64    `json:"id"`
	Campus      string    `json:"campus"`
	SubLocation string    `json:"sub_location"`
	OrderNumber string    `json:"order_number"`
	Status      string    `json:"status"`
	SubmittedBy uint64    `json:"submitted_by"`
	SubmittedAt time.Time `json:"submitted_at"`

	types.BaseEntity
}

// JobOrderItem keeps its position so the submitted equipment list stays ordered.
type JobOrderItem struct {
	ID            uint64 `json:"id"`
	JobOrderID    uint64 `json:"job_order_id"`
	Position      int    `json:"position"`
	EquipmentName string `json:"equipment_name"`
	TicketNumber  string `json:"ticket_number"`
}
