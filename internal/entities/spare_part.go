package entities

import (
	"time"

	"maintenance-system/pkg/types"
)

type SparePart struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	PartNumber  string  `json:"part_number"`
	Quantity    int     `json:"quantity"`
	MinQuantity int     `json:"min_quantity"`
	UnitCost    float64 `json:"unit_cost"`

	types.BaseEntity
	types.SoftDelete
}

type SparePartOrder struct {
	ID          uint64     `json:"id"`
	Status      string     `json:"status"`
	RequestedBy uint64     `json:"requested_by"`
	ReviewedBy  *uint64    `json:"reviewed_by"`
	CompletedAt *time.Time `json:"completed_at"`
	Note        string     `json:"note"`

	types.BaseEntity
}

type SparePartOrderItem struct {
	ID          uint64  `json:"id"`
	OrderID     uint64  `json:"order_id"`
	SparePartID uint64  `json:"spare_part_id"`
	Quantity    int     `json:"quantity"`
	UnitCost    float64 `json:"unit_cost"`
}
