package dto

import "github.com/aarondl/null/v8"

type CreateSparePartDTO struct {
	Name        string  `json:"name" validate:"required,min=2,max=255"`
	PartNumber  string  `json:"part_number" validate:"max=64"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	MinQuantity int     `json:"min_quantity" validate:"gte=0"`
	UnitCost    float64 `json:"unit_cost" validate:"gte=0"`
}

type UpdateSparePartDTO struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	PartNumber  *string  `json:"part_number,omitempty" validate:"omitempty,max=64"`
	Quantity    *int     `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	MinQuantity *int     `json:"min_quantity,omitempty" validate:"omitempty,gte=0"`
	UnitCost    *float64 `json:"unit_cost,omitempty" validate:"omitempty,gte=0"`
}

type SparePartDTO struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	PartNumber  string  `json:"part_number"`
	Quantity    int     `json:"quantity"`
	MinQuantity int     `json:"min_quantity"`
	UnitCost    float64 `json:"unit_cost"`
	LowStock    bool    `json:"low_stock"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type SparePartOrderItemDTO struct {
	SparePartID uint64  `json:"spare_part_id" validate:"required,gt=0"`
	Quantity    int     `json:"quantity" validate:"required,gt=0"`
	UnitCost    float64 `json:"unit_cost" validate:"gte=0"`
}

type CreateSparePartOrderDTO struct {
	Items []SparePartOrderItemDTO `json:"items" validate:"required,min=1,dive"`
	Note  string                  `json:"note" validate:"max=2000"`
}

// UpdateSparePartOrderStatusDTO drives the restock lifecycle.
type UpdateSparePartOrderStatusDTO struct {
	Status string `json:"status" validate:"required"`
}

type SparePartOrderDTO struct {
	ID          uint64                  `json:"id"`
	Status      string                  `json:"status"`
	RequestedBy uint64                  `json:"requested_by"`
	ReviewedBy  null.Uint64             `json:"reviewed_by"`
	CompletedAt null.Time               `json:"completed_at"`
	Note        string                  `json:"note"`
	Items       []SparePartOrderItemRow `json:"items"`
	CreatedAt   string                  `json:"created_at"`
	UpdatedAt   string                  `json:"updated_at"`
}

type SparePartOrderItemRow struct {
	ID          uint64  `json:"id"`
	SparePartID uint64  `json:"spare_part_id"`
	PartName    string  `json:"part_name,omitempty"`
	Quantity    int     `json:"quantity"`
	UnitCost    float64 `json:"unit_cost"`
}
