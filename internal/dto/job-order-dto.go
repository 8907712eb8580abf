package dto

type JobOrderItemDTO struct {
	EquipmentName string `json:"equipment_name" validate:"required,min=1,max=255"`
}

type CreateJobOrderDTO struct {
	Campus      string            `json:"campus" validate:"required,min=1,max=255"`
	SubLocation string            `json:"sub_location" validate:"required,min=1,max=255"`
	Items       []JobOrderItemDTO `json:"items" validate:"required,min=1,dive"`
}

type JobOrderDTO struct {
	ID          uint64            `json:"id"`
	Campus      string            `json:"campus"`
	SubLocation string            `json:"sub_location"`
	OrderNumber string            `json:"order_number"`
	Status      string            `json:"status"`
	SubmittedBy uint64            `json:"submitted_by"`
	SubmittedAt string            `json:"submitted_at"`
	Items       []JobOrderItemRow `json:"items"`
}

type JobOrderItemRow struct {
	Position      int    `json:"position"`
	EquipmentName string `json:"equipment_name"`
	TicketNumber  string `json:"ticket_number"`
}
