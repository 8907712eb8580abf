package entities

import "maintenance-system/pkg/types"

// Location is uniquely keyed by (campus, name).
type Location struct {
	ID     uint64  `json:"id"`
	Campus string  `json:"campus"`
	Name   string  `json:"name"`
	NameAr *string `json:"name_ar,omitempty"`

	types.BaseEntity
}
