package dto

import "github.com/aarondl/null/v8"

type CreateLocationDTO struct {
	Campus string      `json:"campus" validate:"required,min=1,max=255"`
	Name   string      `json:"name" validate:"required,min=1,max=255"`
	NameAr null.String `json:"name_ar"`
}

type UpdateLocationDTO struct {
	Campus *string     `json:"campus,omitempty" validate:"omitempty,min=1,max=255"`
	Name   *string     `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	NameAr null.String `json:"name_ar"`
}

type LocationDTO struct {
	ID        uint64      `json:"id"`
	Campus    string      `json:"campus"`
	Name      string      `json:"name"`
	NameAr    null.String `json:"name_ar"`
	CreatedAt string      `json:"created_at"`
}
