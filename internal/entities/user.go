package entities

import "maintenance-system/pkg/types"

type User struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Role         string `json:"role"`
	PasswordHash string `json:"-"`

	types.BaseEntity
	types.SoftDelete
}
