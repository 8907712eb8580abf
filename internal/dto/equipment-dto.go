package dto

import (
	"time"

	"maintenance-system/internal/maintenance"

	"github.com/aarondl/null/v8"
)

type CreateEquipmentDTO struct {
	Name                string     `json:"name" validate:"required,min=2,max=255"`
	TagNumber           string     `json:"tag_number" validate:"required,min=1,max=64"`
	Model               string     `json:"model" validate:"max=255"`
	Manufacturer        string     `json:"manufacturer" validate:"max=255"`
	SerialNumber        string     `json:"serial_number" validate:"max=255"`
	LocationID          *uint64    `json:"location_id,omitempty" validate:"omitempty,gt=0"`
	LastMaintenance     *time.Time `json:"last_maintenance,omitempty"`
	MaintenanceInterval string     `json:"maintenance_interval" validate:"omitempty,maintenance_interval"`
	OperationalStatus   string     `json:"operational_status" validate:"max=255"`
}

type UpdateEquipmentDTO struct {
	Name                *string    `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	TagNumber           *string    `json:"tag_number,omitempty" validate:"omitempty,min=1,max=64"`
	Model               *string    `json:"model,omitempty" validate:"omitempty,max=255"`
	Manufacturer        *string    `json:"manufacturer,omitempty" validate:"omitempty,max=255"`
	SerialNumber        *string    `json:"serial_number,omitempty" validate:"omitempty,max=255"`
	LocationID          *uint64    `json:"location_id,omitempty" validate:"omitempty,gt=0"`
	LastMaintenance     *time.Time `json:"last_maintenance,omitempty"`
	MaintenanceInterval *string    `json:"maintenance_interval,omitempty" validate:"omitempty,maintenance_interval"`
	OperationalStatus   *string    `json:"operational_status,omitempty" validate:"omitempty,max=255"`
}

// EquipmentDTO is the read shape. The maintenance block is derived on every
// read, never stored.
type EquipmentDTO struct {
	ID                  uint64             `json:"id"`
	Name                string             `json:"name"`
	TagNumber           string             `json:"tag_number"`
	Model               string             `json:"model"`
	Manufacturer        string             `json:"manufacturer"`
	SerialNumber        string             `json:"serial_number"`
	Location            *ShortLocationDTO  `json:"location,omitempty"`
	LastMaintenance     null.Time          `json:"last_maintenance"`
	MaintenanceInterval string             `json:"maintenance_interval"`
	OperationalStatus   string             `json:"operational_status"`
	Maintenance         maintenance.Result `json:"maintenance"`
	CreatedAt           string             `json:"created_at"`
	UpdatedAt           string             `json:"updated_at"`
}

// EquipmentImportReportDTO aggregates the outcome of a bulk import. Errors
// carry row numbers; a non-empty Errors list means nothing was inserted.
type EquipmentImportReportDTO struct {
	Imported int      `json:"imported"`
	Errors   []string `json:"errors,omitempty"`
}
