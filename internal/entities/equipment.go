package entities

import (
	"time"

	"maintenance-system/pkg/types"
)

type Equipment struct {
	ID                  uint64     `json:"id"`
	Name                string     `json:"name"`
	TagNumber           string     `json:"tag_number"`
	Model               string     `json:"model"`
	Manufacturer        string     `json:"manufacturer"`
	SerialNumber        string     `json:"serial_number"`
	LocationID          *uint64    `json:"location_id"`
	LastMaintenance     *time.Time `json:"last_maintenance"`
	MaintenanceInterval string     `json:"maintenance_interval"`
	OperationalStatus   string     `json:"operational_status"`

	types.BaseEntity
	types.SoftDelete
}
