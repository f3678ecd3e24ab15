package models

import (
	"time"

	"github.com/google/uuid"
)

type UnitStatusType string

const (
	UnitStatusOccupied        UnitStatusType = "OCCUPIED"
	UnitStatusVoid            UnitStatusType = "VOID"
	UnitStatusMaster          UnitStatusType = "MASTER"
	UnitStatusUnavailable     UnitStatusType = "UNAVAILABLE"
	UnitStatusOutOfManagement UnitStatusType = "OUT_OF_MANAGEMENT"
	UnitStatusStaffSpace      UnitStatusType = "STAFF_SPACE"
)

// Unit is a tenant-addressable space inside a property. MoveInAt/MoveOutAt
// record the most recent occupancy change and feed the window statistics.
type Unit struct {
	ID         uuid.UUID      `json:"id"`
	PropertyID uuid.UUID      `json:"property_id"`
	UnitNumber string         `json:"unit_number"`
	Status     UnitStatusType `json:"status"`

	MoveInAt  *time.Time `json:"move_in_at,omitempty"`
	MoveOutAt *time.Time `json:"move_out_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// InManagement reports whether the unit counts toward the managed stock.
func (u *Unit) InManagement() bool {
	return u.Status != UnitStatusOutOfManagement
}
