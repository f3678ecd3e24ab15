package models

import (
	"time"

	"github.com/google/uuid"
)

type ServiceType string

const (
	ServiceSupportedLiving ServiceType = "SUPPORTED_LIVING"
	ServiceGeneralNeeds    ServiceType = "GENERAL_NEEDS"
	ServiceTemporaryAccom  ServiceType = "TEMPORARY_ACCOMMODATION"
	ServiceCommercial      ServiceType = "COMMERCIAL"
)

// Property owns every child entity recorded against it: units, compliance
// items, maintenance jobs and documents. Removing a property removes all of
// them; nothing below holds a reference that outlives its parent.
type Property struct {
	Versioned

	ID                 uuid.UUID   `json:"id"`
	Name               string      `json:"name"`
	Address            string      `json:"address"`
	Region             string      `json:"region"`
	ServiceType        ServiceType `json:"service_type"`
	LegalEntity        string      `json:"legal_entity"`
	RegisteredProvider string      `json:"registered_provider"`

	Units           []*Unit           `json:"units"`
	ComplianceItems []*ComplianceItem `json:"compliance_items"`
	MaintenanceJobs []*MaintenanceJob `json:"maintenance_jobs"`
	Documents       []*Document       `json:"documents"`

	HandoverDate *time.Time `json:"handover_date,omitempty"`
	HandbackDate *time.Time `json:"handback_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Property) GetID() string {
	return p.ID.String()
}

// ComplianceItemByType returns the live item for a compliance type, or nil.
// The store enforces at most one live item per (property, type) pair.
func (p *Property) ComplianceItemByType(ct ComplianceType) *ComplianceItem {
	for _, item := range p.ComplianceItems {
		if item.Type == ct && !item.Superseded {
			return item
		}
	}
	return nil
}

// JobByID returns the maintenance job with the given ID, or nil.
func (p *Property) JobByID(id uuid.UUID) *MaintenanceJob {
	for _, j := range p.MaintenanceJobs {
		if j.ID == id {
			return j
		}
	}
	return nil
}

// ComplianceItemByID returns the item with the given ID, or nil.
func (p *Property) ComplianceItemByID(id uuid.UUID) *ComplianceItem {
	for _, item := range p.ComplianceItems {
		if item.ID == id {
			return item
		}
	}
	return nil
}

// Clone deep-copies the property and all owned children. Mutating the clone
// never touches the original; this is what the copy-on-write transaction in
// the store hands to mutators.
func (p *Property) Clone() *Property {
	cp := *p

	cp.Units = make([]*Unit, len(p.Units))
	for i, u := range p.Units {
		uc := *u
		cp.Units[i] = &uc
	}

	cp.ComplianceItems = make([]*ComplianceItem, len(p.ComplianceItems))
	for i, ci := range p.ComplianceItems {
		cic := *ci
		cp.ComplianceItems[i] = &cic
	}

	cp.MaintenanceJobs = make([]*MaintenanceJob, len(p.MaintenanceJobs))
	for i, j := range p.MaintenanceJobs {
		cp.MaintenanceJobs[i] = j.Clone()
	}

	cp.Documents = make([]*Document, len(p.Documents))
	for i, d := range p.Documents {
		dc := *d
		cp.Documents[i] = &dc
	}

	return &cp
}
