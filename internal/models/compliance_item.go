package models

import (
	"time"

	"github.com/google/uuid"
)

/*──────────────────────────────────────────────────────────────────────────────
  Primary enums
──────────────────────────────────────────────────────────────────────────────*/

type ComplianceType string

const (
	ComplianceGasSafety          ComplianceType = "GAS_SAFETY"
	ComplianceEICR               ComplianceType = "EICR"
	ComplianceFireRiskAssessment ComplianceType = "FIRE_RISK_ASSESSMENT"
	ComplianceLegionellaRisk     ComplianceType = "LEGIONELLA_RISK"
	ComplianceAsbestosSurvey     ComplianceType = "ASBESTOS_SURVEY"
	ComplianceLiftLOLER          ComplianceType = "LIFT_LOLER"
	ComplianceEmergencyLighting  ComplianceType = "EMERGENCY_LIGHTING"
)

type ComplianceStatus string

const (
	StatusCompliant      ComplianceStatus = "COMPLIANT"
	StatusDueSoon        ComplianceStatus = "DUE_SOON"
	StatusActionRequired ComplianceStatus = "ACTION_REQUIRED"
	StatusExpired        ComplianceStatus = "EXPIRED"
	StatusNA             ComplianceStatus = "N_A"
)

/*──────────────────────────────────────────────────────────────────────────────
  MAIN MODEL – ComplianceItem
──────────────────────────────────────────────────────────────────────────────*/

// ComplianceItem tracks one regulatory obligation on a property, e.g. the
// current Gas Safety certificate. LastCheck/NextCheck are nil until the first
// inspection has happened. Status is derived, never stored authoritatively;
// the persisted value is just the last evaluation and is recomputed on read.
//
// Invariant: NextCheck is strictly after LastCheck once both are set, and a
// property carries at most one live (non-superseded) item per type.
type ComplianceItem struct {
	ID         uuid.UUID      `json:"id"`
	PropertyID uuid.UUID      `json:"property_id"`
	Type       ComplianceType `json:"type"`

	LastCheck *time.Time `json:"last_check,omitempty"`
	NextCheck *time.Time `json:"next_check,omitempty"`

	Status    ComplianceStatus `json:"status"`
	ReportURL string           `json:"report_url,omitempty"`

	Superseded bool `json:"superseded,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ci *ComplianceItem) GetID() string {
	return ci.ID.String()
}
