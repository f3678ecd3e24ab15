package models

import (
	"time"

	"github.com/google/uuid"
)

type ScheduleScopeType string

const (
	ScopeAllProperties ScheduleScopeType = "ALL"
	ScopeRegion        ScheduleScopeType = "REGION"
)

// ScheduleScope selects which properties a PPM schedule applies to: every
// property, or only those in a named region.
type ScheduleScope struct {
	Type   ScheduleScopeType `json:"type"`
	Region string            `json:"region,omitempty"`
}

// Matches reports whether the scope selects the given property.
func (s ScheduleScope) Matches(p *Property) bool {
	switch s.Type {
	case ScopeAllProperties:
		return true
	case ScopeRegion:
		return p.Region == s.Region
	default:
		return false
	}
}

// PpmSchedule is reference data describing a recurring inspection: which
// compliance type it governs, how often it recurs, and how far ahead of
// expiry a job must be raised. Schedules are configuration and are never
// owned by a property.
type PpmSchedule struct {
	ID             uuid.UUID      `json:"id"`
	Name           string         `json:"name"`
	ComplianceType ComplianceType `json:"compliance_type"`

	FrequencyMonths int `json:"frequency_months"`
	LeadTimeDays    int `json:"lead_time_days"`

	Scope ScheduleScope `json:"scope"`

	// SkipHolidays rolls the SLA due date forward to the next GB business
	// day so inspections are never due on a weekend or bank holiday.
	SkipHolidays bool `json:"skip_holidays"`

	CreatedAt time.Time `json:"created_at"`
}

func (s *PpmSchedule) GetID() string {
	return s.ID.String()
}
