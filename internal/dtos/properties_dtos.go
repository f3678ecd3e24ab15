package dtos

import (
	"time"

	"github.com/propworks/compliance-service/internal/models"
)

type CreateUnitRequest struct {
	UnitNumber string                `json:"unit_number" validate:"required"`
	Status     models.UnitStatusType `json:"status" validate:"required,oneof=OCCUPIED VOID MASTER UNAVAILABLE OUT_OF_MANAGEMENT STAFF_SPACE"`
	MoveInAt   *time.Time            `json:"move_in_at,omitempty"`
	MoveOutAt  *time.Time            `json:"move_out_at,omitempty"`
}

type CreateComplianceItemRequest struct {
	Type      models.ComplianceType `json:"type" validate:"required"`
	LastCheck *time.Time            `json:"last_check,omitempty"`
	NextCheck *time.Time            `json:"next_check,omitempty"`
	ReportURL string                `json:"report_url,omitempty"`
}

type CreatePropertyRequest struct {
	Name               string             `json:"name" validate:"required"`
	Address            string             `json:"address" validate:"required"`
	Region             string             `json:"region" validate:"required"`
	ServiceType        models.ServiceType `json:"service_type" validate:"required,oneof=SUPPORTED_LIVING GENERAL_NEEDS TEMPORARY_ACCOMMODATION COMMERCIAL"`
	LegalEntity        string             `json:"legal_entity,omitempty"`
	RegisteredProvider string             `json:"registered_provider,omitempty"`
	HandoverDate       *time.Time         `json:"handover_date,omitempty"`

	Units           []CreateUnitRequest           `json:"units,omitempty" validate:"dive"`
	ComplianceItems []CreateComplianceItemRequest `json:"compliance_items,omitempty" validate:"dive"`
}

type CreateScheduleRequest struct {
	Name            string                `json:"name" validate:"required"`
	ComplianceType  models.ComplianceType `json:"compliance_type" validate:"required"`
	FrequencyMonths int                   `json:"frequency_months" validate:"required,gt=0"`
	LeadTimeDays    int                   `json:"lead_time_days" validate:"gte=0"`
	Scope           models.ScheduleScope  `json:"scope"`
	SkipHolidays    bool                  `json:"skip_holidays,omitempty"`
}
