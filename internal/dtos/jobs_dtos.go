package dtos

import (
	"time"

	"github.com/google/uuid"

	"github.com/propworks/compliance-service/internal/models"
)

// CreateJobRequest is the single creation payload for both reactive jobs
// (raised by a person) and PPM jobs (raised by the resolver). Exactly one of
// LinkedComplianceID / LinkedComplianceType may be set, and only when
// JobType is PPM.
type CreateJobRequest struct {
	Category string         `json:"category" validate:"required"`
	JobType  models.JobType `json:"job_type" validate:"required,oneof=REACTIVE PPM"`

	SLADueDate   *time.Time `json:"sla_due_date,omitempty"`
	AssignedTo   string     `json:"assigned_to,omitempty"`
	CostEstimate float64    `json:"cost_estimate,omitempty"`

	LinkedComplianceID   *uuid.UUID             `json:"linked_compliance_id,omitempty"`
	LinkedComplianceType *models.ComplianceType `json:"linked_compliance_type,omitempty"`

	Actor string `json:"actor" validate:"required"`

	// InitialLogAction overrides the first activity-log line; the resolver
	// uses it to record which schedule raised the job.
	InitialLogAction string `json:"-"`
}

type TransitionJobRequest struct {
	Target models.JobStatusType `json:"target" validate:"required"`
	Actor  string               `json:"actor" validate:"required"`
}

type AssignJobRequest struct {
	Contractor string `json:"contractor" validate:"required"`
	Actor      string `json:"actor" validate:"required"`
}

type CompleteComplianceJobRequest struct {
	CertificateName string `json:"certificate_name" validate:"required"`
	CertificateURL  string `json:"certificate_url,omitempty"`
	Actor           string `json:"actor" validate:"required"`
}
