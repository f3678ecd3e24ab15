package models

import (
	"time"

	"github.com/google/uuid"
)

/*──────────────────────────────────────────────────────────────────────────────
  Primary enums
──────────────────────────────────────────────────────────────────────────────*/

type JobStatusType string

const (
	JobStatusOpen            JobStatusType = "OPEN"
	JobStatusAssigned        JobStatusType = "ASSIGNED"
	JobStatusInProgress      JobStatusType = "IN_PROGRESS"
	JobStatusAwaitingInvoice JobStatusType = "AWAITING_INVOICE"
	JobStatusCompleted       JobStatusType = "COMPLETED"
	JobStatusClosed          JobStatusType = "CLOSED"
)

type JobType string

const (
	JobTypeReactive JobType = "REACTIVE"
	JobTypePPM      JobType = "PPM"
)

// TerminalJobStatuses are the states in which a job no longer blocks the
// resolver from raising a fresh one against the same compliance item.
var TerminalJobStatuses = []JobStatusType{JobStatusCompleted, JobStatusClosed}

// IsTerminalJobStatus reports whether st is in the terminal set.
func IsTerminalJobStatus(st JobStatusType) bool {
	for _, t := range TerminalJobStatuses {
		if st == t {
			return true
		}
	}
	return false
}

/*──────────────────────────────────────────────────────────────────────────────
  Activity log
──────────────────────────────────────────────────────────────────────────────*/

// ActivityEntry is one line of a job's audit trail. The log is append-only:
// entries are never edited or truncated.
type ActivityEntry struct {
	Date   time.Time `json:"date"`
	Actor  string    `json:"actor"`
	Action string    `json:"action"`
}

/*──────────────────────────────────────────────────────────────────────────────
  MAIN MODEL – MaintenanceJob
──────────────────────────────────────────────────────────────────────────────*/

// MaintenanceJob is a unit of maintenance work on a property, either raised
// by a person (Reactive) or materialised by the PPM resolver (PPM, in which
// case LinkedComplianceID points at the compliance item it will renew).
// Jobs are never physically deleted; archival is the CLOSED status.
type MaintenanceJob struct {
	Versioned

	ID         uuid.UUID `json:"id"`
	PropertyID uuid.UUID `json:"property_id"`
	Ref        string    `json:"ref"`
	Category   string    `json:"category"`
	JobType    JobType   `json:"job_type"`

	Status JobStatusType `json:"status"`

	ReportedDate time.Time  `json:"reported_date"`
	SLADueDate   *time.Time `json:"sla_due_date,omitempty"`

	AssignedTo string `json:"assigned_to,omitempty"`

	// Present only on PPM jobs; must reference a ComplianceItem on the
	// same property.
	LinkedComplianceID *uuid.UUID `json:"linked_compliance_id,omitempty"`

	ActivityLog []ActivityEntry `json:"activity_log"`

	CostEstimate float64 `json:"cost_estimate"`
	FinalCost    float64 `json:"final_cost"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (j *MaintenanceJob) GetID() string {
	return j.ID.String()
}

// Clone deep-copies the job including its activity log.
func (j *MaintenanceJob) Clone() *MaintenanceJob {
	cp := *j
	cp.ActivityLog = make([]ActivityEntry, len(j.ActivityLog))
	copy(cp.ActivityLog, j.ActivityLog)
	if j.LinkedComplianceID != nil {
		id := *j.LinkedComplianceID
		cp.LinkedComplianceID = &id
	}
	if j.SLADueDate != nil {
		d := *j.SLADueDate
		cp.SLADueDate = &d
	}
	return &cp
}
