package repositories

import (
	"time"

	"github.com/propworks/compliance-service/internal/models"
)

// Snapshot is the whole-state value exchanged with a DurableStore and handed
// to the reporting engine. It is always a deep copy: holders may read it
// freely without locking, and nothing they do can leak back into the store.
type Snapshot struct {
	Properties []*models.Property    `json:"properties"`
	Schedules  []*models.PpmSchedule `json:"schedules"`

	JobRefSeq int64     `json:"job_ref_seq"`
	TakenAt   time.Time `json:"taken_at"`
}

// PropertyByID returns the snapshot's copy of a property, or nil.
func (s *Snapshot) PropertyByID(id string) *models.Property {
	for _, p := range s.Properties {
		if p.ID.String() == id {
			return p
		}
	}
	return nil
}

// ScheduleForType returns the first schedule governing a compliance type,
// or nil when none is configured.
func (s *Snapshot) ScheduleForType(ct models.ComplianceType) *models.PpmSchedule {
	for _, sch := range s.Schedules {
		if sch.ComplianceType == ct {
			return sch
		}
	}
	return nil
}
