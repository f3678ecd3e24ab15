package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/propworks/compliance-service/internal/constants"
	"github.com/propworks/compliance-service/internal/dtos"
	"github.com/propworks/compliance-service/internal/events"
	"github.com/propworks/compliance-service/internal/models"
	"github.com/propworks/compliance-service/internal/repositories"
	"github.com/propworks/compliance-service/internal/utils"
)

// CompletionCascadeService performs the all-or-nothing completion of a
// compliance-linked job: the job goes to COMPLETED, the linked item's dates
// roll forward, its status is re-evaluated, and a certificate document is
// archived against the property. All four effects ride one copy-on-write
// transaction, so a failure anywhere leaves every record untouched.
type CompletionCascadeService struct {
	store *repositories.Store
	bus   *events.Bus
}

func NewCompletionCascadeService(store *repositories.Store, bus *events.Bus) *CompletionCascadeService {
	return &CompletionCascadeService{store: store, bus: bus}
}

// CompleteComplianceJob runs the cascade for one job. The next check date is
// projected using the governing schedule's frequency, falling back to twelve
// months when no schedule covers the item's type.
func (s *CompletionCascadeService) CompleteComplianceJob(
	ctx context.Context,
	jobID uuid.UUID,
	req dtos.CompleteComplianceJobRequest,
) (*models.MaintenanceJob, error) {
	return s.completeAt(ctx, jobID, req, time.Now().UTC())
}

func (s *CompletionCascadeService) completeAt(
	ctx context.Context,
	jobID uuid.UUID,
	req dtos.CompleteComplianceJobRequest,
	now time.Time,
) (*models.MaintenanceJob, error) {
	propertyID, err := s.store.FindPropertyIDByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	completionDate := truncateToDay(now)

	// Read the governing schedule outside the transaction; schedules are
	// reference data and never change mid-flight.
	snap := s.store.Snapshot()

	var completed *models.MaintenanceJob
	_, err = s.store.UpdateProperty(ctx, propertyID, func(p *models.Property) error {
		job := p.JobByID(jobID)
		if job == nil {
			return utils.ErrNotFound
		}
		if job.LinkedComplianceID == nil {
			return fmt.Errorf("job %s has no linked compliance item: %w", job.Ref, utils.ErrLinkIntegrity)
		}
		item := p.ComplianceItemByID(*job.LinkedComplianceID)
		if item == nil {
			return fmt.Errorf("job %s links missing item %s: %w",
				job.Ref, job.LinkedComplianceID, utils.ErrLinkIntegrity)
		}

		if err := applyTransition(job, models.JobStatusCompleted, req.Actor, now,
			"Compliance certificate uploaded. Job completed.", true); err != nil {
			return err
		}
		job.RowVersion++

		frequencyMonths := constants.DefaultFrequencyMonths
		if sch := snap.ScheduleForType(item.Type); sch != nil && sch.FrequencyMonths > 0 {
			frequencyMonths = sch.FrequencyMonths
		}

		last := completionDate
		next := last.AddDate(0, frequencyMonths, 0)
		item.LastCheck = &last
		item.NextCheck = &next
		item.Status = EvaluateStatusDefault(item, now)
		item.ReportURL = req.CertificateURL
		item.UpdatedAt = now

		p.Documents = append(p.Documents, &models.Document{
			ID:           uuid.New(),
			PropertyID:   p.ID,
			Name:         req.CertificateName,
			Type:         models.DocumentCertificate,
			Date:         completionDate,
			URL:          req.CertificateURL,
			LinkedJobRef: job.Ref,
		})

		completed = job
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.bus.Publish(events.Event{
		Type:       events.JobCompleted,
		PropertyID: propertyID,
		JobRef:     completed.Ref,
		Actor:      req.Actor,
		At:         now,
	})
	return completed, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
