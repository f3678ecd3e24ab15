package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/propworks/compliance-service/internal/dtos"
	"github.com/propworks/compliance-service/internal/events"
	"github.com/propworks/compliance-service/internal/models"
	"github.com/propworks/compliance-service/internal/repositories"
	"github.com/propworks/compliance-service/internal/utils"
)

// legalTransitions is the lifecycle graph. Reopen (any non-OPEN → OPEN) is
// handled separately because it is an administrative edge, not a forward one.
var legalTransitions = map[models.JobStatusType][]models.JobStatusType{
	models.JobStatusOpen:            {models.JobStatusAssigned},
	models.JobStatusAssigned:        {models.JobStatusInProgress},
	models.JobStatusInProgress:      {models.JobStatusAwaitingInvoice, models.JobStatusCompleted},
	models.JobStatusAwaitingInvoice: {models.JobStatusCompleted},
	models.JobStatusCompleted:       {models.JobStatusClosed},
	models.JobStatusClosed:          {},
}

func transitionAllowed(from, to models.JobStatusType) bool {
	if to == models.JobStatusOpen {
		return from != models.JobStatusOpen
	}
	for _, t := range legalTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

func defaultTransitionAction(to models.JobStatusType, job *models.MaintenanceJob) string {
	switch to {
	case models.JobStatusOpen:
		return "Job reopened"
	case models.JobStatusAssigned:
		return fmt.Sprintf("Job assigned to %s", job.AssignedTo)
	case models.JobStatusInProgress:
		return "Work started"
	case models.JobStatusAwaitingInvoice:
		return "Work finished, awaiting invoice"
	case models.JobStatusCompleted:
		return "Job completed"
	case models.JobStatusClosed:
		return "Job closed"
	default:
		return string(to)
	}
}

// applyTransition validates and performs one lifecycle move on a staged job,
// appending exactly one activity-log entry. It mutates only the staged copy
// handed in by the store's copy-on-write transaction, so a later failure in
// the same transaction discards it cleanly.
//
// allowCascade lets the completion cascade drive a linked job to COMPLETED;
// every other caller gets ErrCascadeRequired for that move.
func applyTransition(
	job *models.MaintenanceJob,
	target models.JobStatusType,
	actor string,
	now time.Time,
	action string,
	allowCascade bool,
) error {
	if !transitionAllowed(job.Status, target) {
		return fmt.Errorf("%s -> %s: %w", job.Status, target, utils.ErrInvalidStateTransition)
	}
	if target == models.JobStatusAssigned && job.AssignedTo == "" {
		return utils.ErrAssigneeRequired
	}
	if target == models.JobStatusCompleted && job.LinkedComplianceID != nil && !allowCascade {
		return utils.ErrCascadeRequired
	}

	if target == models.JobStatusOpen {
		// Reopen hands the job back unassigned.
		job.AssignedTo = ""
	}

	job.Status = target
	job.UpdatedAt = now
	if action == "" {
		action = defaultTransitionAction(target, job)
	}
	job.ActivityLog = append(job.ActivityLog, models.ActivityEntry{
		Date:   now,
		Actor:  actor,
		Action: action,
	})
	return nil
}

/*──────────────────────────────────────────────────────────────────────────────
  JobLifecycleService
──────────────────────────────────────────────────────────────────────────────*/

// JobLifecycleService owns job creation and every status move. It is the
// single entry point for manual work and resolver-generated work alike, so
// each job gets a ref, an OPEN status and a first activity-log entry the
// same way regardless of origin.
type JobLifecycleService struct {
	store *repositories.Store
	bus   *events.Bus
}

func NewJobLifecycleService(store *repositories.Store, bus *events.Bus) *JobLifecycleService {
	return &JobLifecycleService{store: store, bus: bus}
}

// CreateJob creates a job on a property. PPM jobs link a compliance item
// either by ID (must live on the same property) or by type, in which case a
// placeholder item with no history is created when none exists yet. Creating
// a second non-terminal job against the same item is refused with
// ErrDuplicateJob; this is what keeps resolver passes idempotent.
func (s *JobLifecycleService) CreateJob(
	ctx context.Context,
	propertyID uuid.UUID,
	req dtos.CreateJobRequest,
) (*models.MaintenanceJob, error) {
	now := time.Now().UTC()
	return s.createJobAt(ctx, propertyID, req, now)
}

func (s *JobLifecycleService) createJobAt(
	ctx context.Context,
	propertyID uuid.UUID,
	req dtos.CreateJobRequest,
	now time.Time,
) (*models.MaintenanceJob, error) {
	if req.JobType != models.JobTypePPM &&
		(req.LinkedComplianceID != nil || req.LinkedComplianceType != nil) {
		return nil, fmt.Errorf("only PPM jobs may link a compliance item: %w", utils.ErrLinkIntegrity)
	}

	var created *models.MaintenanceJob
	_, err := s.store.UpdateProperty(ctx, propertyID, func(p *models.Property) error {
		var item *models.ComplianceItem

		switch {
		case req.LinkedComplianceID != nil:
			item = p.ComplianceItemByID(*req.LinkedComplianceID)
			if item == nil {
				return fmt.Errorf("compliance item %s not on property %s: %w",
					req.LinkedComplianceID, p.ID, utils.ErrLinkIntegrity)
			}
		case req.LinkedComplianceType != nil:
			item = p.ComplianceItemByType(*req.LinkedComplianceType)
			if item == nil {
				// First-ever obligation of this type: placeholder with
				// no inspection history.
				item = &models.ComplianceItem{
					ID:         uuid.New(),
					PropertyID: p.ID,
					Type:       *req.LinkedComplianceType,
					Status:     models.StatusActionRequired,
					CreatedAt:  now,
					UpdatedAt:  now,
				}
				p.ComplianceItems = append(p.ComplianceItems, item)
			}
		}

		if item != nil {
			for _, j := range p.MaintenanceJobs {
				if j.LinkedComplianceID != nil && *j.LinkedComplianceID == item.ID &&
					!models.IsTerminalJobStatus(j.Status) {
					return fmt.Errorf("open job %s already covers item %s: %w",
						j.Ref, item.ID, utils.ErrDuplicateJob)
				}
			}
		}

		job := &models.MaintenanceJob{
			ID:           uuid.New(),
			PropertyID:   p.ID,
			Ref:          s.store.NextJobRef(),
			Category:     req.Category,
			JobType:      req.JobType,
			Status:       models.JobStatusOpen,
			ReportedDate: now,
			SLADueDate:   req.SLADueDate,
			AssignedTo:   req.AssignedTo,
			CostEstimate: req.CostEstimate,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		job.RowVersion = 1
		if item != nil {
			id := item.ID
			job.LinkedComplianceID = &id
		}

		action := req.InitialLogAction
		if action == "" {
			action = "Job reported"
		}
		job.ActivityLog = []models.ActivityEntry{{
			Date:   now,
			Actor:  req.Actor,
			Action: action,
		}}

		p.MaintenanceJobs = append(p.MaintenanceJobs, job)
		created = job
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.bus.Publish(events.Event{
		Type:       events.JobCreated,
		PropertyID: propertyID,
		JobRef:     created.Ref,
		Actor:      req.Actor,
		At:         now,
	})
	return created, nil
}

// Transition moves a job along the lifecycle graph. Illegal moves return
// ErrInvalidStateTransition and mutate nothing; a CLOSED job accepts only
// the reopen edge.
func (s *JobLifecycleService) Transition(
	ctx context.Context,
	jobID uuid.UUID,
	target models.JobStatusType,
	actor string,
) (*models.MaintenanceJob, error) {
	propertyID, err := s.store.FindPropertyIDByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var updated *models.MaintenanceJob
	_, err = s.store.UpdateProperty(ctx, propertyID, func(p *models.Property) error {
		job := p.JobByID(jobID)
		if job == nil {
			return utils.ErrNotFound
		}
		if err := applyTransition(job, target, actor, now, "", false); err != nil {
			return err
		}
		job.RowVersion++
		updated = job
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.bus.Publish(events.Event{
		Type:       events.JobTransitioned,
		PropertyID: propertyID,
		JobRef:     updated.Ref,
		Actor:      actor,
		At:         now,
	})
	return updated, nil
}

// AssignJob sets the contractor and performs OPEN → ASSIGNED in one move.
func (s *JobLifecycleService) AssignJob(
	ctx context.Context,
	jobID uuid.UUID,
	contractor string,
	actor string,
) (*models.MaintenanceJob, error) {
	if contractor == "" {
		return nil, utils.ErrAssigneeRequired
	}
	propertyID, err := s.store.FindPropertyIDByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var updated *models.MaintenanceJob
	_, err = s.store.UpdateProperty(ctx, propertyID, func(p *models.Property) error {
		job := p.JobByID(jobID)
		if job == nil {
			return utils.ErrNotFound
		}
		job.AssignedTo = contractor
		if err := applyTransition(job, models.JobStatusAssigned, actor, now, "", false); err != nil {
			return err
		}
		job.RowVersion++
		updated = job
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.bus.Publish(events.Event{
		Type:       events.JobTransitioned,
		PropertyID: propertyID,
		JobRef:     updated.Ref,
		Actor:      actor,
		At:         now,
	})
	return updated, nil
}

// RecordFinalCost attaches the invoiced cost to a job awaiting invoice.
// Zero is a legitimate value (warranty work); the field is simply recorded.
func (s *JobLifecycleService) RecordFinalCost(
	ctx context.Context,
	jobID uuid.UUID,
	cost float64,
	actor string,
) (*models.MaintenanceJob, error) {
	propertyID, err := s.store.FindPropertyIDByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var updated *models.MaintenanceJob
	_, err = s.store.UpdateProperty(ctx, propertyID, func(p *models.Property) error {
		job := p.JobByID(jobID)
		if job == nil {
			return utils.ErrNotFound
		}
		if job.Status == models.JobStatusClosed {
			return fmt.Errorf("%s: %w", job.Ref, utils.ErrInvalidStateTransition)
		}
		job.FinalCost = cost
		job.UpdatedAt = now
		job.ActivityLog = append(job.ActivityLog, models.ActivityEntry{
			Date:   now,
			Actor:  actor,
			Action: fmt.Sprintf("Final cost recorded: %.2f", cost),
		})
		job.RowVersion++
		updated = job
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
