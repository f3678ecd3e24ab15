package services

import (
	"context"
	"errors"
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

// JobSpec is the resolver's intent to raise one PPM job. It carries enough
// to create the job and to explain, in the activity log, which schedule
// demanded it.
type JobSpec struct {
	PropertyID     uuid.UUID
	ScheduleID     uuid.UUID
	ScheduleName   string
	ComplianceType models.ComplianceType
	SLADueDate     time.Time
}

// ResolutionResult summarizes one pass over the portfolio.
type ResolutionResult struct {
	Evaluated int
	Created   int
	Skipped   int
	Errors    []*utils.ResolutionError
	StartedAt time.Time
	Duration  time.Duration
}

// PpmResolverService walks every (schedule, property) pair in scope and
// raises the PPM jobs that are due. Resolution is pure (it reads a snapshot
// and emits specs); materialization goes through the lifecycle service,
// whose duplicate check makes the whole pass idempotent: running it twice
// in a row creates nothing the second time.
type PpmResolverService struct {
	store     *repositories.Store
	lifecycle *JobLifecycleService
	bus       *events.Bus
}

func NewPpmResolverService(
	store *repositories.Store,
	lifecycle *JobLifecycleService,
	bus *events.Bus,
) *PpmResolverService {
	return &PpmResolverService{store: store, lifecycle: lifecycle, bus: bus}
}

// dueDate computes when the obligation next falls due. The booked NextCheck
// wins when the item has one; otherwise the schedule's frequency projects
// forward from the last inspection; an item with no history at all is due
// immediately.
func dueDate(item *models.ComplianceItem, sch *models.PpmSchedule, now time.Time) time.Time {
	if item != nil && item.NextCheck != nil {
		return *item.NextCheck
	}
	if item != nil && item.LastCheck != nil {
		return item.LastCheck.AddDate(0, sch.FrequencyMonths, 0)
	}
	return now
}

// Resolve computes the jobs a pass over the given snapshot would raise. It
// performs no writes; duplicates against jobs that already exist in the
// snapshot are filtered here, and the lifecycle's own duplicate check covers
// anything created between snapshot and materialization.
func Resolve(snap *repositories.Snapshot, now time.Time) ([]JobSpec, []*utils.ResolutionError) {
	var specs []JobSpec
	var errs []*utils.ResolutionError
	seen := make(map[string]bool)

	for _, sch := range snap.Schedules {
		if sch.Scope.Type != models.ScopeAllProperties && sch.Scope.Type != models.ScopeRegion {
			errs = append(errs, &utils.ResolutionError{
				ScheduleID: sch.ID,
				Reason:     fmt.Sprintf("schedule has unknown scope type %q", sch.Scope.Type),
			})
			continue
		}
		for _, p := range snap.Properties {
			if !sch.Scope.Matches(p) {
				continue
			}

			key := sch.ID.String() + "|" + p.ID.String()
			if seen[key] {
				continue
			}
			seen[key] = true

			if sch.FrequencyMonths <= 0 {
				errs = append(errs, &utils.ResolutionError{
					ScheduleID: sch.ID,
					PropertyID: p.ID,
					Reason:     "schedule has non-positive frequency",
				})
				continue
			}

			item := p.ComplianceItemByType(sch.ComplianceType)
			due := dueDate(item, sch, now)
			if now.Before(due.AddDate(0, 0, -sch.LeadTimeDays)) {
				continue
			}

			if item != nil && hasLiveLinkedJob(p, item.ID) {
				continue
			}

			sla := due
			if sch.SkipHolidays {
				sla = utils.NextGBBusinessDay(sla)
			}
			specs = append(specs, JobSpec{
				PropertyID:     p.ID,
				ScheduleID:     sch.ID,
				ScheduleName:   sch.Name,
				ComplianceType: sch.ComplianceType,
				SLADueDate:     sla,
			})
		}
	}
	return specs, errs
}

func hasLiveLinkedJob(p *models.Property, itemID uuid.UUID) bool {
	for _, j := range p.MaintenanceJobs {
		if j.LinkedComplianceID != nil && *j.LinkedComplianceID == itemID &&
			!models.IsTerminalJobStatus(j.Status) {
			return true
		}
	}
	return false
}

// RunResolutionPass resolves against a fresh snapshot and materializes the
// resulting specs. One bad pair never aborts the pass: its error is
// collected and the walk continues.
func (s *PpmResolverService) RunResolutionPass(ctx context.Context, now time.Time) *ResolutionResult {
	start := time.Now()
	snap := s.store.Snapshot()

	specs, errs := Resolve(snap, now)
	result := &ResolutionResult{
		Evaluated: len(snap.Schedules) * len(snap.Properties),
		Errors:    errs,
		StartedAt: start.UTC(),
	}

	for _, spec := range specs {
		ct := spec.ComplianceType
		req := dtos.CreateJobRequest{
			Category:             string(ct),
			JobType:              models.JobTypePPM,
			SLADueDate:           &spec.SLADueDate,
			LinkedComplianceType: &ct,
			Actor:                "system",
			InitialLogAction:     fmt.Sprintf("Job auto-created from PPM schedule '%s'", spec.ScheduleName),
		}
		_, err := s.lifecycle.createJobAt(ctx, spec.PropertyID, req, now)
		switch {
		case err == nil:
			result.Created++
		case errors.Is(err, utils.ErrDuplicateJob):
			result.Skipped++
		default:
			result.Errors = append(result.Errors, &utils.ResolutionError{
				ScheduleID: spec.ScheduleID,
				PropertyID: spec.PropertyID,
				Reason:     err.Error(),
			})
		}
	}

	result.Duration = time.Since(start)
	s.logResult(result)

	s.bus.Publish(events.Event{
		Type:  events.ResolutionPassFinished,
		Actor: "system",
		At:    now,
	})
	return result
}

func (s *PpmResolverService) logResult(r *ResolutionResult) {
	utils.Logger.Infof(
		"PPM resolution pass finished: evaluated=%d created=%d skipped=%d errors=%d in %s",
		r.Evaluated, r.Created, r.Skipped, len(r.Errors), r.Duration,
	)
	for i, e := range r.Errors {
		if i >= constants.MaxResolutionErrorsLogged {
			utils.Logger.Warnf("… %d further resolution errors suppressed", len(r.Errors)-i)
			break
		}
		utils.Logger.Warnf("resolution error: %s", e.Error())
	}
}
