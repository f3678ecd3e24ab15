package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propworks/compliance-service/internal/dtos"
	"github.com/propworks/compliance-service/internal/events"
	"github.com/propworks/compliance-service/internal/models"
	"github.com/propworks/compliance-service/internal/utils"
)

func TestCreateReactiveJob(t *testing.T) {
	store, bus, lifecycle, _, _ := newTestEngine()
	p := newGasProperty(t, store, "North")

	var published []events.Event
	bus.Subscribe(func(e events.Event) { published = append(published, e) })

	job, err := lifecycle.CreateJob(context.Background(), p.ID, dtos.CreateJobRequest{
		Category: "Leaking roof",
		JobType:  models.JobTypeReactive,
		Actor:    "sarah",
	})
	require.NoError(t, err)

	assert.Equal(t, models.JobStatusOpen, job.Status)
	assert.NotEmpty(t, job.Ref)
	assert.Nil(t, job.LinkedComplianceID)
	require.Len(t, job.ActivityLog, 1)
	assert.Equal(t, "Job reported", job.ActivityLog[0].Action)
	assert.Equal(t, "sarah", job.ActivityLog[0].Actor)

	require.Len(t, published, 1)
	assert.Equal(t, events.JobCreated, published[0].Type)
	assert.Equal(t, job.Ref, published[0].JobRef)
}

func TestReactiveJobMayNotLinkComplianceItem(t *testing.T) {
	store, _, lifecycle, _, _ := newTestEngine()
	p := newGasProperty(t, store, "North")

	ct := models.ComplianceGasSafety
	_, err := lifecycle.CreateJob(context.Background(), p.ID, dtos.CreateJobRequest{
		Category:             "Boiler",
		JobType:              models.JobTypeReactive,
		LinkedComplianceType: &ct,
		Actor:                "sarah",
	})
	assert.ErrorIs(t, err, utils.ErrLinkIntegrity)
}

func TestLinkedJobRequiresItemOnSameProperty(t *testing.T) {
	store, _, lifecycle, _, _ := newTestEngine()
	p := newGasProperty(t, store, "North")

	bogus := uuid.New()
	_, err := lifecycle.CreateJob(context.Background(), p.ID, dtos.CreateJobRequest{
		Category:           "Gas check",
		JobType:            models.JobTypePPM,
		LinkedComplianceID: &bogus,
		Actor:              "sarah",
	})
	assert.ErrorIs(t, err, utils.ErrLinkIntegrity)

	after, getErr := store.GetProperty(context.Background(), p.ID)
	require.NoError(t, getErr)
	assert.Empty(t, after.MaintenanceJobs)
}

func TestDuplicateLinkedJobRejected(t *testing.T) {
	store, _, lifecycle, _, _ := newTestEngine()
	p := newGasProperty(t, store, "North")
	itemID := p.ComplianceItems[0].ID

	_, err := lifecycle.CreateJob(context.Background(), p.ID, dtos.CreateJobRequest{
		Category:           "Gas check",
		JobType:            models.JobTypePPM,
		LinkedComplianceID: &itemID,
		Actor:              "sarah",
	})
	require.NoError(t, err)

	_, err = lifecycle.CreateJob(context.Background(), p.ID, dtos.CreateJobRequest{
		Category:           "Gas check",
		JobType:            models.JobTypePPM,
		LinkedComplianceID: &itemID,
		Actor:              "sarah",
	})
	assert.ErrorIs(t, err, utils.ErrDuplicateJob)
}

func TestHappyPathLifecycle(t *testing.T) {
	store, _, lifecycle, _, _ := newTestEngine()
	p := newGasProperty(t, store, "North")

	job, err := lifecycle.CreateJob(context.Background(), p.ID, dtos.CreateJobRequest{
		Category: "Broken window",
		JobType:  models.JobTypeReactive,
		Actor:    "sarah",
	})
	require.NoError(t, err)

	job, err = lifecycle.AssignJob(context.Background(), job.ID, "ACME Repairs", "sarah")
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusAssigned, job.Status)
	assert.Equal(t, "ACME Repairs", job.AssignedTo)

	job, err = lifecycle.Transition(context.Background(), job.ID, models.JobStatusInProgress, "acme")
	require.NoError(t, err)
	job, err = lifecycle.Transition(context.Background(), job.ID, models.JobStatusAwaitingInvoice, "acme")
	require.NoError(t, err)

	job, err = lifecycle.RecordFinalCost(context.Background(), job.ID, 240.50, "sarah")
	require.NoError(t, err)
	assert.Equal(t, 240.50, job.FinalCost)

	job, err = lifecycle.Transition(context.Background(), job.ID, models.JobStatusCompleted, "sarah")
	require.NoError(t, err)
	job, err = lifecycle.Transition(context.Background(), job.ID, models.JobStatusClosed, "sarah")
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusClosed, job.Status)

	// One entry per move plus creation and the cost line.
	assert.Len(t, job.ActivityLog, 7)
}

func TestIllegalTransitionLeavesStateUntouched(t *testing.T) {
	store, _, lifecycle, _, _ := newTestEngine()
	p := newGasProperty(t, store, "North")

	job, err := lifecycle.CreateJob(context.Background(), p.ID, dtos.CreateJobRequest{
		Category: "Fence",
		JobType:  models.JobTypeReactive,
		Actor:    "sarah",
	})
	require.NoError(t, err)

	_, err = lifecycle.Transition(context.Background(), job.ID, models.JobStatusCompleted, "sarah")
	assert.ErrorIs(t, err, utils.ErrInvalidStateTransition)

	after, getErr := store.GetProperty(context.Background(), p.ID)
	require.NoError(t, getErr)
	got := after.JobByID(job.ID)
	require.NotNil(t, got)
	assert.Equal(t, models.JobStatusOpen, got.Status)
	assert.Len(t, got.ActivityLog, 1)
}

func TestAssignRequiresContractor(t *testing.T) {
	store, _, lifecycle, _, _ := newTestEngine()
	p := newGasProperty(t, store, "North")

	job, err := lifecycle.CreateJob(context.Background(), p.ID, dtos.CreateJobRequest{
		Category: "Gutter",
		JobType:  models.JobTypeReactive,
		Actor:    "sarah",
	})
	require.NoError(t, err)

	_, err = lifecycle.AssignJob(context.Background(), job.ID, "", "sarah")
	assert.ErrorIs(t, err, utils.ErrAssigneeRequired)
}

func TestLinkedJobCannotCompleteDirectly(t *testing.T) {
	store, _, lifecycle, resolver, _ := newTestEngine()
	p := newGasProperty(t, store, "North")
	newGasSchedule(t, store)

	result := resolver.RunResolutionPass(context.Background(), mustDate(2025, time.April, 20))
	require.Equal(t, 1, result.Created)

	after, err := store.GetProperty(context.Background(), p.ID)
	require.NoError(t, err)
	job := after.MaintenanceJobs[0]

	job2, err := lifecycle.AssignJob(context.Background(), job.ID, "GasCo", "sarah")
	require.NoError(t, err)
	_, err = lifecycle.Transition(context.Background(), job2.ID, models.JobStatusInProgress, "gasco")
	require.NoError(t, err)

	_, err = lifecycle.Transition(context.Background(), job2.ID, models.JobStatusCompleted, "gasco")
	assert.ErrorIs(t, err, utils.ErrCascadeRequired)
}

func TestReopenClearsAssignee(t *testing.T) {
	store, _, lifecycle, _, _ := newTestEngine()
	p := newGasProperty(t, store, "North")

	job, err := lifecycle.CreateJob(context.Background(), p.ID, dtos.CreateJobRequest{
		Category: "Damp survey",
		JobType:  models.JobTypeReactive,
		Actor:    "sarah",
	})
	require.NoError(t, err)

	job, err = lifecycle.AssignJob(context.Background(), job.ID, "ACME Repairs", "sarah")
	require.NoError(t, err)

	job, err = lifecycle.Transition(context.Background(), job.ID, models.JobStatusOpen, "sarah")
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusOpen, job.Status)
	assert.Empty(t, job.AssignedTo)
	assert.Equal(t, "Job reopened", job.ActivityLog[len(job.ActivityLog)-1].Action)
}
