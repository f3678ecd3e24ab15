package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propworks/compliance-service/internal/models"
)

func TestResolverRaisesJobInsideLeadWindow(t *testing.T) {
	store, _, _, resolver, _ := newTestEngine()
	p := newGasProperty(t, store, "North")
	newGasSchedule(t, store)

	now := mustDate(2025, time.April, 20)
	result := resolver.RunResolutionPass(context.Background(), now)

	require.Equal(t, 1, result.Created)
	assert.Empty(t, result.Errors)

	after, err := store.GetProperty(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, after.MaintenanceJobs, 1)

	job := after.MaintenanceJobs[0]
	assert.Equal(t, models.JobTypePPM, job.JobType)
	assert.Equal(t, models.JobStatusOpen, job.Status)
	require.NotNil(t, job.SLADueDate)
	assert.Equal(t, mustDate(2025, time.May, 14), *job.SLADueDate)
	require.NotNil(t, job.LinkedComplianceID)
	assert.Equal(t, after.ComplianceItems[0].ID, *job.LinkedComplianceID)

	require.Len(t, job.ActivityLog, 1)
	assert.Equal(t, "system", job.ActivityLog[0].Actor)
	assert.Equal(t, "Job auto-created from PPM schedule 'Annual Gas Safety'", job.ActivityLog[0].Action)
}

func TestResolverQuietOutsideLeadWindow(t *testing.T) {
	store, _, _, resolver, _ := newTestEngine()
	p := newGasProperty(t, store, "North")
	newGasSchedule(t, store)

	now := mustDate(2025, time.April, 10)
	result := resolver.RunResolutionPass(context.Background(), now)

	assert.Zero(t, result.Created)
	after, err := store.GetProperty(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Empty(t, after.MaintenanceJobs)
}

func TestResolverIsIdempotent(t *testing.T) {
	store, _, _, resolver, _ := newTestEngine()
	p := newGasProperty(t, store, "North")
	newGasSchedule(t, store)

	now := mustDate(2025, time.April, 20)
	first := resolver.RunResolutionPass(context.Background(), now)
	require.Equal(t, 1, first.Created)

	second := resolver.RunResolutionPass(context.Background(), now.Add(time.Hour))
	assert.Zero(t, second.Created)
	assert.Empty(t, second.Errors)

	after, err := store.GetProperty(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Len(t, after.MaintenanceJobs, 1)
}

func TestResolverHonoursRegionScope(t *testing.T) {
	store, _, _, resolver, _ := newTestEngine()
	north := newGasProperty(t, store, "North")
	midlands := newGasProperty(t, store, "Midlands")

	sch := &models.PpmSchedule{
		ID:              uuid.New(),
		Name:            "Northern Gas",
		ComplianceType:  models.ComplianceGasSafety,
		FrequencyMonths: 12,
		LeadTimeDays:    30,
		Scope:           models.ScheduleScope{Type: models.ScopeRegion, Region: "North"},
	}
	require.NoError(t, store.CreateSchedule(context.Background(), sch))

	now := mustDate(2025, time.April, 20)
	result := resolver.RunResolutionPass(context.Background(), now)
	require.Equal(t, 1, result.Created)

	afterNorth, err := store.GetProperty(context.Background(), north.ID)
	require.NoError(t, err)
	assert.Len(t, afterNorth.MaintenanceJobs, 1)

	afterMidlands, err := store.GetProperty(context.Background(), midlands.ID)
	require.NoError(t, err)
	assert.Empty(t, afterMidlands.MaintenanceJobs)
}

func TestResolverCreatesPlaceholderForMissingItem(t *testing.T) {
	store, _, _, resolver, _ := newTestEngine()

	p := &models.Property{
		ID:          uuid.New(),
		Name:        "Bare House",
		Region:      "North",
		ServiceType: models.ServiceGeneralNeeds,
	}
	require.NoError(t, store.CreateProperty(context.Background(), p))
	newGasSchedule(t, store)

	now := mustDate(2025, time.April, 20)
	result := resolver.RunResolutionPass(context.Background(), now)
	require.Equal(t, 1, result.Created)

	after, err := store.GetProperty(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, after.ComplianceItems, 1)
	item := after.ComplianceItems[0]
	assert.Equal(t, models.ComplianceGasSafety, item.Type)
	assert.Nil(t, item.LastCheck)

	require.Len(t, after.MaintenanceJobs, 1)
	require.NotNil(t, after.MaintenanceJobs[0].LinkedComplianceID)
	assert.Equal(t, item.ID, *after.MaintenanceJobs[0].LinkedComplianceID)
}

func TestResolverCollectsBadScheduleErrors(t *testing.T) {
	store, _, _, resolver, _ := newTestEngine()
	newGasProperty(t, store, "North")
	newGasSchedule(t, store)

	bad := &models.PpmSchedule{
		ID:              uuid.New(),
		Name:            "Broken EICR",
		ComplianceType:  models.ComplianceEICR,
		FrequencyMonths: 0,
		Scope:           models.ScheduleScope{Type: models.ScopeAllProperties},
	}
	require.NoError(t, store.CreateSchedule(context.Background(), bad))

	now := mustDate(2025, time.April, 20)
	result := resolver.RunResolutionPass(context.Background(), now)

	// The broken schedule is reported but never halts the good one.
	assert.Equal(t, 1, result.Created)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, bad.ID, result.Errors[0].ScheduleID)
}

func TestResolverReportsMalformedScope(t *testing.T) {
	store, _, _, resolver, _ := newTestEngine()
	newGasProperty(t, store, "North")
	newGasSchedule(t, store)

	bad := &models.PpmSchedule{
		ID:              uuid.New(),
		Name:            "Mis-scoped FRA",
		ComplianceType:  models.ComplianceFireRiskAssessment,
		FrequencyMonths: 12,
		Scope:           models.ScheduleScope{Type: "BOGUS"},
	}
	require.NoError(t, store.CreateSchedule(context.Background(), bad))

	now := mustDate(2025, time.April, 20)
	result := resolver.RunResolutionPass(context.Background(), now)

	// The unscopeable schedule is reported, not silently skipped, and the
	// good schedule still raises its job.
	assert.Equal(t, 1, result.Created)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, bad.ID, result.Errors[0].ScheduleID)
	assert.Contains(t, result.Errors[0].Reason, "unknown scope type")
}

func TestResolverSkipsHolidaysWhenAsked(t *testing.T) {
	store, _, _, resolver, _ := newTestEngine()

	p := &models.Property{
		ID:          uuid.New(),
		Name:        "Holiday House",
		Region:      "North",
		ServiceType: models.ServiceGeneralNeeds,
	}
	// Next check lands on Christmas Day.
	p.ComplianceItems = []*models.ComplianceItem{{
		ID:         uuid.New(),
		PropertyID: p.ID,
		Type:       models.ComplianceGasSafety,
		LastCheck:  datePtr(2024, time.December, 25),
		NextCheck:  datePtr(2025, time.December, 25),
	}}
	require.NoError(t, store.CreateProperty(context.Background(), p))

	sch := &models.PpmSchedule{
		ID:              uuid.New(),
		Name:            "Gas with business days",
		ComplianceType:  models.ComplianceGasSafety,
		FrequencyMonths: 12,
		LeadTimeDays:    30,
		Scope:           models.ScheduleScope{Type: models.ScopeAllProperties},
		SkipHolidays:    true,
	}
	require.NoError(t, store.CreateSchedule(context.Background(), sch))

	now := mustDate(2025, time.December, 1)
	result := resolver.RunResolutionPass(context.Background(), now)
	require.Equal(t, 1, result.Created)

	after, err := store.GetProperty(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, after.MaintenanceJobs, 1)
	require.NotNil(t, after.MaintenanceJobs[0].SLADueDate)

	got := *after.MaintenanceJobs[0].SLADueDate
	assert.True(t, got.After(mustDate(2025, time.December, 25)),
		"SLA due date should roll past the bank holiday, got %s", got)
	assert.NotEqual(t, time.Saturday, got.Weekday())
	assert.NotEqual(t, time.Sunday, got.Weekday())
}
