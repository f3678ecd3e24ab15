package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/propworks/compliance-service/internal/events"
	"github.com/propworks/compliance-service/internal/models"
	"github.com/propworks/compliance-service/internal/repositories"
)

func mustDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := mustDate(y, m, d)
	return &t
}

// newGasProperty builds a property in the given region carrying one live
// GAS_SAFETY item with lastCheck 2024-05-15 / nextCheck 2025-05-14.
func newGasProperty(t *testing.T, store *repositories.Store, region string) *models.Property {
	t.Helper()

	p := &models.Property{
		ID:                 uuid.New(),
		Name:               "Test House " + region,
		Address:            "1 Test Street",
		Region:             region,
		ServiceType:        models.ServiceGeneralNeeds,
		RegisteredProvider: "Test Provider",
	}
	p.ComplianceItems = []*models.ComplianceItem{{
		ID:         uuid.New(),
		PropertyID: p.ID,
		Type:       models.ComplianceGasSafety,
		LastCheck:  datePtr(2024, time.May, 15),
		NextCheck:  datePtr(2025, time.May, 14),
	}}

	require.NoError(t, store.CreateProperty(context.Background(), p))
	return p
}

// newGasSchedule registers an all-properties gas schedule with 12-month
// frequency and a 30-day lead time.
func newGasSchedule(t *testing.T, store *repositories.Store) *models.PpmSchedule {
	t.Helper()

	sch := &models.PpmSchedule{
		ID:              uuid.New(),
		Name:            "Annual Gas Safety",
		ComplianceType:  models.ComplianceGasSafety,
		FrequencyMonths: 12,
		LeadTimeDays:    30,
		Scope:           models.ScheduleScope{Type: models.ScopeAllProperties},
	}
	require.NoError(t, store.CreateSchedule(context.Background(), sch))
	return sch
}

func newTestEngine() (*repositories.Store, *events.Bus, *JobLifecycleService, *PpmResolverService, *CompletionCascadeService) {
	store := repositories.NewStore()
	bus := events.NewBus()
	lifecycle := NewJobLifecycleService(store, bus)
	resolver := NewPpmResolverService(store, lifecycle, bus)
	cascade := NewCompletionCascadeService(store, bus)
	return store, bus, lifecycle, resolver, cascade
}
