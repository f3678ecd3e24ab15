package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propworks/compliance-service/internal/models"
	"github.com/propworks/compliance-service/internal/repositories"
)

func seedPortfolio(t *testing.T) *repositories.Store {
	t.Helper()
	store := repositories.NewStore()

	mk := func(name, region, provider string, st models.ServiceType, next *time.Time, units ...*models.Unit) {
		p := &models.Property{
			ID:                 uuid.New(),
			Name:               name,
			Address:            name + " Street",
			Region:             region,
			ServiceType:        st,
			RegisteredProvider: provider,
			Units:              units,
		}
		p.ComplianceItems = []*models.ComplianceItem{{
			ID:         uuid.New(),
			PropertyID: p.ID,
			Type:       models.ComplianceGasSafety,
			NextCheck:  next,
		}}
		require.NoError(t, store.CreateProperty(context.Background(), p))
	}

	occupied := func(moveIn *time.Time) *models.Unit {
		return &models.Unit{ID: uuid.New(), UnitNumber: "A", Status: models.UnitStatusOccupied, MoveInAt: moveIn}
	}
	void := func(moveOut *time.Time) *models.Unit {
		return &models.Unit{ID: uuid.New(), UnitNumber: "B", Status: models.UnitStatusVoid, MoveOutAt: moveOut}
	}

	// Alpha: compliant, one unit moved in this month, one current void.
	mk("Alpha House", "North", "Midland Heart", models.ServiceSupportedLiving,
		datePtr(2026, time.January, 1),
		occupied(datePtr(2025, time.June, 10)), void(datePtr(2025, time.June, 3)))

	// Beta: due soon, move-in before the month window.
	mk("Beta Court", "North", "Together Housing", models.ServiceGeneralNeeds,
		datePtr(2025, time.July, 1),
		occupied(datePtr(2025, time.May, 20)))

	// Gamma: expired gas safety, no units in management.
	mk("Gamma View", "Midlands", "Midland Heart", models.ServiceGeneralNeeds,
		datePtr(2025, time.June, 1),
		&models.Unit{ID: uuid.New(), UnitNumber: "A", Status: models.UnitStatusOutOfManagement})

	return store
}

func TestFilterProperties(t *testing.T) {
	store := seedPortfolio(t)
	snap := store.Snapshot()
	reporting := NewReportingService()
	now := mustDate(2025, time.June, 15)

	t.Run("zero filter matches all", func(t *testing.T) {
		got := reporting.FilterProperties(snap, models.PropertyFilter{}, now)
		assert.Len(t, got, 3)
	})

	t.Run("region filter", func(t *testing.T) {
		got := reporting.FilterProperties(snap, models.PropertyFilter{Regions: []string{"North"}}, now)
		assert.Len(t, got, 2)
	})

	t.Run("predicates AND together", func(t *testing.T) {
		got := reporting.FilterProperties(snap, models.PropertyFilter{
			Regions:  []string{"North"},
			Provider: "Midland Heart",
		}, now)
		require.Len(t, got, 1)
		assert.Equal(t, "Alpha House", got[0].Name)
	})

	t.Run("attention only finds the expired item", func(t *testing.T) {
		got := reporting.FilterProperties(snap, models.PropertyFilter{AttentionOnly: true}, now)
		require.Len(t, got, 1)
		assert.Equal(t, "Gamma View", got[0].Name)
	})

	t.Run("free text is case-insensitive", func(t *testing.T) {
		got := reporting.FilterProperties(snap, models.PropertyFilter{FreeText: "beta"}, now)
		require.Len(t, got, 1)
		assert.Equal(t, "Beta Court", got[0].Name)
	})

	t.Run("unit status filter", func(t *testing.T) {
		got := reporting.FilterProperties(snap, models.PropertyFilter{
			UnitStatuses: []models.UnitStatusType{models.UnitStatusVoid},
		}, now)
		require.Len(t, got, 1)
		assert.Equal(t, "Alpha House", got[0].Name)
	})
}

func TestGroupProperties(t *testing.T) {
	store := seedPortfolio(t)
	snap := store.Snapshot()
	reporting := NewReportingService()
	now := mustDate(2025, time.June, 15)

	groups := reporting.GroupProperties(snap, models.PropertyFilter{}, models.GroupByRegion, now)
	require.Len(t, groups, 2)

	// Snapshot is name-sorted, so Alpha's region is discovered first.
	assert.Equal(t, "North", groups[0].Key)
	assert.Len(t, groups[0].Properties, 2)
	assert.Equal(t, "Midlands", groups[1].Key)
	assert.Len(t, groups[1].Properties, 1)
}

func TestGroupPropertiesByWorstStatus(t *testing.T) {
	store := seedPortfolio(t)
	snap := store.Snapshot()
	reporting := NewReportingService()
	now := mustDate(2025, time.June, 15)

	groups := reporting.GroupProperties(snap, models.PropertyFilter{}, models.GroupByStatus, now)
	require.Len(t, groups, 3)

	keys := map[string]int{}
	for _, g := range groups {
		keys[g.Key] = len(g.Properties)
	}
	assert.Equal(t, 1, keys[string(models.StatusCompliant)])
	assert.Equal(t, 1, keys[string(models.StatusDueSoon)])
	assert.Equal(t, 1, keys[string(models.StatusExpired)])
}

func TestComplianceSummaryCountsDueSoonAsOnTrack(t *testing.T) {
	store := seedPortfolio(t)
	snap := store.Snapshot()
	reporting := NewReportingService()

	summary := reporting.ComplianceSummary(snap, mustDate(2025, time.June, 15))
	assert.Equal(t, 3, summary.TotalItems)
	assert.Equal(t, 1, summary.Compliant)
	assert.Equal(t, 1, summary.DueSoon)
	assert.Equal(t, 1, summary.Expired)
	assert.InDelta(t, 66.67, summary.RatePercent, 0.01)
}

func TestWindowStart(t *testing.T) {
	now := mustDate(2025, time.June, 15) // a Sunday

	assert.Equal(t, mustDate(2025, time.June, 15), WindowStart(now, WindowWeek))
	assert.Equal(t, mustDate(2025, time.June, 1), WindowStart(now, WindowMonth))
	assert.Equal(t, mustDate(2025, time.April, 1), WindowStart(now, WindowQuarter))
	assert.Equal(t, mustDate(2025, time.January, 1), WindowStart(now, WindowYear))

	// A mid-week day rolls back to the previous Sunday.
	wed := mustDate(2025, time.June, 18)
	assert.Equal(t, mustDate(2025, time.June, 15), WindowStart(wed, WindowWeek))
}

func TestWindowStatsMonth(t *testing.T) {
	store := seedPortfolio(t)
	snap := store.Snapshot()
	reporting := NewReportingService()

	stats := reporting.WindowStats(snap, mustDate(2025, time.June, 15), WindowMonth)
	assert.Equal(t, mustDate(2025, time.June, 1), stats.WindowStart)

	// Alpha's 2025-06-10 move-in counts; Beta's 2025-05-20 does not.
	assert.Equal(t, 1, stats.VoidsFilled)
	assert.Equal(t, 1, stats.VoidsOpened)

	// Gamma's out-of-management unit is excluded from the denominator.
	assert.Equal(t, 3, stats.UnitsInManagement)
	assert.InDelta(t, 66.67, stats.OccupancyRatePercent, 0.01)
}
