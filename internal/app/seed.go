package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/propworks/compliance-service/internal/models"
	"github.com/propworks/compliance-service/internal/utils"
)

// SeedDemoData loads a small portfolio so a fresh instance has something to
// show. Only invoked when SEED_DEMO_DATA is set and no snapshot was restored.
func (a *App) SeedDemoData(ctx context.Context) error {
	now := time.Now().UTC()
	date := func(y int, m time.Month, d int) *time.Time {
		t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &t
	}

	properties := []*models.Property{
		{
			ID:                 uuid.New(),
			Name:               "Harborne House",
			Address:            "14 Lordswood Road, Birmingham",
			Region:             "West Midlands",
			ServiceType:        models.ServiceSupportedLiving,
			LegalEntity:        "PropWorks Housing Ltd",
			RegisteredProvider: "Midland Heart",
			HandoverDate:       date(2023, time.March, 1),
		},
		{
			ID:                 uuid.New(),
			Name:               "Calder Court",
			Address:            "8 Mill Lane, Halifax",
			Region:             "Yorkshire",
			ServiceType:        models.ServiceGeneralNeeds,
			LegalEntity:        "PropWorks Housing Ltd",
			RegisteredProvider: "Together Housing",
			HandoverDate:       date(2022, time.September, 15),
		},
		{
			ID:                 uuid.New(),
			Name:               "Severn View",
			Address:            "22 Bridge Street, Shrewsbury",
			Region:             "West Midlands",
			ServiceType:        models.ServiceTemporaryAccom,
			LegalEntity:        "PropWorks TA Ltd",
			RegisteredProvider: "Midland Heart",
			HandoverDate:       date(2024, time.January, 10),
		},
	}

	unitStatuses := [][]models.UnitStatusType{
		{models.UnitStatusOccupied, models.UnitStatusOccupied, models.UnitStatusVoid},
		{models.UnitStatusOccupied, models.UnitStatusVoid, models.UnitStatusStaffSpace},
		{models.UnitStatusOccupied, models.UnitStatusOccupied},
	}
	itemDates := []struct {
		typ  models.ComplianceType
		last *time.Time
		next *time.Time
	}{
		{models.ComplianceGasSafety, date(now.Year()-1, now.Month(), 1), date(now.Year(), now.Month(), 1)},
		{models.ComplianceEICR, date(now.Year()-2, time.June, 1), date(now.Year()+3, time.June, 1)},
		{models.ComplianceFireRiskAssessment, nil, nil},
	}

	for i, p := range properties {
		for n, st := range unitStatuses[i] {
			u := &models.Unit{
				ID:         uuid.New(),
				PropertyID: p.ID,
				UnitNumber: string(rune('A' + n)),
				Status:     st,
				CreatedAt:  now,
			}
			if st == models.UnitStatusOccupied {
				u.MoveInAt = date(now.Year(), now.Month(), 5)
			}
			if st == models.UnitStatusVoid {
				u.MoveOutAt = date(now.Year(), now.Month(), 2)
			}
			p.Units = append(p.Units, u)
		}
		for _, it := range itemDates {
			p.ComplianceItems = append(p.ComplianceItems, &models.ComplianceItem{
				ID:         uuid.New(),
				PropertyID: p.ID,
				Type:       it.typ,
				LastCheck:  it.last,
				NextCheck:  it.next,
				CreatedAt:  now,
				UpdatedAt:  now,
			})
		}
		if err := a.Store.CreateProperty(ctx, p); err != nil {
			return err
		}
	}

	schedules := []*models.PpmSchedule{
		{
			ID:              uuid.New(),
			Name:            "Annual Gas Safety",
			ComplianceType:  models.ComplianceGasSafety,
			FrequencyMonths: 12,
			LeadTimeDays:    30,
			Scope:           models.ScheduleScope{Type: models.ScopeAllProperties},
			SkipHolidays:    true,
		},
		{
			ID:              uuid.New(),
			Name:            "Five-yearly EICR",
			ComplianceType:  models.ComplianceEICR,
			FrequencyMonths: 60,
			LeadTimeDays:    60,
			Scope:           models.ScheduleScope{Type: models.ScopeAllProperties},
		},
		{
			ID:              uuid.New(),
			Name:            "West Midlands FRA",
			ComplianceType:  models.ComplianceFireRiskAssessment,
			FrequencyMonths: 12,
			LeadTimeDays:    14,
			Scope:           models.ScheduleScope{Type: models.ScopeRegion, Region: "West Midlands"},
		},
	}
	for _, sch := range schedules {
		if err := a.Store.CreateSchedule(ctx, sch); err != nil {
			return err
		}
	}

	utils.Logger.Infof("Seeded %d demo properties and %d schedules", len(properties), len(schedules))
	return nil
}
