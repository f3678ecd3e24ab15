package services

import (
	"strings"
	"time"

	"github.com/propworks/compliance-service/internal/models"
	"github.com/propworks/compliance-service/internal/repositories"
)

/*──────────────────────────────────────────────────────────────────────────────
  Result shapes
──────────────────────────────────────────────────────────────────────────────*/

// PropertyGroup is one bucket of a grouped report, in discovery order.
type PropertyGroup struct {
	Key        string             `json:"key"`
	Properties []*models.Property `json:"properties"`
}

// ComplianceSummaryResult is the portfolio-wide KPI bundle.
type ComplianceSummaryResult struct {
	TotalItems     int `json:"total_items"`
	Compliant      int `json:"compliant"`
	DueSoon        int `json:"due_soon"`
	ActionRequired int `json:"action_required"`
	Expired        int `json:"expired"`

	// RatePercent counts DUE_SOON toward the compliant side: an item inside
	// its due-soon window still holds a valid certificate.
	RatePercent float64 `json:"rate_percent"`
}

// WindowKind selects the reporting window for WindowStats.
type WindowKind string

const (
	WindowWeek    WindowKind = "WEEK"
	WindowMonth   WindowKind = "MONTH"
	WindowQuarter WindowKind = "QUARTER"
	WindowYear    WindowKind = "YEAR"
)

// WindowStatsResult is the activity bundle for one reporting window.
type WindowStatsResult struct {
	Kind        WindowKind `json:"kind"`
	WindowStart time.Time  `json:"window_start"`

	NewHandovers      int `json:"new_handovers"`
	NewHandbacks      int `json:"new_handbacks"`
	UnitsInManagement int `json:"units_in_management"`
	VoidsOpened       int `json:"voids_opened"`
	VoidsFilled       int `json:"voids_filled"`

	OccupancyRatePercent float64 `json:"occupancy_rate_percent"`
}

/*──────────────────────────────────────────────────────────────────────────────
  ReportingService
──────────────────────────────────────────────────────────────────────────────*/

// ReportingService answers portfolio queries against an immutable snapshot.
// Every method is a pure function of (snapshot, arguments): no locks, no
// store access, no mutation of the snapshot it is handed.
type ReportingService struct{}

func NewReportingService() *ReportingService {
	return &ReportingService{}
}

// FilterProperties returns the snapshot's properties matching every populated
// predicate of the filter. A zero filter returns everything.
func (s *ReportingService) FilterProperties(
	snap *repositories.Snapshot,
	filter models.PropertyFilter,
	now time.Time,
) []*models.Property {
	out := make([]*models.Property, 0, len(snap.Properties))
	for _, p := range snap.Properties {
		if s.matches(p, filter, now) {
			out = append(out, p)
		}
	}
	return out
}

func (s *ReportingService) matches(p *models.Property, f models.PropertyFilter, now time.Time) bool {
	if len(f.ServiceTypes) > 0 && !containsServiceType(f.ServiceTypes, p.ServiceType) {
		return false
	}
	if len(f.Regions) > 0 && !containsFold(f.Regions, p.Region) {
		return false
	}
	if f.Provider != "" && !strings.EqualFold(f.Provider, p.RegisteredProvider) {
		return false
	}
	if len(f.UnitStatuses) > 0 {
		found := false
		for _, u := range p.Units {
			for _, st := range f.UnitStatuses {
				if u.Status == st {
					found = true
				}
			}
		}
		if !found {
			return false
		}
	}
	if f.AttentionOnly && !needsAttention(p, now) {
		return false
	}
	if f.FreeText != "" {
		q := strings.ToLower(f.FreeText)
		hay := strings.ToLower(p.ID.String() + " " + p.Name + " " + p.Address + " " + p.RegisteredProvider)
		if !strings.Contains(hay, q) {
			return false
		}
	}
	return true
}

// needsAttention reports whether the property has an expired or
// action-required compliance item, or an open job past its SLA due date.
func needsAttention(p *models.Property, now time.Time) bool {
	for _, item := range p.ComplianceItems {
		if item.Superseded {
			continue
		}
		switch EvaluateStatusDefault(item, now) {
		case models.StatusExpired, models.StatusActionRequired:
			return true
		}
	}
	for _, j := range p.MaintenanceJobs {
		if models.IsTerminalJobStatus(j.Status) {
			continue
		}
		if j.SLADueDate != nil && j.SLADueDate.Before(now) {
			return true
		}
	}
	return false
}

// GroupProperties filters then partitions by the group field. Group order is
// discovery order over the (name-sorted) snapshot; properties keep that order
// inside each group.
func (s *ReportingService) GroupProperties(
	snap *repositories.Snapshot,
	filter models.PropertyFilter,
	field models.GroupField,
	now time.Time,
) []*PropertyGroup {
	matched := s.FilterProperties(snap, filter, now)

	var groups []*PropertyGroup
	index := make(map[string]*PropertyGroup)
	for _, p := range matched {
		key := groupKey(p, field, now)
		g, ok := index[key]
		if !ok {
			g = &PropertyGroup{Key: key}
			index[key] = g
			groups = append(groups, g)
		}
		g.Properties = append(g.Properties, p)
	}
	return groups
}

func groupKey(p *models.Property, field models.GroupField, now time.Time) string {
	switch field {
	case models.GroupByRegion:
		return p.Region
	case models.GroupByServiceType:
		return string(p.ServiceType)
	case models.GroupByProvider:
		return p.RegisteredProvider
	case models.GroupByLegalEntity:
		return p.LegalEntity
	case models.GroupByStatus:
		return string(worstComplianceStatus(p, now))
	default:
		return ""
	}
}

var statusSeverity = map[models.ComplianceStatus]int{
	models.StatusExpired:        4,
	models.StatusActionRequired: 3,
	models.StatusDueSoon:        2,
	models.StatusCompliant:      1,
	models.StatusNA:             0,
}

func worstComplianceStatus(p *models.Property, now time.Time) models.ComplianceStatus {
	worst := models.StatusNA
	for _, item := range p.ComplianceItems {
		if item.Superseded {
			continue
		}
		st := EvaluateStatusDefault(item, now)
		if statusSeverity[st] > statusSeverity[worst] {
			worst = st
		}
	}
	return worst
}

// ComplianceSummary re-evaluates every live item at `now` and buckets the
// results. Items that have never been created (a property simply lacking a
// type) do not enter the denominator.
func (s *ReportingService) ComplianceSummary(
	snap *repositories.Snapshot,
	now time.Time,
) *ComplianceSummaryResult {
	res := &ComplianceSummaryResult{}
	for _, p := range snap.Properties {
		for _, item := range p.ComplianceItems {
			if item.Superseded {
				continue
			}
			res.TotalItems++
			switch EvaluateStatusDefault(item, now) {
			case models.StatusCompliant:
				res.Compliant++
			case models.StatusDueSoon:
				res.DueSoon++
			case models.StatusActionRequired:
				res.ActionRequired++
			case models.StatusExpired:
				res.Expired++
			}
		}
	}
	if res.TotalItems > 0 {
		res.RatePercent = 100 * float64(res.Compliant+res.DueSoon) / float64(res.TotalItems)
	}
	return res
}

// WindowStart returns the inclusive start of the reporting window containing
// `now`: the most recent Sunday, the 1st of the month, the first day of the
// quarter, or January 1st.
func WindowStart(now time.Time, kind WindowKind) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch kind {
	case WindowWeek:
		return day.AddDate(0, 0, -int(day.Weekday()))
	case WindowMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	case WindowQuarter:
		qStart := time.Month(((int(now.Month())-1)/3)*3 + 1)
		return time.Date(now.Year(), qStart, 1, 0, 0, 0, 0, time.UTC)
	case WindowYear:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return day
	}
}

// WindowStats computes occupancy and handover activity for the window
// containing `now`. All "new" counts use half-open [windowStart, now].
func (s *ReportingService) WindowStats(
	snap *repositories.Snapshot,
	now time.Time,
	kind WindowKind,
) *WindowStatsResult {
	start := WindowStart(now, kind)
	res := &WindowStatsResult{Kind: kind, WindowStart: start}

	inWindow := func(t *time.Time) bool {
		return t != nil && !t.Before(start) && !t.After(now)
	}

	occupied := 0
	for _, p := range snap.Properties {
		if inWindow(p.HandoverDate) {
			res.NewHandovers++
		}
		if inWindow(p.HandbackDate) {
			res.NewHandbacks++
		}
		for _, u := range p.Units {
			if !u.InManagement() {
				continue
			}
			res.UnitsInManagement++
			if u.Status == models.UnitStatusOccupied {
				occupied++
			}
			if u.Status == models.UnitStatusVoid && inWindow(u.MoveOutAt) {
				res.VoidsOpened++
			}
			if u.Status == models.UnitStatusOccupied && inWindow(u.MoveInAt) {
				res.VoidsFilled++
			}
		}
	}
	if res.UnitsInManagement > 0 {
		res.OccupancyRatePercent = 100 * float64(occupied) / float64(res.UnitsInManagement)
	}
	return res
}

func containsServiceType(list []models.ServiceType, v models.ServiceType) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func containsFold(list []string, v string) bool {
	for _, x := range list {
		if strings.EqualFold(x, v) {
			return true
		}
	}
	return false
}
