package services

import (
	"time"

	"github.com/propworks/compliance-service/internal/constants"
	"github.com/propworks/compliance-service/internal/models"
)

// EvaluateStatus derives a compliance status purely from the item's dates
// and an injected clock. No side effects, no I/O; callers that have no item
// at all for a required type report N/A themselves (absent items are
// excluded from compliance-rate denominators).
//
//	NextCheck unset        → ACTION_REQUIRED (obligation exists, nothing booked)
//	NextCheck < now        → EXPIRED
//	NextCheck ≤ now+window → DUE_SOON
//	otherwise              → COMPLIANT
func EvaluateStatus(item *models.ComplianceItem, now time.Time, dueSoonWindowDays int) models.ComplianceStatus {
	if item == nil {
		return models.StatusNA
	}
	if item.NextCheck == nil {
		return models.StatusActionRequired
	}
	next := *item.NextCheck
	if next.Before(now) {
		return models.StatusExpired
	}
	if !next.After(now.AddDate(0, 0, dueSoonWindowDays)) {
		return models.StatusDueSoon
	}
	return models.StatusCompliant
}

// EvaluateStatusDefault applies the standard 30-day due-soon window.
func EvaluateStatusDefault(item *models.ComplianceItem, now time.Time) models.ComplianceStatus {
	return EvaluateStatus(item, now, constants.DueSoonWindowDays)
}
