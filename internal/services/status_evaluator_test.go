package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/propworks/compliance-service/internal/models"
)

func TestEvaluateStatus(t *testing.T) {
	now := mustDate(2025, time.June, 1)

	t.Run("nil item is N/A", func(t *testing.T) {
		assert.Equal(t, models.StatusNA, EvaluateStatusDefault(nil, now))
	})

	t.Run("no next check means action required", func(t *testing.T) {
		item := &models.ComplianceItem{Type: models.ComplianceGasSafety}
		assert.Equal(t, models.StatusActionRequired, EvaluateStatusDefault(item, now))
	})

	t.Run("past next check is expired", func(t *testing.T) {
		item := &models.ComplianceItem{NextCheck: datePtr(2025, time.May, 31)}
		assert.Equal(t, models.StatusExpired, EvaluateStatusDefault(item, now))
	})

	t.Run("inside 30-day window is due soon", func(t *testing.T) {
		item := &models.ComplianceItem{NextCheck: datePtr(2025, time.June, 15)}
		assert.Equal(t, models.StatusDueSoon, EvaluateStatusDefault(item, now))
	})

	t.Run("exactly on the window edge is due soon", func(t *testing.T) {
		item := &models.ComplianceItem{NextCheck: datePtr(2025, time.July, 1)}
		assert.Equal(t, models.StatusDueSoon, EvaluateStatusDefault(item, now))
	})

	t.Run("beyond the window is compliant", func(t *testing.T) {
		item := &models.ComplianceItem{NextCheck: datePtr(2025, time.July, 2)}
		assert.Equal(t, models.StatusCompliant, EvaluateStatusDefault(item, now))
	})

	t.Run("custom window widths are honoured", func(t *testing.T) {
		item := &models.ComplianceItem{NextCheck: datePtr(2025, time.July, 2)}
		assert.Equal(t, models.StatusDueSoon, EvaluateStatus(item, now, 60))
	})
}
