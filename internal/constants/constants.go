package constants

import (
	"time"
)

// Compliance evaluation
const (
	// DueSoonWindowDays is how far ahead of NextCheck an item starts
	// reporting DUE_SOON.
	DueSoonWindowDays = 30

	// DefaultFrequencyMonths is used by the completion cascade when no
	// PPM schedule governs the item's compliance type.
	DefaultFrequencyMonths = 12
)

// Resolver
const (
	// ResolverCronSpec drives the scheduled resolution pass.
	ResolverCronSpec = "@hourly"

	// MaxResolutionErrorsLogged caps per-pass error log noise.
	MaxResolutionErrorsLogged = 25
)

// Escalation sweep
const (
	EscalationCronSpec = "@every 6h"

	// SLAGraceBeforeEscalation is how long past the SLA due date a job may
	// sit before the on-call contacts are notified.
	SLAGraceBeforeEscalation = 24 * time.Hour
)

// Persistence
const (
	SnapshotSaveCronSpec = "@every 5m"
)

// Job references
const (
	JobRefPrefix = "MJ"
)
