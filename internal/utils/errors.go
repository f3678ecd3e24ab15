package utils

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

/*
   Sentinel errors for the obligation engine.
   Controllers can do: if errors.Is(err, ErrXYZ) { ... }
*/
var (
	ErrNotFound               = errors.New("not_found")
	ErrInvalidStateTransition = errors.New("invalid_state_transition")
	ErrLinkIntegrity          = errors.New("link_integrity_error")
	ErrDuplicateJob           = errors.New("duplicate_job")
	ErrAssigneeRequired       = errors.New("assignee_required")

	// A job linked to a compliance item may only reach COMPLETED through
	// the completion cascade, never via a bare transition.
	ErrCascadeRequired = errors.New("cascade_required")
)

/*
   ResolutionError records one (schedule, property) pairing the resolver could
   not evaluate. These are collected and skipped so a single malformed record
   never halts a full resolution pass.
*/
type ResolutionError struct {
	ScheduleID uuid.UUID
	PropertyID uuid.UUID
	Reason     string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolution_error schedule=%s property=%s: %s",
		e.ScheduleID, e.PropertyID, e.Reason)
}
