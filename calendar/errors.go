/*
errors.go - Centralized error types for the calendar engine

ERROR CATEGORIES:
  1. Validation - malformed input, rejected before any lookup
  2. Conflict   - date-level exclusions (weekend, leave, training, capacity)
  3. Ownership  - the caller does not own the entity
  4. Not found  - the entity id does not exist

All of them are returned values. Nothing in this package panics on bad input.

USAGE:
  if errors.Is(err, calendar.ErrConflict) {
      var c *calendar.ConflictError
      errors.As(err, &c) // c.Reason == calendar.ReasonWeekend ...
  }
*/
package calendar

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("date conflict")
	ErrNotOwner   = errors.New("not owner")
	ErrNotFound   = errors.New("not found")

	// ErrInvalidPeriod is returned when a period ends before it starts.
	ErrInvalidPeriod = fmt.Errorf("%w: invalid period: end before start", ErrValidation)
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports a missing or malformed field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ConflictReason tags why a date refused an operation.
type ConflictReason string

const (
	ReasonWeekend      ConflictReason = "weekend"
	ReasonTraining     ConflictReason = "training"
	ReasonFullLeave    ConflictReason = "full_leave"
	ReasonNoCapacity   ConflictReason = "no_capacity"
	ReasonOverCapacity ConflictReason = "over_capacity"
	ReasonError        ConflictReason = "error"
)

// ConflictError is raised by the conflict resolver and the capacity checks.
type ConflictError struct {
	Date   Date
	Reason ConflictReason
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s: %s", e.Date, e.Reason)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// OwnershipError never says who the real owner is.
type OwnershipError struct {
	ID string
}

func (e *OwnershipError) Error() string { return fmt.Sprintf("not owner of %s", e.ID) }

func (e *OwnershipError) Unwrap() error { return ErrNotOwner }

// NotFoundError reports a missing entity.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %s not found", e.Resource, e.ID) }

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to the caller's input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrNotOwner)
}

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

// reasonOf extracts the conflict reason, falling back to ReasonError.
func reasonOf(err error) ConflictReason {
	var c *ConflictError
	if errors.As(err, &c) {
		return c.Reason
	}
	return ReasonError
}
