package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error categories. Every typed error below unwraps to exactly one of them so
// callers can branch with errors.Is and still read the context with errors.As.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrState      = errors.New("illegal state transition")
	ErrForbidden  = errors.New("forbidden")
)

// ValidationError reports malformed input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError is a shorthand for &ValidationError{...}.
func NewValidationError(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a missing plan, week, assignment, template or tournament.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.Key)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ConflictError reports a pre-existing record that blocks the operation.
type ConflictError struct {
	Entity string
	Key    string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Entity, e.Key, e.Reason)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// StateError reports an illegal review workflow transition.
type StateError struct {
	From PlanStatus
	To   PlanStatus
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot move plan from %s to %s", e.From, e.To)
}

func (e *StateError) Unwrap() error { return ErrState }

// ForbiddenError reports an actor touching a plan it does not own.
type ForbiddenError struct {
	Actor  Actor
	Action string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("%s may not %s", e.Actor, e.Action)
}

func (e *ForbiddenError) Unwrap() error { return ErrForbidden }

// OverlapError names two periods whose date ranges collide.
type OverlapError struct {
	First  Period
	Second Period
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("period %q (ends %s) overlaps period %q (starts %s)",
		e.First.Name, e.First.EndDate.Format(DateLayout),
		e.Second.Name, e.Second.StartDate.Format(DateLayout))
}

func (e *OverlapError) Unwrap() error { return ErrValidation }

// InvalidRangeError reports a period whose end is not after its start.
type InvalidRangeError struct {
	Period Period
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("period %q: end date %s must be after start date %s",
		e.Period.Name, e.Period.EndDate.Format(DateLayout), e.Period.StartDate.Format(DateLayout))
}

func (e *InvalidRangeError) Unwrap() error { return ErrValidation }

// InvalidFrequencyError reports a weekly frequency outside [1,7].
type InvalidFrequencyError struct {
	Period Period
}

func (e *InvalidFrequencyError) Error() string {
	return fmt.Sprintf("period %q: weekly frequency %d outside [1,7]", e.Period.Name, e.Period.WeeklyFrequency)
}

func (e *InvalidFrequencyError) Unwrap() error { return ErrValidation }

// InvalidSelectorError reports a bulk selector that names neither a week nor a
// date range, or both.
type InvalidSelectorError struct {
	Reason string
}

func (e *InvalidSelectorError) Error() string {
	return "invalid selector: " + e.Reason
}

func (e *InvalidSelectorError) Unwrap() error { return ErrValidation }

// PeriodErrors collects every defect found in a period set.
type PeriodErrors []error

func (e PeriodErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

func (e PeriodErrors) Unwrap() []error { return e }

// PlanValidationError carries every issue found by the plan validator.
type PlanValidationError struct {
	Issues []string
}

func (e *PlanValidationError) Error() string {
	return "plan is not ready for review: " + strings.Join(e.Issues, "; ")
}

func (e *PlanValidationError) Unwrap() error { return ErrValidation }
