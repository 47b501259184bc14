// Package errors holds the error kinds shared by every layer.
// Services wrap these with module-specific sentinels; handlers map kinds to HTTP statuses.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidState      = errors.New("invalid state")
	ErrSlotFull          = errors.New("slot is full")
	ErrAlreadyAssigned   = errors.New("submission already assigned to a slot")
	ErrNotAssigned       = errors.New("submission is not assigned to this slot")
	ErrValidation        = errors.New("validation failed")
	ErrConflict          = errors.New("conflict")
	ErrReferenced        = errors.New("entity is still referenced")

	// ErrOptimisticLock the row was modified by another request since it was read.
	ErrOptimisticLock = errors.New("record was modified by another request, reload and retry")
)

// Kind wraps a kind sentinel with a specific message, so errors.Is matches the kind.
func Kind(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// TransitionError carries the current state of an entity that refused a status change.
type TransitionError struct {
	From   string
	To     string
	Reason string
}

func (e *TransitionError) Error() string {
	msg := fmt.Sprintf("cannot transition from %q to %q", e.From, e.To)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// ValidationError carries field-level problems keyed by field name.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns an empty ValidationError ready for Add.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records a problem for field; the first message per field wins.
func (e *ValidationError) Add(field, msg string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// OrNil returns nil when no field was added.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// SlotFullError names the slot that had no free seat.
type SlotFullError struct {
	SlotID   string
	Capacity int
}

func (e *SlotFullError) Error() string {
	return fmt.Sprintf("slot %s is full (capacity %d)", e.SlotID, e.Capacity)
}

func (e *SlotFullError) Unwrap() error { return ErrSlotFull }
