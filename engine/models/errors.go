package models

import (
	"errors"
	"fmt"
)

// ============================================================================
// SENTINELS
// ============================================================================

var (
	ErrUnrecognized     = errors.New("unrecognized request")
	ErrMalformed        = errors.New("malformed request")
	ErrNoJoinable       = errors.New("no joinable columns")
	ErrAmbiguousTopN    = errors.New("ambiguous top-n request")
	ErrMissingParameter = errors.New("missing template parameter")
	ErrUnresolvable     = errors.New("join unresolvable")
	ErrNotMatched       = errors.New("recognizer did not match")
	ErrUnknownTemplate  = errors.New("unknown template")
	ErrNoCatalog        = errors.New("no schema catalog configured")
	ErrNotAllowed       = errors.New("statement not allowed")
)

// ============================================================================
// REJECTION
// ============================================================================

// RejectReason is the user-facing reason a request was refused.
type RejectReason string

const (
	ReasonUnrecognized      RejectReason = "unrecognized"
	ReasonMalformed         RejectReason = "malformed"
	ReasonNoJoinableColumns RejectReason = "no_joinable_columns"
	ReasonAmbiguousTopN     RejectReason = "ambiguous_top_n"
)

// RejectedError is a terminal build outcome that needs new input from the caller.
type RejectedError struct {
	Reason     RejectReason
	Input      string
	Intent     Intent
	Detail     string
	Suggestion string
}

func (e *RejectedError) Error() string {
	msg := fmt.Sprintf("rejected (%s)", e.Reason)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Suggestion != "" {
		msg += fmt.Sprintf(". Did you mean '%s'?", e.Suggestion)
	}
	return msg
}

// Is matches the sentinel belonging to the rejection reason.
func (e *RejectedError) Is(target error) bool {
	switch e.Reason {
	case ReasonUnrecognized:
		return target == ErrUnrecognized
	case ReasonMalformed:
		return target == ErrMalformed
	case ReasonNoJoinableColumns:
		return target == ErrNoJoinable
	case ReasonAmbiguousTopN:
		return target == ErrAmbiguousTopN
	}
	return false
}

// Reject builds a RejectedError.
func Reject(reason RejectReason, input string, intent Intent, detail string) *RejectedError {
	return &RejectedError{Reason: reason, Input: input, Intent: intent, Detail: detail}
}

// AsRejected unwraps err into a RejectedError when it is one.
func AsRejected(err error) (*RejectedError, bool) {
	var rej *RejectedError
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}

// ============================================================================
// CONFIGURATION DEFECTS
// ============================================================================

// MissingParameterError means a template declares a slot nobody bound.
// It is a configuration defect, never a user-facing rejection.
type MissingParameterError struct {
	Template string
	Dialect  Dialect
	Slot     string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("template %s (%s): no value bound for slot {{%s}}", e.Template, e.Dialect, e.Slot)
}

func (e *MissingParameterError) Is(target error) bool {
	return target == ErrMissingParameter
}

// ============================================================================
// EXECUTION
// ============================================================================

// ExecutionError wraps a failure reported by the storage collaborator.
type ExecutionError struct {
	Container string
	Err       error
}

func (e *ExecutionError) Error() string {
	if e.Container == "" {
		return fmt.Sprintf("execution error: %v", e.Err)
	}
	return fmt.Sprintf("execution error on %s: %v", e.Container, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
