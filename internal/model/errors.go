package model

import (
	"errors"
	"fmt"
)

// Error represents a recoverable model condition surfaced to the caller.
//
// Everything in this taxonomy is local and leaves the stores untouched:
// the operation simply had no effect and the caller reports the reason.
// The single fatal case is DANGLING_REFERENCE, raised only when an
// integrity pass leaves a stale key behind. That indicates a broken
// traversal, and the rebuild is aborted rather than rendering corrupt
// state.
type Error struct {
	// Code identifies the condition category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Tab and Subplot locate the affected cell, when relevant.
	Tab     int
	Subplot int

	// Key is the canonical form of the offending signal key, when relevant.
	Key string
}

// ErrorCode categorizes model errors.
type ErrorCode string

const (
	// ErrCodeInvalidTupleArity indicates a switch to tuple mode when the
	// subplot did not hold exactly two regular signals.
	ErrCodeInvalidTupleArity ErrorCode = "INVALID_TUPLE_ARITY"

	// ErrCodeNotInTupleMode indicates a pair operation on a regular subplot.
	ErrCodeNotInTupleMode ErrorCode = "NOT_IN_TUPLE_MODE"

	// ErrCodeUnknownSignalKey indicates an operation referencing a key not
	// present in any live source or the derived provider.
	ErrCodeUnknownSignalKey ErrorCode = "UNKNOWN_SIGNAL_KEY"

	// ErrCodeStaleSessionReference indicates a session load found a key
	// whose source is missing. Recorded, never fatal.
	ErrCodeStaleSessionReference ErrorCode = "STALE_SESSION_REFERENCE"

	// ErrCodeDanglingReference indicates an integrity pass left a stale
	// key reachable. The one programming-error condition.
	ErrCodeDanglingReference ErrorCode = "DANGLING_REFERENCE"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s: %s (key=%s)", e.Code, e.Message, e.Key)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsCode reports whether err is a model Error with the given code.
// Uses errors.As to handle wrapped errors.
func IsCode(err error, code ErrorCode) bool {
	var me *Error
	if errors.As(err, &me) {
		return me.Code == code
	}
	return false
}

// NewTupleArityError creates the error for an invalid tuple-mode switch.
func NewTupleArityError(tab, subplot, have int) *Error {
	return &Error{
		Code:    ErrCodeInvalidTupleArity,
		Message: fmt.Sprintf("tuple mode needs exactly 2 regular signals, subplot holds %d", have),
		Tab:     tab,
		Subplot: subplot,
	}
}

// NewNotInTupleModeError creates the error for a pair operation on a
// regular subplot.
func NewNotInTupleModeError(tab, subplot int) *Error {
	return &Error{
		Code:    ErrCodeNotInTupleMode,
		Message: "subplot is not in tuple mode",
		Tab:     tab,
		Subplot: subplot,
	}
}

// NewUnknownKeyError creates the error for a reference to a signal that no
// live source (and no derived provider) currently carries.
func NewUnknownKeyError(key string) *Error {
	return &Error{
		Code:    ErrCodeUnknownSignalKey,
		Message: "signal is not present in any live source",
		Key:     key,
	}
}

// NewStaleReferenceError records a session key whose source is missing.
func NewStaleReferenceError(key string) *Error {
	return &Error{
		Code:    ErrCodeStaleSessionReference,
		Message: "session references a source that could not be located",
		Key:     key,
	}
}

// NewDanglingReferenceError creates the fatal post-pass verification error.
func NewDanglingReferenceError(key string) *Error {
	return &Error{
		Code:    ErrCodeDanglingReference,
		Message: "integrity pass left a stale reference reachable",
		Key:     key,
	}
}
