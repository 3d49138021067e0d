// Package apperr defines the sentinel error kinds surfaced across the
// optimization pipeline: small, comparable error values that callers
// test with errors.Is rather than string matching.
package apperr

import (
	"errors"
	"fmt"
)

// Kind enumerates the categories of failure the optimizer can report.
// Of these, only ConstraintViolation is diagnostic: no pipeline stage
// returns it to abort a run, and the constraints validation report
// records violations as plain text rather than as this kind.
type Kind string

const (
	KindInvalidInput        Kind = "invalid_input"
	KindInsufficientData    Kind = "insufficient_data"
	KindOracleError         Kind = "oracle_error"
	KindSolverTimeout       Kind = "solver_timeout"
	KindConstraintViolation Kind = "constraint_violation"
)

// Sentinel errors, one per Kind, for errors.Is comparisons.
var (
	ErrInvalidInput        = errors.New(string(KindInvalidInput))
	ErrInsufficientData    = errors.New(string(KindInsufficientData))
	ErrOracleError         = errors.New(string(KindOracleError))
	ErrSolverTimeout       = errors.New(string(KindSolverTimeout))
	ErrConstraintViolation = errors.New(string(KindConstraintViolation))
)

func sentinelFor(k Kind) error {
	switch k {
	case KindInvalidInput:
		return ErrInvalidInput
	case KindInsufficientData:
		return ErrInsufficientData
	case KindOracleError:
		return ErrOracleError
	case KindSolverTimeout:
		return ErrSolverTimeout
	case KindConstraintViolation:
		return ErrConstraintViolation
	default:
		return errors.New(string(k))
	}
}

// Error wraps an underlying cause with a Kind and a human-readable
// message, preserving errors.Is/As compatibility via Unwrap.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return sentinelFor(e.Kind)
}

// Is reports equality at the Kind level so errors.Is(err, apperr.ErrOracleError)
// succeeds whether or not the caller holds the wrapping *Error.
func (e *Error) Is(target error) bool {
	return target == sentinelFor(e.Kind)
}

// New constructs an *Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap constructs an *Error of the given kind around an existing cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// InvalidInput is a convenience constructor for KindInvalidInput.
func InvalidInput(format string, args ...any) *Error {
	return New(KindInvalidInput, fmt.Sprintf(format, args...))
}

// InsufficientData is a convenience constructor for KindInsufficientData.
func InsufficientData(format string, args ...any) *Error {
	return New(KindInsufficientData, fmt.Sprintf(format, args...))
}

// OracleError is a convenience constructor for KindOracleError.
func OracleError(cause error, format string, args ...any) *Error {
	return Wrap(KindOracleError, fmt.Sprintf(format, args...), cause)
}

// SolverTimeout is a convenience constructor for KindSolverTimeout.
func SolverTimeout(format string, args ...any) *Error {
	return New(KindSolverTimeout, fmt.Sprintf(format, args...))
}

// ConstraintViolation is a convenience constructor for KindConstraintViolation.
func ConstraintViolation(format string, args ...any) *Error {
	return New(KindConstraintViolation, fmt.Sprintf(format, args...))
}
