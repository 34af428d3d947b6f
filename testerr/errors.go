// Package testerr defines the failure taxonomy for structural test failures.
//
// Expectation mismatches are reported as soft assertions and never become an
// Error. Everything that aborts a case maps to exactly one FailureClass.
package testerr

import (
	"errors"
	"fmt"
)

// FailureClass is a stable failure category.
type FailureClass string

const (
	// Specification: an invalid case that asserts nothing.
	Specification FailureClass = "SPECIFICATION"
	// Convergence: the fixer did not reach a fixpoint within the budget.
	Convergence FailureClass = "CONVERGENCE"
	// MissingResult: the linter returned no result for the submitted code.
	MissingResult FailureClass = "MISSING_RESULT"
	// Linter: the linter invocation itself failed.
	Linter FailureClass = "LINTER"
	// Hook: a before/after hook returned an error.
	Hook FailureClass = "HOOK"
	// Config: the tester configuration was rejected.
	Config FailureClass = "CONFIG"
)

// Error is the structured error type for structural test failures.
type Error struct {
	Class   FailureClass
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("testerr: %s: %s: %v", e.Class, e.Message, e.Cause)
	}
	return fmt.Sprintf("testerr: %s: %s", e.Class, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given class and message.
func New(class FailureClass, message string) *Error {
	return &Error{Class: class, Message: message}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(class FailureClass, message string, cause error) *Error {
	return &Error{Class: class, Message: message, Cause: cause}
}

// ClassOf returns the class of the first *Error in err's chain.
func ClassOf(err error) (FailureClass, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Class, true
	}
	return "", false
}

// Is reports whether err carries the given class.
func Is(err error, class FailureClass) bool {
	got, ok := ClassOf(err)
	return ok && got == class
}
