// Package errors provides structured error handling for the ripple CLI.
// Failures carry a category from the run taxonomy so the command layer can
// map them to exit codes and remediation guidance.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory represents the type of failure that aborted a run.
type ErrorCategory int

const (
	// Configuration errors are caused by missing or invalid run inputs,
	// such as a declared package directory without a manifest or a cyclic
	// internal dependency graph.
	Configuration ErrorCategory = iota
	// Parse errors occur when an external artifact (manifest, changelog,
	// commit range) fails to parse.
	Parse
	// InvalidVersion errors occur when a current version string does not
	// parse as a semantic version.
	InvalidVersion
	// ExternalQuery errors occur when the commit or tag source is
	// unavailable or fails mid-query.
	ExternalQuery
)

// String returns a human-readable name for the error category.
func (c ErrorCategory) String() string {
	switch c {
	case Configuration:
		return "Configuration Error"
	case Parse:
		return "Parse Error"
	case InvalidVersion:
		return "Invalid Version"
	case ExternalQuery:
		return "External Query Failure"
	default:
		return "Error"
	}
}

// RunError is a structured error with a category and optional remediation
// guidance. Any RunError is fatal to the whole run: ripple publishes no
// partial output.
type RunError struct {
	// Category is the taxonomy bucket for this failure.
	Category ErrorCategory
	// Message is a human-readable description of what went wrong.
	Message string
	// Remediation is a list of actionable steps to resolve the error.
	Remediation []string
	// Err is the wrapped underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *RunError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying error to errors.Is/errors.As chains.
func (e *RunError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string, remediation ...string) *RunError {
	return &RunError{
		Category:    Configuration,
		Message:     message,
		Remediation: remediation,
	}
}

// NewParseError creates a new parse error.
func NewParseError(message string, remediation ...string) *RunError {
	return &RunError{
		Category:    Parse,
		Message:     message,
		Remediation: remediation,
	}
}

// NewInvalidVersionError creates an error for a version string that does
// not parse as a semantic version.
func NewInvalidVersionError(version string, err error) *RunError {
	return &RunError{
		Category: InvalidVersion,
		Message:  fmt.Sprintf("invalid semantic version %q: %v", version, err),
		Err:      err,
		Remediation: []string{
			"Fix the version field in the package manifest (expected MAJOR.MINOR.PATCH)",
		},
	}
}

// NewExternalQueryError creates an error for a failed commit or tag query.
func NewExternalQueryError(message string, err error) *RunError {
	return &RunError{
		Category: ExternalQuery,
		Message:  fmt.Sprintf("%s: %v", message, err),
		Err:      err,
	}
}

// Wrap wraps an existing error with a RunError, preserving the original
// message. Returns nil when err is nil.
func Wrap(err error, category ErrorCategory, remediation ...string) *RunError {
	if err == nil {
		return nil
	}
	return &RunError{
		Category:    category,
		Message:     err.Error(),
		Remediation: remediation,
		Err:         err,
	}
}

// WrapWithMessage wraps an error with a custom message and category.
func WrapWithMessage(err error, category ErrorCategory, message string, remediation ...string) *RunError {
	if err == nil {
		return nil
	}
	return &RunError{
		Category:    category,
		Message:     fmt.Sprintf("%s: %v", message, err),
		Remediation: remediation,
		Err:         err,
	}
}

// AsRunError attempts to convert an error to a RunError anywhere in its
// chain. Returns nil if no RunError is present.
func AsRunError(err error) *RunError {
	var runErr *RunError
	if stderrors.As(err, &runErr) {
		return runErr
	}
	return nil
}

// CategoryOf returns the category of the first RunError in the chain, or
// ExternalQuery when the error carries no category (callers treat unknown
// failures as environment problems, not user mistakes).
func CategoryOf(err error) ErrorCategory {
	if runErr := AsRunError(err); runErr != nil {
		return runErr.Category
	}
	return ExternalQuery
}
