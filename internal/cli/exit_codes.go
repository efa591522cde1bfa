package cli

import (
	stderrors "errors"
	"fmt"
)

// Exit codes for the ripple CLI
// These codes support pipeline gating and CI/CD composition
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitRunFailed indicates a fatal resolution failure; no outputs were
	// published
	ExitRunFailed = 1

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 2

	// ExitNoRelease indicates the commit history warrants no release
	// (used by `ripple check` for pipeline gating)
	ExitNoRelease = 3
)

// ExitError carries a specific process exit code out of a command. It
// signals an already-reported condition, so Execute prints nothing for it.
type ExitError struct {
	Code int
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// NewExitError creates an error that maps to the given exit code.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

// ExitCode maps an error returned by Execute to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitRunFailed
}
