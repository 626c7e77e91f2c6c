// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

// Process exit statuses of clr itself. Commands may return any other status.
const (
	// ExitSuccess is returned when the command ran and reported success.
	ExitSuccess ExitCode = 0
	// ExitResolution covers unknown namespaces or commands, load failures and
	// argument binding failures.
	ExitResolution ExitCode = 1
	// ExitUsage is returned when the arguments do not parse.
	ExitUsage ExitCode = 2
	// ExitCommandFailed is returned when the command returned an error.
	ExitCommandFailed ExitCode = 3
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode represents a process exit status code.
	// Exit codes are in the range 0-255 on POSIX systems.
	// The zero value (0) means success.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is outside the
	// valid range (0-255).
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode so callers can use errors.Is for programmatic detection.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// FromResult maps a command's return value onto an exit status: an integer is
// the status itself, a bool is 1 when true and 0 when false, anything else is success.
func FromResult(v any) ExitCode {
	switch r := v.(type) {
	case int:
		return ExitCode(r)
	case ExitCode:
		return r
	case bool:
		if r {
			return 1
		}
		return ExitSuccess
	default:
		return ExitSuccess
	}
}

// Validate returns an error if the ExitCode is outside the valid range (0-255).
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess returns true if the exit code indicates successful execution.
func (c ExitCode) IsSuccess() bool { return c == 0 }

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
