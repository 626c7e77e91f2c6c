// SPDX-License-Identifier: MPL-2.0

package command

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedParameterType is returned when a default value or declared type
	// is not one of the supported scalars.
	ErrUnsupportedParameterType = errors.New("unsupported parameter type")
	// ErrUnsupportedKeywordCapture is returned when a command declares a catch-all
	// keyword parameter.
	ErrUnsupportedKeywordCapture = errors.New("keyword capture parameters are not supported")
	// ErrParameterOrderingViolation is returned when parameters are declared in an
	// order the grammar cannot represent unambiguously.
	ErrParameterOrderingViolation = errors.New("parameter ordering violation")
	// ErrDuplicateParameter is returned when two parameters (or their generated flags) share a name.
	ErrDuplicateParameter = errors.New("duplicate parameter")
	// ErrInvalidParameter is returned for malformed parameter declarations.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrInvalidCall is returned when positional and named values do not form a legal
	// call for a Spec.
	ErrInvalidCall = errors.New("invalid call")
)

type (
	// UnsupportedParameterTypeError is returned when an optional parameter's default
	// has a Go type outside the supported scalars.
	// It wraps ErrUnsupportedParameterType for errors.Is() compatibility.
	UnsupportedParameterTypeError struct {
		Param string
		Value any
	}

	// ParameterOrderingError describes why a parameter cannot appear where it was declared.
	// It wraps ErrParameterOrderingViolation for errors.Is() compatibility.
	ParameterOrderingError struct {
		Param  string
		Reason string
	}

	// ParameterError attaches a parameter name to one of the sentinel errors.
	ParameterError struct {
		Param string
		Err   error
	}
)

// Error implements the error interface for UnsupportedParameterTypeError.
func (e *UnsupportedParameterTypeError) Error() string {
	return fmt.Sprintf("parameter %q: default %#v has unsupported type %T (valid: string, bool, int, float, command.Choice)", e.Param, e.Value, e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *UnsupportedParameterTypeError) Unwrap() error {
	return ErrUnsupportedParameterType
}

// Error implements the error interface for ParameterOrderingError.
func (e *ParameterOrderingError) Error() string {
	return fmt.Sprintf("parameter %q: %s", e.Param, e.Reason)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *ParameterOrderingError) Unwrap() error {
	return ErrParameterOrderingViolation
}

// Error implements the error interface for ParameterError.
func (e *ParameterError) Error() string {
	return fmt.Sprintf("parameter %q: %v", e.Param, e.Err)
}

// Unwrap returns the wrapped error.
func (e *ParameterError) Unwrap() error {
	return e.Err
}
