// SPDX-License-Identifier: MPL-2.0

package grammar

import (
	"errors"
	"fmt"
	"strings"

	"github.com/color/clr/pkg/command"
)

var (
	// ErrHelpRequested is returned by Parse when -h or --help is given.
	ErrHelpRequested = errors.New("help requested")
	// ErrDuplicateSpecification is returned when one parameter is given both positionally
	// and by flag, or both halves of a boolean flag pair are given.
	ErrDuplicateSpecification = errors.New("duplicate specification")
	// ErrMissingRequiredArgument is returned when a required parameter is given in neither form.
	ErrMissingRequiredArgument = errors.New("missing required argument")
	// ErrInvalidArgumentType is returned when a value does not parse as its parameter's scalar type.
	ErrInvalidArgumentType = errors.New("invalid argument type")
	// ErrInvalidEnumValue is returned when a value is not one of its parameter's choices.
	ErrInvalidEnumValue = errors.New("invalid enum value")
	// ErrUnexpectedArgument is returned when more positional tokens are given than there are slots.
	ErrUnexpectedArgument = errors.New("unexpected argument")
	// ErrUnknownFlag is returned for a flag the command does not define.
	ErrUnknownFlag = errors.New("unknown flag")
	// ErrSwitchValue is returned when a boolean flag is given an explicit =value.
	ErrSwitchValue = errors.New("switch takes no value")
	// ErrFlagSyntax is returned for malformed flag usage, such as a value flag without its value.
	ErrFlagSyntax = errors.New("flag syntax error")
)

type (
	// UsageError wraps every Parse failure with the command's usage line so that
	// it can be shown the way the user needs to correct the invocation.
	UsageError struct {
		Prog  string
		Usage string
		Err   error
	}

	// DuplicateSpecificationError names the two forms that were both given.
	DuplicateSpecificationError struct {
		Arg   string
		Other string
	}

	// MissingRequiredArgumentError lists the required parameters that were not given.
	// Flagged is false when the parameters are accepted positionally only.
	MissingRequiredArgumentError struct {
		Params  []string
		Flagged bool
	}

	// InvalidArgumentTypeError reports a value that does not parse as its parameter's type.
	InvalidArgumentTypeError struct {
		Arg   string
		Value string
		Type  command.Type
	}

	// InvalidEnumValueError reports a value outside its parameter's choices.
	InvalidEnumValueError struct {
		Arg     string
		Value   string
		Symbols []string
	}

	// UnexpectedArgumentError lists surplus positional tokens.
	UnexpectedArgumentError struct {
		Args []string
	}

	// UnknownFlagError reports an undefined flag along with the closest defined ones.
	UnknownFlagError struct {
		Flag        string
		Suggestions []string
	}

	// SwitchValueError reports "--name=value" for a flag that only switches a
	// boolean on or off.
	SwitchValueError struct {
		Flag  string
		Value string
	}

	// FlagSyntaxError carries the tokenizer's message for malformed flag usage.
	FlagSyntaxError struct {
		Message string
	}
)

// Error implements the error interface for UsageError.
func (e *UsageError) Error() string {
	return fmt.Sprintf("%s\n%s: error: %v", e.Usage, e.Prog, e.Err)
}

// Unwrap returns the underlying parse error.
func (e *UsageError) Unwrap() error { return e.Err }

// Error implements the error interface for DuplicateSpecificationError.
func (e *DuplicateSpecificationError) Error() string {
	return fmt.Sprintf("argument %s: not allowed with argument %s", e.Arg, e.Other)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *DuplicateSpecificationError) Unwrap() error { return ErrDuplicateSpecification }

// Error implements the error interface for MissingRequiredArgumentError.
func (e *MissingRequiredArgumentError) Error() string {
	if e.Flagged && len(e.Params) > 0 {
		name := e.Params[0]
		return fmt.Sprintf("one of the arguments --%s %s is required", name, name)
	}
	return "the following arguments are required: " + strings.Join(e.Params, ", ")
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *MissingRequiredArgumentError) Unwrap() error { return ErrMissingRequiredArgument }

// Error implements the error interface for InvalidArgumentTypeError.
func (e *InvalidArgumentTypeError) Error() string {
	return fmt.Sprintf("argument %s: invalid %s value: '%s'", e.Arg, e.Type.Scalar, e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidArgumentTypeError) Unwrap() error { return ErrInvalidArgumentType }

// Error implements the error interface for InvalidEnumValueError.
func (e *InvalidEnumValueError) Error() string {
	quoted := make([]string, len(e.Symbols))
	for i, sym := range e.Symbols {
		quoted[i] = "'" + sym + "'"
	}
	return fmt.Sprintf("argument %s: invalid choice: '%s' (choose from %s)", e.Arg, e.Value, strings.Join(quoted, ", "))
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidEnumValueError) Unwrap() error { return ErrInvalidEnumValue }

// Error implements the error interface for UnexpectedArgumentError.
func (e *UnexpectedArgumentError) Error() string {
	return "unrecognized arguments: " + strings.Join(e.Args, " ")
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *UnexpectedArgumentError) Unwrap() error { return ErrUnexpectedArgument }

// Error implements the error interface for UnknownFlagError.
func (e *UnknownFlagError) Error() string {
	msg := "unrecognized arguments: " + e.Flag
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *UnknownFlagError) Unwrap() error { return ErrUnknownFlag }

// Error implements the error interface for FlagSyntaxError.
func (e *FlagSyntaxError) Error() string { return e.Message }

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *FlagSyntaxError) Unwrap() error { return ErrFlagSyntax }

func (e *SwitchValueError) Error() string {
	return fmt.Sprintf("argument %s: ignored explicit argument '%s'", e.Flag, e.Value)
}

func (e *SwitchValueError) Unwrap() error { return ErrSwitchValue }
