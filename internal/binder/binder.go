// SPDX-License-Identifier: MPL-2.0

// Package binder maps a grammar parse result back onto a command's declared
// parameter order to produce the command.Call it is invoked with.
package binder

import (
	"errors"
	"fmt"

	"github.com/color/clr/pkg/command"
)

// ErrSignatureBinding is returned when parsed values cannot form a legal call.
// The grammar is built to prevent this, so it indicates an internal inconsistency.
var ErrSignatureBinding = errors.New("signature binding error")

type (
	// Parsed is the view of a parse result the binder needs.
	// *grammar.Result implements it.
	Parsed interface {
		Value(name string) (any, bool)
		Variadic() []any
	}

	// SignatureBindingError reports why bound values do not match the spec.
	SignatureBindingError struct {
		Param string
		Err   error
	}
)

// Error implements the error interface for SignatureBindingError.
func (e *SignatureBindingError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("signature binding error: %v", e.Err)
	}
	return fmt.Sprintf("signature binding error for parameter %q: %v", e.Param, e.Err)
}

// Unwrap returns the sentinel error so both ErrSignatureBinding and the cause match errors.Is.
func (e *SignatureBindingError) Unwrap() []error { return []error{ErrSignatureBinding, e.Err} }

// Bind walks the spec in declaration order: required values are passed positionally,
// variadic values are appended after them, and optionals are passed by name only
// when the user supplied them so that the declared default otherwise applies.
func Bind(spec command.Spec, parsed Parsed) (*command.Call, error) {
	var args []any
	named := make(map[string]any)

	for _, p := range spec.Params {
		switch p.Kind {
		case command.KindRequired:
			v, ok := parsed.Value(p.Name)
			if !ok {
				return nil, &SignatureBindingError{Param: p.Name, Err: errors.New("required parameter has no value")}
			}
			args = append(args, v)
		case command.KindVariadic:
			args = append(args, parsed.Variadic()...)
		case command.KindOptional:
			if v, ok := parsed.Value(p.Name); ok {
				named[p.Name] = v
			}
		default:
			return nil, &SignatureBindingError{Param: p.Name, Err: fmt.Errorf("unsupported parameter kind %q", p.Kind)}
		}
	}

	if !spec.HasVariadic() && len(parsed.Variadic()) > 0 {
		return nil, &SignatureBindingError{Err: errors.New("trailing values given to a command without a variadic parameter")}
	}

	call, err := command.NewCall(spec, args, named)
	if err != nil {
		return nil, &SignatureBindingError{Err: err}
	}
	return call, nil
}
