// SPDX-License-Identifier: MPL-2.0

package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// Text is the default scalar; values are passed through unchanged.
	Text Scalar = "text"
	// Bool is for true/false values. Optional booleans become --name/--noname flag pairs.
	Bool Scalar = "bool"
	// Int is for integer values.
	Int Scalar = "int"
	// Float is for floating-point values.
	Float Scalar = "float"
	// Enum is for a closed set of symbols, matched case-insensitively.
	Enum Scalar = "choice"
)

// ErrInvalidValue is returned when a raw command-line value cannot be coerced to a Type.
var ErrInvalidValue = errors.New("invalid value")

type (
	// Scalar names the kind of value a parameter accepts.
	Scalar string

	// Type is the inferred or declared value type of a parameter.
	// Symbols is only meaningful for Enum and lists the legal choices in declaration order.
	Type struct {
		Scalar  Scalar
		Symbols []string
	}

	// Choice is used as the default value of an optional parameter to declare an
	// enumerated type. Value must be one of Symbols.
	Choice struct {
		Symbols []string
		Value   string
	}

	// ValueError is returned by Type.Coerce. It wraps ErrInvalidValue.
	ValueError struct {
		Type  Type
		Value string
	}
)

// TextType, BoolType, IntType and FloatType are the non-enumerated types.
var (
	TextType  = Type{Scalar: Text}
	BoolType  = Type{Scalar: Bool}
	IntType   = Type{Scalar: Int}
	FloatType = Type{Scalar: Float}
)

// ChoiceOf returns an enumerated type over symbols.
func ChoiceOf(symbols ...string) Type {
	return Type{Scalar: Enum, Symbols: append([]string(nil), symbols...)}
}

// Error implements the error interface for ValueError.
func (e *ValueError) Error() string {
	if e.Type.Scalar == Enum {
		return fmt.Sprintf("invalid choice: '%s' (choose from %s)", e.Value, quoteJoin(e.Type.Symbols))
	}
	return fmt.Sprintf("invalid %s value: '%s'", e.Type.Scalar, e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *ValueError) Unwrap() error {
	return ErrInvalidValue
}

// IsValid returns whether the Scalar is one of the defined scalars.
func (s Scalar) IsValid() (bool, []error) {
	switch s {
	case Text, Bool, Int, Float, Enum:
		return true, nil
	default:
		return false, []error{fmt.Errorf("%w: unknown type %q (valid: text, bool, int, float, choice)", ErrUnsupportedParameterType, s)}
	}
}

// IsValid returns whether the type is well formed. Enumerated types need at least
// one symbol and symbols must be unique ignoring case.
func (t Type) IsValid() (bool, []error) {
	if ok, errs := t.Scalar.IsValid(); !ok {
		return false, errs
	}
	if t.Scalar != Enum {
		return true, nil
	}
	if len(t.Symbols) == 0 {
		return false, []error{fmt.Errorf("%w: choice type has no symbols", ErrUnsupportedParameterType)}
	}
	seen := make(map[string]bool, len(t.Symbols))
	for _, sym := range t.Symbols {
		key := strings.ToLower(sym)
		if sym == "" || seen[key] {
			return false, []error{fmt.Errorf("%w: choice symbols must be non-empty and unique, got %q", ErrUnsupportedParameterType, t.Symbols)}
		}
		seen[key] = true
	}
	return true, nil
}

// Equal reports whether two types accept exactly the same values.
func (t Type) Equal(other Type) bool {
	if t.Scalar != other.Scalar || len(t.Symbols) != len(other.Symbols) {
		return false
	}
	for i := range t.Symbols {
		if t.Symbols[i] != other.Symbols[i] {
			return false
		}
	}
	return true
}

// String returns the scalar name, with symbols for enumerated types.
func (t Type) String() string {
	if t.Scalar == Enum {
		return "{" + strings.Join(t.Symbols, ",") + "}"
	}
	return string(t.Scalar)
}

// Coerce converts a raw command-line token into the Go value for this type:
// string for Text and Enum (the declared spelling of the symbol), bool, int or float64.
func (t Type) Coerce(raw string) (any, error) {
	switch t.Scalar {
	case Bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, &ValueError{Type: t, Value: raw}
		}
		return v, nil
	case Int:
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, &ValueError{Type: t, Value: raw}
		}
		return v, nil
	case Float:
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, &ValueError{Type: t, Value: raw}
		}
		return v, nil
	case Enum:
		for _, sym := range t.Symbols {
			if strings.EqualFold(sym, raw) {
				return sym, nil
			}
		}
		return nil, &ValueError{Type: t, Value: raw}
	default:
		return raw, nil
	}
}

// FormatValue renders a value of this package's scalar Go types the way Coerce reads it back.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

func quoteJoin(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return strings.Join(quoted, ", ")
}
