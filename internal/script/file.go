// SPDX-License-Identifier: MPL-2.0

package script

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"mvdan.cc/sh/v3/syntax"

	"github.com/color/clr/pkg/command"
	"github.com/color/clr/pkg/cueutil"
)

var (
	// ErrInvalidFile is returned when a namespace file cannot be parsed.
	ErrInvalidFile = errors.New("invalid script namespace file")
	// ErrInvalidDeclaration is returned for a parameter or command that cannot be declared.
	ErrInvalidDeclaration = errors.New("invalid declaration")
)

type (
	// File is a parsed namespace file.
	File struct {
		Description     string        `toml:"description"`
		LongDescription string        `toml:"long_description"`
		Commands        []CommandDecl `toml:"commands"`
	}

	// CommandDecl declares one command.
	CommandDecl struct {
		Name   string      `toml:"name"`
		Doc    string      `toml:"doc"`
		Script string      `toml:"script"`
		Params []ParamDecl `toml:"params"`
	}

	// ParamDecl declares one parameter. Kind is required, variadic, optional or kwargs.
	// Type is optional for optionals with a default, which infer it.
	ParamDecl struct {
		Name    string   `toml:"name"`
		Kind    string   `toml:"kind"`
		Type    string   `toml:"type"`
		Choices []string `toml:"choices"`
		Default any      `toml:"default"`
		Help    string   `toml:"help"`
	}

	// DeclarationError locates an invalid declaration.
	DeclarationError struct {
		Command string
		Param   string
		Reason  string
	}
)

// Error implements the error interface for DeclarationError.
func (e *DeclarationError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("command %q: %s", e.Command, e.Reason)
	}
	return fmt.Sprintf("command %q, parameter %q: %s", e.Command, e.Param, e.Reason)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *DeclarationError) Unwrap() error { return ErrInvalidDeclaration }

// Parse decodes a namespace file. Unknown keys are rejected.
func Parse(data []byte, filename string) (*File, error) {
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, filename); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}
	var f File
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("%w: %s:%d:%d: %s", ErrInvalidFile, filename, row, col, derr.Error())
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidFile, filename, err)
	}
	return &f, nil
}

// Set builds the namespace declaration. Scripts are parsed here so that a syntax
// error fails the load rather than the first run. Parameter declarations the
// command model rejects (kwargs, unsupported defaults) are recorded in the Set's
// Err like any other registration failure.
func (f *File) Set(ns string, dir string) (*command.Set, error) {
	set := command.NewSet(f.Description).WithLongDescription(f.LongDescription)
	for _, decl := range f.Commands {
		if strings.TrimSpace(decl.Script) == "" {
			return nil, &DeclarationError{Command: decl.Name, Reason: "empty script"}
		}
		prog, err := syntax.NewParser().Parse(strings.NewReader(decl.Script), ns+":"+decl.Name)
		if err != nil {
			return nil, fmt.Errorf("command %q: script syntax error: %w", decl.Name, err)
		}
		b, err := decl.builder()
		if err != nil {
			return nil, err
		}
		set.Add(decl.Name, b, runner(prog, ns, decl.Name, dir))
	}
	return set, nil
}

func (d CommandDecl) builder() (*command.Builder, error) {
	b := command.NewSpec(d.Doc)
	for _, p := range d.Params {
		opts := []command.ParamOption{command.WithHelp(p.Help)}
		typ, typed, err := p.declaredType()
		if err != nil {
			return nil, &DeclarationError{Command: d.Name, Param: p.Name, Reason: err.Error()}
		}
		if typed {
			opts = append(opts, command.WithType(typ))
		}

		switch command.Kind(p.Kind) {
		case command.KindRequired, command.KindVariadic:
			if p.Default != nil {
				return nil, &DeclarationError{Command: d.Name, Param: p.Name, Reason: p.Kind + " parameters take no default"}
			}
			if command.Kind(p.Kind) == command.KindRequired {
				b.Required(p.Name, opts...)
			} else {
				b.Variadic(p.Name, opts...)
			}
		case command.KindOptional:
			def := p.Default
			if typed && def != nil {
				if def, err = defaultFor(typ, def); err != nil {
					return nil, &DeclarationError{Command: d.Name, Param: p.Name, Reason: err.Error()}
				}
			}
			b.Optional(p.Name, def, opts...)
		case command.KindKeywordCapture:
			b.KeywordCapture(p.Name)
		default:
			return nil, &DeclarationError{Command: d.Name, Param: p.Name,
				Reason: fmt.Sprintf("unknown kind %q (want required, variadic, optional or kwargs)", p.Kind)}
		}
	}
	return b, nil
}

// declaredType returns the explicit type of p, if any. Choices without a type
// imply a choice type.
func (p ParamDecl) declaredType() (command.Type, bool, error) {
	scalar := command.Scalar(p.Type)
	if p.Type == "" {
		if len(p.Choices) == 0 {
			return command.Type{}, false, nil
		}
		scalar = command.Enum
	}
	if ok, errs := scalar.IsValid(); !ok {
		return command.Type{}, false, errs[0]
	}
	if scalar == command.Enum {
		t := command.ChoiceOf(p.Choices...)
		if ok, errs := t.IsValid(); !ok {
			return command.Type{}, false, errs[0]
		}
		return t, true, nil
	}
	if len(p.Choices) > 0 {
		return command.Type{}, false, fmt.Errorf("choices given for %s parameter", scalar)
	}
	return command.Type{Scalar: scalar}, true, nil
}

// defaultFor converts a TOML default to the Go value Optional expects for t.
func defaultFor(t command.Type, v any) (any, error) {
	switch t.Scalar {
	case command.Text:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case command.Bool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case command.Int:
		if i, ok := v.(int64); ok {
			return int(i), nil
		}
	case command.Float:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int64:
			return float64(n), nil
		}
	case command.Enum:
		if s, ok := v.(string); ok {
			return command.Choice{Symbols: t.Symbols, Value: s}, nil
		}
	}
	return nil, fmt.Errorf("default %v (%T) does not match type %s", v, v, t)
}
