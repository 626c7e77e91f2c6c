// SPDX-License-Identifier: MPL-2.0

package command

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
)

const (
	// KindRequired is a parameter without a default. It may be given positionally or as --name.
	KindRequired Kind = "required"
	// KindVariadic collects all trailing positional tokens.
	KindVariadic Kind = "variadic"
	// KindOptional has a default and is usually given as --name.
	KindOptional Kind = "optional"
	// KindKeywordCapture is a catch-all keyword parameter. It can be declared so
	// that the declaration is rejected with ErrUnsupportedKeywordCapture.
	KindKeywordCapture Kind = "kwargs"

	// NegatePrefix is prepended to an optional boolean's name to form its "false" flag.
	NegatePrefix = "no"
)

var paramNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

type (
	// Kind classifies a parameter.
	Kind string

	// Parameter describes one declared parameter of a command.
	Parameter struct {
		Name string
		Kind Kind
		Type Type
		// Default is the declared default of an optional parameter. nil means "none":
		// the command sees nil unless the user supplies a value.
		Default any
		Help    string
	}

	// Spec is the declared shape of a command: its documentation and ordered parameters.
	// A Spec holds no function values and can be serialized.
	Spec struct {
		Doc    string
		Params []Parameter
	}

	// Builder declares a Spec parameter by parameter. Errors are collected and
	// reported by Build.
	Builder struct {
		spec Spec
		errs []error
	}

	// ParamOption adjusts a parameter declaration.
	ParamOption func(*Parameter)
)

// IsValid returns whether the Kind is supported.
func (k Kind) IsValid() (bool, []error) {
	switch k {
	case KindRequired, KindVariadic, KindOptional:
		return true, nil
	case KindKeywordCapture:
		return false, []error{ErrUnsupportedKeywordCapture}
	default:
		return false, []error{fmt.Errorf("%w: unknown kind %q", ErrInvalidParameter, k)}
	}
}

// WithType sets the type of a required or variadic parameter, or of an optional
// parameter whose default is nil.
func WithType(t Type) ParamOption {
	return func(p *Parameter) {
		p.Type = t
	}
}

// WithHelp sets the help text shown next to the parameter's flags.
func WithHelp(help string) ParamOption {
	return func(p *Parameter) {
		p.Help = help
	}
}

// NewSpec starts a Spec with the command's documentation.
func NewSpec(doc string) *Builder {
	return &Builder{spec: Spec{Doc: doc}}
}

// Required declares a parameter without a default.
func (b *Builder) Required(name string, opts ...ParamOption) *Builder {
	return b.add(Parameter{Name: name, Kind: KindRequired, Type: TextType}, opts)
}

// Variadic declares the parameter that collects trailing positional tokens.
func (b *Builder) Variadic(name string, opts ...ParamOption) *Builder {
	return b.add(Parameter{Name: name, Kind: KindVariadic, Type: TextType}, opts)
}

// Optional declares a parameter with a default. The parameter's type is inferred
// from the default's Go type; a nil default keeps the type given by WithType (Text otherwise).
func (b *Builder) Optional(name string, def any, opts ...ParamOption) *Builder {
	p := Parameter{Name: name, Kind: KindOptional, Type: TextType}
	for _, opt := range opts {
		opt(&p)
	}
	value, typ, err := inferDefault(name, def)
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	if def != nil {
		p.Type = typ
	}
	p.Default = value
	b.spec.Params = append(b.spec.Params, p)
	return b
}

// KeywordCapture declares a catch-all keyword parameter. Build always rejects it.
func (b *Builder) KeywordCapture(name string) *Builder {
	return b.add(Parameter{Name: name, Kind: KindKeywordCapture, Type: TextType}, nil)
}

func (b *Builder) add(p Parameter, opts []ParamOption) *Builder {
	for _, opt := range opts {
		opt(&p)
	}
	b.spec.Params = append(b.spec.Params, p)
	return b
}

// Build validates the declaration and returns the Spec.
func (b *Builder) Build() (Spec, error) {
	if len(b.errs) > 0 {
		return Spec{}, errors.Join(b.errs...)
	}
	spec := b.spec.Clone()
	if err := spec.Validate(); err != nil {
		return Spec{}, err
	}
	return spec, nil
}

// MustBuild is like Build but panics on an invalid declaration.
func (b *Builder) MustBuild() Spec {
	spec, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("command.MustBuild: %v", err))
	}
	return spec
}

// inferDefault maps a default value onto the supported scalars, normalizing
// integers to int and floats to float64.
func inferDefault(name string, def any) (any, Type, error) {
	switch v := def.(type) {
	case nil:
		return nil, TextType, nil
	case string:
		return v, TextType, nil
	case bool:
		return v, BoolType, nil
	case float32:
		return float64(v), FloatType, nil
	case float64:
		return v, FloatType, nil
	case Choice:
		t := ChoiceOf(v.Symbols...)
		if ok, errs := t.IsValid(); !ok {
			return nil, Type{}, &ParameterError{Param: name, Err: errs[0]}
		}
		sym, err := t.Coerce(v.Value)
		if err != nil {
			return nil, Type{}, &ParameterError{Param: name, Err: fmt.Errorf("%w: default %q is not one of its choices", ErrInvalidParameter, v.Value)}
		}
		return sym, t, nil
	}
	rv := reflect.ValueOf(def)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), IntType, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if rv.Uint() > math.MaxInt {
			break
		}
		return int(rv.Uint()), IntType, nil
	}
	return nil, Type{}, &UnsupportedParameterTypeError{Param: name, Value: def}
}

// Clone returns a deep copy of the Spec.
func (s Spec) Clone() Spec {
	out := Spec{Doc: s.Doc, Params: make([]Parameter, len(s.Params))}
	for i, p := range s.Params {
		p.Type.Symbols = append([]string(nil), p.Type.Symbols...)
		out.Params[i] = p
	}
	return out
}

// Param returns the parameter with the given name.
func (s Spec) Param(name string) (Parameter, bool) {
	for _, p := range s.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

// Variadic returns the variadic parameter, if declared.
func (s Spec) Variadic() (Parameter, bool) {
	for _, p := range s.Params {
		if p.Kind == KindVariadic {
			return p, true
		}
	}
	return Parameter{}, false
}

// HasVariadic reports whether the spec declares a variadic parameter.
func (s Spec) HasVariadic() bool {
	_, ok := s.Variadic()
	return ok
}

// RequiredCount returns the number of required parameters.
func (s Spec) RequiredCount() int {
	n := 0
	for _, p := range s.Params {
		if p.Kind == KindRequired {
			n++
		}
	}
	return n
}

// Validate checks the declaration rules:
//   - names are identifiers and unique, including generated --noname flags and --help
//   - kinds and types are supported; defaults match their type
//   - required parameters come first, then at most one variadic, then optionals;
//     an optional declared before the variadic is rejected
func (s Spec) Validate() error {
	flags := map[string]string{"help": "the built-in --help flag"}
	sawOptional, sawVariadic := "", ""

	for _, p := range s.Params {
		if !paramNamePattern.MatchString(p.Name) {
			return &ParameterError{Param: p.Name, Err: fmt.Errorf("%w: name must start with a letter and contain only letters, digits, '-' or '_'", ErrInvalidParameter)}
		}
		if ok, errs := p.Kind.IsValid(); !ok {
			return &ParameterError{Param: p.Name, Err: errs[0]}
		}
		if ok, errs := p.Type.IsValid(); !ok {
			return &ParameterError{Param: p.Name, Err: errs[0]}
		}

		switch p.Kind {
		case KindRequired:
			if sawOptional != "" {
				return &ParameterOrderingError{Param: p.Name, Reason: fmt.Sprintf("required parameter declared after optional parameter %q", sawOptional)}
			}
			if sawVariadic != "" {
				return &ParameterOrderingError{Param: p.Name, Reason: fmt.Sprintf("required parameter declared after variadic parameter %q", sawVariadic)}
			}
		case KindVariadic:
			if sawVariadic != "" {
				return &ParameterOrderingError{Param: p.Name, Reason: fmt.Sprintf("only one variadic parameter is allowed, %q already declared", sawVariadic)}
			}
			if sawOptional != "" {
				return &ParameterOrderingError{Param: sawOptional, Reason: fmt.Sprintf("optional parameter declared before variadic parameter %q", p.Name)}
			}
			sawVariadic = p.Name
		case KindOptional:
			if sawOptional == "" {
				sawOptional = p.Name
			}
			if p.Default != nil {
				if err := checkDefault(p); err != nil {
					return err
				}
			}
		}

		names := []string{p.Name}
		if p.Kind == KindOptional && p.Type.Scalar == Bool {
			names = append(names, NegatePrefix+p.Name)
		}
		for _, flag := range names {
			if owner, dup := flags[flag]; dup {
				return &ParameterError{Param: p.Name, Err: fmt.Errorf("%w: --%s conflicts with %s", ErrDuplicateParameter, flag, owner)}
			}
			flags[flag] = fmt.Sprintf("parameter %q", p.Name)
		}
	}
	return nil
}

// checkDefault verifies an optional parameter's default has the Go type its Type produces.
func checkDefault(p Parameter) error {
	ok := false
	switch p.Type.Scalar {
	case Text:
		_, ok = p.Default.(string)
	case Bool:
		_, ok = p.Default.(bool)
	case Int:
		_, ok = p.Default.(int)
	case Float:
		_, ok = p.Default.(float64)
	case Enum:
		if sym, isString := p.Default.(string); isString {
			_, err := p.Type.Coerce(sym)
			ok = err == nil
		}
	}
	if !ok {
		return &UnsupportedParameterTypeError{Param: p.Name, Value: p.Default}
	}
	return nil
}
