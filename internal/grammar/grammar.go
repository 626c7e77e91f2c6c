// SPDX-License-Identifier: MPL-2.0

package grammar

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"

	"github.com/spf13/pflag"

	"github.com/color/clr/internal/suggest"
	"github.com/color/clr/pkg/command"
)

// ProgramName prefixes every usage line.
const ProgramName = "clr"

// negativeNumber matches tokens such as "-5" or "-2.5". Grammars define no
// single-dash flags, so these are always values.
var negativeNumber = regexp.MustCompile(`^-[0-9]+(\.[0-9]+)?$`)

type (
	// Flag is one named form offered by a Grammar. Boolean parameters produce two
	// flags; the one with Negated set stores false.
	Flag struct {
		Name       string
		Param      string
		Type       command.Type
		TakesValue bool
		Negated    bool
		Help       string
	}

	// Slot is one positional form offered by a Grammar, filled strictly in order.
	Slot struct {
		Param command.Parameter
		// Flagged is true when the parameter may alternatively be given as --name.
		Flagged bool
		Help    string
	}

	// Grammar is the parsing rule set derived from one command's Spec.
	Grammar struct {
		spec     command.Spec
		prog     string
		slots    []Slot
		flags    []Flag
		variadic *command.Parameter
	}

	// Result holds the coerced values of every parameter the user supplied.
	Result struct {
		values   map[string]any
		via      map[string]string
		variadic []any
	}

	// rawValue collects the text of a value flag; coercion happens after tokenizing so
	// errors name the parameter the way the user wrote it.
	rawValue struct {
		value string
	}
)

func (v *rawValue) String() string     { return v.value }
func (v *rawValue) Set(s string) error { v.value = s; return nil }
func (v *rawValue) Type() string       { return "string" }

// Build derives the grammar for a command. The spec is validated again so that a
// projection read back from the metadata cache is held to the same rules.
func Build(spec command.Spec, namespaceKey, commandName string) (*Grammar, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("command %s:%s: %w", namespaceKey, commandName, err)
	}

	g := &Grammar{
		spec: spec.Clone(),
		prog: ProgramName + " " + namespaceKey + ":" + commandName,
	}
	hasVariadic := spec.HasVariadic()

	for _, p := range g.spec.Params {
		switch p.Kind {
		case command.KindRequired:
			if hasVariadic {
				g.slots = append(g.slots, Slot{Param: p, Help: describe(p.Help, "required")})
				continue
			}
			g.slots = append(g.slots, Slot{Param: p, Flagged: true, Help: describe(p.Help, "required unless --"+p.Name+" is given")})
			g.flags = append(g.flags, Flag{
				Name: p.Name, Param: p.Name, Type: p.Type, TakesValue: true,
				Help: describe(p.Help, "required unless given positionally as "+p.Name),
			})
		case command.KindVariadic:
			variadic := p
			g.variadic = &variadic
		case command.KindOptional:
			if p.Type.Scalar == command.Bool {
				g.flags = append(g.flags,
					Flag{Name: p.Name, Param: p.Name, Type: p.Type, Help: describe(p.Help, "sets "+p.Name+" to true", "default: "+formatDefault(p.Default))},
					Flag{Name: command.NegatePrefix + p.Name, Param: p.Name, Type: p.Type, Negated: true, Help: describe("", "sets "+p.Name+" to false")},
				)
				continue
			}
			def := "default: " + formatDefault(p.Default)
			if hasVariadic {
				g.flags = append(g.flags, Flag{Name: p.Name, Param: p.Name, Type: p.Type, TakesValue: true, Help: describe(p.Help, def)})
				continue
			}
			g.slots = append(g.slots, Slot{Param: p, Flagged: true, Help: describe(p.Help, "alternative to --"+p.Name, def)})
			g.flags = append(g.flags, Flag{
				Name: p.Name, Param: p.Name, Type: p.Type, TakesValue: true,
				Help: describe(p.Help, def, "may also be given positionally as "+p.Name),
			})
		}
	}
	return g, nil
}

// Spec returns the spec the grammar was built from.
func (g *Grammar) Spec() command.Spec { return g.spec.Clone() }

// Prog returns the program prefix used in usage and error text, e.g. "clr ns:cmd".
func (g *Grammar) Prog() string { return g.prog }

// Flags returns the named forms in declaration order.
func (g *Grammar) Flags() []Flag { return slices.Clone(g.flags) }

// Slots returns the positional forms in the order they are filled.
func (g *Grammar) Slots() []Slot { return slices.Clone(g.slots) }

// HasVariadic reports whether trailing positionals are collected.
func (g *Grammar) HasVariadic() bool { return g.variadic != nil }

// Flag returns the flag with the given name (without dashes).
func (g *Grammar) Flag(name string) (Flag, bool) {
	for _, f := range g.flags {
		if f.Name == name {
			return f, true
		}
	}
	return Flag{}, false
}

func (g *Grammar) flagSet() (*pflag.FlagSet, map[string]*rawValue) {
	fs := pflag.NewFlagSet(g.prog, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.SetInterspersed(true)

	raws := make(map[string]*rawValue)
	for _, f := range g.flags {
		if f.TakesValue {
			raw := &rawValue{}
			raws[f.Name] = raw
			fs.Var(raw, f.Name, f.Help)
			continue
		}
		fs.Bool(f.Name, false, f.Help)
	}
	return fs, raws
}

// Parse tokenizes and validates tokens against the grammar. -h/--help returns
// ErrHelpRequested unwrapped; every other failure is a *UsageError.
func (g *Grammar) Parse(tokens []string) (*Result, error) {
	flagTokens, positionals, err := g.arrange(tokens)
	if err != nil {
		return nil, g.usageError(err)
	}

	fs, raws := g.flagSet()
	if err := fs.Parse(append(append(flagTokens, "--"), positionals...)); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, ErrHelpRequested
		}
		return nil, g.usageError(g.classify(err, flagTokens, fs))
	}

	positionals = fs.Args()
	filled := make(map[string]string, len(g.slots))
	n := min(len(positionals), len(g.slots))
	for i := range n {
		filled[g.slots[i].Param.Name] = positionals[i]
	}
	surplus := positionals[n:]
	if len(surplus) > 0 && g.variadic == nil {
		return nil, g.usageError(&UnexpectedArgumentError{Args: surplus})
	}

	if err := g.checkDuplicates(fs, filled); err != nil {
		return nil, g.usageError(err)
	}

	res := &Result{
		values:   make(map[string]any),
		via:      make(map[string]string),
		variadic: []any{},
	}
	var missing []string
	for _, p := range g.spec.Params {
		switch p.Kind {
		case command.KindVariadic:
			for _, raw := range surplus {
				v, err := coerce(p.Type, p.Name, raw)
				if err != nil {
					return nil, g.usageError(err)
				}
				res.variadic = append(res.variadic, v)
			}
		case command.KindOptional:
			if p.Type.Scalar == command.Bool {
				g.bindBool(fs, p, res)
				continue
			}
			fallthrough
		default:
			raw, arg, ok := g.lookup(fs, raws, filled, p.Name)
			if !ok {
				if p.Kind == command.KindRequired {
					missing = append(missing, p.Name)
				}
				continue
			}
			v, err := coerce(p.Type, arg, raw)
			if err != nil {
				return nil, g.usageError(err)
			}
			res.values[p.Name] = v
			res.via[p.Name] = arg
		}
	}

	if len(missing) > 0 {
		return nil, g.usageError(&MissingRequiredArgumentError{Params: missing, Flagged: g.variadic == nil})
	}
	return res, nil
}

// arrange splits tokens into flag tokens (with the values of value flags) and
// positionals, keeping the relative order of each. Everything after "--" and
// every negative number outside a flag value is positional. An explicit value on
// a boolean switch, e.g. "--noforce=false", is rejected.
func (g *Grammar) arrange(tokens []string) (flags, positionals []string, err error) {
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case tok == "--":
			return flags, append(positionals, tokens[i+1:]...), nil
		case len(tok) < 2 || tok[0] != '-' || negativeNumber.MatchString(tok):
			positionals = append(positionals, tok)
			continue
		}

		flags = append(flags, tok)
		if !strings.HasPrefix(tok, "--") {
			continue
		}
		name, value, hasValue := strings.Cut(tok[2:], "=")
		f, ok := g.Flag(name)
		switch {
		case !ok:
		case !f.TakesValue && hasValue:
			return nil, nil, &SwitchValueError{Flag: "--" + name, Value: value}
		case f.TakesValue && !hasValue:
			if i+1 == len(tokens) {
				return nil, nil, &FlagSyntaxError{Message: "flag needs an argument: " + tok}
			}
			i++
			flags = append(flags, tokens[i])
		}
	}
	return flags, positionals, nil
}

// lookup returns the raw text given for a non-boolean parameter and the form it
// was given in ("--name" or "name").
func (g *Grammar) lookup(fs *pflag.FlagSet, raws map[string]*rawValue, filled map[string]string, name string) (raw, arg string, ok bool) {
	if f := fs.Lookup(name); f != nil && f.Changed {
		return raws[name].value, "--" + name, true
	}
	if raw, ok := filled[name]; ok {
		return raw, name, true
	}
	return "", "", false
}

func (g *Grammar) bindBool(fs *pflag.FlagSet, p command.Parameter, res *Result) {
	if f := fs.Lookup(p.Name); f != nil && f.Changed {
		v, _ := fs.GetBool(p.Name)
		res.values[p.Name] = v
		res.via[p.Name] = "--" + p.Name
		return
	}
	negated := command.NegatePrefix + p.Name
	if f := fs.Lookup(negated); f != nil && f.Changed {
		v, _ := fs.GetBool(negated)
		res.values[p.Name] = !v
		res.via[p.Name] = "--" + negated
	}
}

func (g *Grammar) checkDuplicates(fs *pflag.FlagSet, filled map[string]string) error {
	for _, f := range g.flags {
		flag := fs.Lookup(f.Name)
		if flag == nil || !flag.Changed {
			continue
		}
		if f.Negated {
			if pos := fs.Lookup(f.Param); pos != nil && pos.Changed {
				return &DuplicateSpecificationError{Arg: "--" + f.Name, Other: "--" + f.Param}
			}
			continue
		}
		if _, ok := filled[f.Param]; ok {
			return &DuplicateSpecificationError{Arg: "--" + f.Name, Other: f.Param}
		}
	}
	return nil
}

// classify turns a tokenizer error into one of the package's typed errors. The
// first token naming an undefined flag wins; anything else is a syntax error.
func (g *Grammar) classify(err error, tokens []string, fs *pflag.FlagSet) error {
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok == "--" {
			break
		}
		if len(tok) < 2 || tok[0] != '-' {
			continue
		}
		name, hasValue := strings.TrimLeft(tok, "-"), false
		if idx := strings.IndexByte(name, '='); idx >= 0 {
			name, hasValue = name[:idx], true
		}
		if strings.HasPrefix(tok, "--") {
			if f := fs.Lookup(name); f != nil {
				if f.NoOptDefVal == "" && !hasValue {
					i++
				}
				continue
			}
		}
		flag := tok
		if idx := strings.IndexByte(flag, '='); idx >= 0 {
			flag = flag[:idx]
		}
		return &UnknownFlagError{Flag: flag, Suggestions: g.suggestFlags(name)}
	}
	return &FlagSyntaxError{Message: err.Error()}
}

func (g *Grammar) suggestFlags(name string) []string {
	names := make([]string, len(g.flags))
	for i, f := range g.flags {
		names[i] = f.Name
	}
	matches := suggest.For(name, names)
	for i, m := range matches {
		matches[i] = "--" + m
	}
	return matches
}

func (g *Grammar) usageError(err error) error {
	return &UsageError{Prog: g.prog, Usage: g.Usage(), Err: err}
}

func coerce(t command.Type, arg, raw string) (any, error) {
	v, err := t.Coerce(raw)
	if err == nil {
		return v, nil
	}
	if t.Scalar == command.Enum {
		return nil, &InvalidEnumValueError{Arg: arg, Value: raw, Symbols: slices.Clone(t.Symbols)}
	}
	return nil, &InvalidArgumentTypeError{Arg: arg, Value: raw, Type: t}
}

// Value returns the coerced value of a supplied parameter.
func (r *Result) Value(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Supplied reports whether a non-variadic parameter was given.
func (r *Result) Supplied(name string) bool {
	_, ok := r.values[name]
	return ok
}

// Form returns how a supplied parameter was given: "--name", "--noname" or the positional name.
func (r *Result) Form(name string) string { return r.via[name] }

// Names returns the supplied parameter names in sorted order.
func (r *Result) Names() []string {
	names := make([]string, 0, len(r.values))
	for name := range r.values {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Variadic returns the coerced trailing positional values (never nil).
func (r *Result) Variadic() []any { return slices.Clone(r.variadic) }
