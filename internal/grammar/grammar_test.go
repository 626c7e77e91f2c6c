// SPDX-License-Identifier: MPL-2.0

package grammar

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/color/clr/pkg/command"
)

func argtestSpec() command.Spec {
	return command.NewSpec("Echo the bound arguments.").
		Required("a").
		Required("b").
		Optional("c", 4).
		Optional("d", nil).
		Optional("e", false).
		Optional("f", true).
		MustBuild()
}

func variadicSpec() command.Spec {
	return command.NewSpec("").
		Required("a").
		Required("b").
		Variadic("c", command.WithType(command.IntType)).
		Optional("d", false).
		Optional("g", "x").
		MustBuild()
}

func mustBuild(t *testing.T, spec command.Spec) *Grammar {
	t.Helper()

	g, err := Build(spec, "system", "argtest")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return g
}

func values(res *Result) map[string]any {
	out := make(map[string]any)
	for _, name := range res.Names() {
		out[name], _ = res.Value(name)
	}
	return out
}

func TestParseArgtest(t *testing.T) {
	t.Parallel()

	g := mustBuild(t, argtestSpec())

	tests := []struct {
		name    string
		tokens  []string
		want    map[string]any
		wantErr error
		wantMsg string
	}{
		{
			name:   "required positionally",
			tokens: []string{"1", "2"},
			want:   map[string]any{"a": "1", "b": "2"},
		},
		{
			name:   "all positional plus bool flag",
			tokens: []string{"1", "2", "3", "4", "--e"},
			want:   map[string]any{"a": "1", "b": "2", "c": 3, "d": "4", "e": true},
		},
		{
			name:   "named forms",
			tokens: []string{"--b", "2", "--a=1", "--c", "7", "--nof"},
			want:   map[string]any{"a": "1", "b": "2", "c": 7, "f": false},
		},
		{
			name:    "missing required",
			tokens:  []string{"1"},
			wantErr: ErrMissingRequiredArgument,
			wantMsg: "one of the arguments --b b is required",
		},
		{
			name:    "bad int",
			tokens:  []string{"11", "2", "--c=ccc"},
			wantErr: ErrInvalidArgumentType,
			wantMsg: "argument --c: invalid int value: 'ccc'",
		},
		{
			name:    "bad positional int",
			tokens:  []string{"11", "2", "x"},
			wantErr: ErrInvalidArgumentType,
			wantMsg: "argument c: invalid int value: 'x'",
		},
		{
			name:    "duplicate required",
			tokens:  []string{"1", "2", "--a", "1"},
			wantErr: ErrDuplicateSpecification,
			wantMsg: "argument --a: not allowed with argument a",
		},
		{
			name:    "both bool flags",
			tokens:  []string{"1", "2", "--e", "--noe"},
			wantErr: ErrDuplicateSpecification,
			wantMsg: "argument --noe: not allowed with argument --e",
		},
		{
			name:    "surplus positionals",
			tokens:  []string{"1", "2", "3", "4", "5"},
			wantErr: ErrUnexpectedArgument,
			wantMsg: "unrecognized arguments: 5",
		},
		{
			name:    "unknown flag",
			tokens:  []string{"1", "2", "--cc=3"},
			wantErr: ErrUnknownFlag,
			wantMsg: "unrecognized arguments: --cc (did you mean --c?)",
		},
		{
			name:    "value flag without value",
			tokens:  []string{"1", "2", "--c"},
			wantErr: ErrFlagSyntax,
		},
		{
			name:   "negative numbers positionally",
			tokens: []string{"-1", "2", "-3"},
			want:   map[string]any{"a": "-1", "b": "2", "c": -3},
		},
		{
			name:   "negative number as flag value",
			tokens: []string{"1", "2", "--c", "-5"},
			want:   map[string]any{"a": "1", "b": "2", "c": -5},
		},
		{
			name:    "negated switch with value",
			tokens:  []string{"1", "2", "--noe=false"},
			wantErr: ErrSwitchValue,
			wantMsg: "argument --noe: ignored explicit argument 'false'",
		},
		{
			name:    "switch with value",
			tokens:  []string{"1", "2", "--e=true"},
			wantErr: ErrSwitchValue,
			wantMsg: "argument --e: ignored explicit argument 'true'",
		},
		{
			name:   "terminator",
			tokens: []string{"--", "-1", "--x"},
			want:   map[string]any{"a": "-1", "b": "--x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := g.Parse(tt.tokens)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse() error = %v, want %v", err, tt.wantErr)
				}
				var usageErr *UsageError
				if !errors.As(err, &usageErr) {
					t.Fatalf("Parse() error is not a *UsageError: %v", err)
				}
				if !strings.HasPrefix(usageErr.Usage, "usage: clr system:argtest") {
					t.Errorf("Usage = %q", usageErr.Usage)
				}
				if tt.wantMsg != "" && usageErr.Err.Error() != tt.wantMsg {
					t.Errorf("message = %q, want %q", usageErr.Err.Error(), tt.wantMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got := values(res); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("values = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestPositionalAndNamedEquivalent(t *testing.T) {
	t.Parallel()

	g := mustBuild(t, command.NewSpec("").
		Required("x", command.WithType(command.IntType)).
		Required("y", command.WithType(command.FloatType)).
		Required("z", command.WithType(command.ChoiceOf("red", "green"))).
		MustBuild())

	positional, err := g.Parse([]string{"1", "2.5", "GREEN"})
	if err != nil {
		t.Fatalf("Parse(positional) error = %v", err)
	}
	named, err := g.Parse([]string{"--z", "green", "--x=1", "--y", "2.5"})
	if err != nil {
		t.Fatalf("Parse(named) error = %v", err)
	}
	if !reflect.DeepEqual(values(positional), values(named)) {
		t.Errorf("positional %v != named %v", values(positional), values(named))
	}
}

func TestBoolDualFlags(t *testing.T) {
	t.Parallel()

	g := mustBuild(t, command.NewSpec("").Optional("e", false).MustBuild())

	tests := []struct {
		tokens   []string
		want     any
		supplied bool
	}{
		{tokens: nil, supplied: false},
		{tokens: []string{"--e"}, want: true, supplied: true},
		{tokens: []string{"--noe"}, want: false, supplied: true},
	}
	for _, tt := range tests {
		res, err := g.Parse(tt.tokens)
		if err != nil {
			t.Fatalf("Parse(%v) error = %v", tt.tokens, err)
		}
		got, ok := res.Value("e")
		if ok != tt.supplied || (ok && got != tt.want) {
			t.Errorf("Parse(%v) e = %v (supplied %v), want %v (supplied %v)", tt.tokens, got, ok, tt.want, tt.supplied)
		}
	}
	if _, err := g.Parse([]string{"1"}); !errors.Is(err, ErrUnexpectedArgument) {
		t.Errorf("bool parameter accepted a positional: %v", err)
	}
}

func TestVariadic(t *testing.T) {
	t.Parallel()

	g := mustBuild(t, variadicSpec())

	res, err := g.Parse([]string{"1", "2"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := res.Variadic(); got == nil || len(got) != 0 {
		t.Errorf("Variadic() = %#v, want empty", got)
	}

	res, err = g.Parse([]string{"1", "2", "3", "--g", "y", "4", "5"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := res.Variadic(); !reflect.DeepEqual(got, []any{3, 4, 5}) {
		t.Errorf("Variadic() = %#v", got)
	}
	if v, _ := res.Value("g"); v != "y" {
		t.Errorf("g = %v", v)
	}

	res, err = g.Parse([]string{"1", "2", "-3", "4", "--d"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := res.Variadic(); !reflect.DeepEqual(got, []any{-3, 4}) {
		t.Errorf("Variadic() with negatives = %#v", got)
	}

	if _, err := g.Parse([]string{"--a", "1", "2"}); !errors.Is(err, ErrUnknownFlag) {
		t.Errorf("required flag offered alongside a variadic: %v", err)
	}

	_, err = g.Parse([]string{"1"})
	var missing *MissingRequiredArgumentError
	if !errors.As(err, &missing) || missing.Error() != "the following arguments are required: b" {
		t.Errorf("Parse() error = %v, want positional-only missing error", err)
	}

	if _, err := g.Parse([]string{"1", "2", "x"}); !errors.Is(err, ErrInvalidArgumentType) {
		t.Errorf("variadic value not coerced: %v", err)
	}
}

func TestEnumValue(t *testing.T) {
	t.Parallel()

	g := mustBuild(t, command.NewSpec("").
		Optional("level", command.Choice{Symbols: []string{"debug", "info"}, Value: "info"}).
		MustBuild())

	_, err := g.Parse([]string{"--level", "loud"})
	if !errors.Is(err, ErrInvalidEnumValue) {
		t.Fatalf("Parse() error = %v", err)
	}
	var enumErr *InvalidEnumValueError
	if !errors.As(err, &enumErr) || enumErr.Error() != "argument --level: invalid choice: 'loud' (choose from 'debug', 'info')" {
		t.Errorf("message = %v", err)
	}
}

func TestHelpRequested(t *testing.T) {
	t.Parallel()

	g := mustBuild(t, argtestSpec())
	for _, tok := range []string{"-h", "--help"} {
		if _, err := g.Parse([]string{"1", tok}); !errors.Is(err, ErrHelpRequested) {
			t.Errorf("Parse(%s) error = %v", tok, err)
		}
	}
}

func TestUsageAndHelp(t *testing.T) {
	t.Parallel()

	g := mustBuild(t, argtestSpec())
	want := "usage: clr system:argtest [-h] [--a A] [--b B] [--c C] [--d D] [--e | --noe] [--f | --nof] [a] [b] [c] [d]"
	if got := g.Usage(); got != want {
		t.Errorf("Usage() = %q\nwant      %q", got, want)
	}

	help := g.Help()
	for _, fragment := range []string{
		"Echo the bound arguments.",
		"required unless given positionally as a",
		"default: 4; may also be given positionally as c",
		"default: none",
		"sets e to true; default: false",
		"sets f to false",
	} {
		if !strings.Contains(help, fragment) {
			t.Errorf("Help() missing %q:\n%s", fragment, help)
		}
	}

	v := mustBuild(t, variadicSpec())
	if got := v.Usage(); got != "usage: clr system:argtest [-h] [--d | --nod] [--g G] a b [c ...]" {
		t.Errorf("Usage() = %q", got)
	}
}

func TestBuildRevalidates(t *testing.T) {
	t.Parallel()

	spec := command.Spec{Params: []command.Parameter{
		{Name: "a", Kind: command.KindOptional, Type: command.IntType, Default: 1},
		{Name: "b", Kind: command.KindVariadic, Type: command.TextType},
	}}
	if _, err := Build(spec, "ns", "cmd"); !errors.Is(err, command.ErrParameterOrderingViolation) {
		t.Errorf("Build() error = %v", err)
	}
}
