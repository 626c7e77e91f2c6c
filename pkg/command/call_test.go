// SPDX-License-Identifier: MPL-2.0

package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
)

func argtestSpec(t *testing.T) Spec {
	t.Helper()

	spec, err := NewSpec("").
		Required("a").
		Required("b").
		Optional("c", 4).
		Optional("d", nil).
		Optional("e", false).
		Optional("f", true).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return spec
}

func TestNewCallDefaults(t *testing.T) {
	t.Parallel()

	call, err := NewCall(argtestSpec(t), []any{"1", "2"}, nil)
	if err != nil {
		t.Fatalf("NewCall() error = %v", err)
	}
	if call.String("a") != "1" || call.String("b") != "2" {
		t.Errorf("a, b = %q, %q", call.String("a"), call.String("b"))
	}
	if call.Int("c") != 4 || call.Supplied("c") {
		t.Errorf("c = %d supplied=%v, want default 4", call.Int("c"), call.Supplied("c"))
	}
	if call.Value("d") != nil {
		t.Errorf("d = %#v, want nil", call.Value("d"))
	}
	if call.Bool("e") || !call.Bool("f") {
		t.Errorf("e, f = %v, %v", call.Bool("e"), call.Bool("f"))
	}
	if len(call.Rest()) != 0 {
		t.Errorf("Rest() = %v, want empty", call.Rest())
	}
}

func TestNewCallNamed(t *testing.T) {
	t.Parallel()

	call, err := NewCall(argtestSpec(t), []any{"1", "2"}, map[string]any{"c": 3, "e": true})
	if err != nil {
		t.Fatalf("NewCall() error = %v", err)
	}
	if call.Int("c") != 3 || !call.Supplied("c") {
		t.Errorf("c = %d, want 3", call.Int("c"))
	}
	if !call.Bool("e") {
		t.Error("e = false, want true")
	}
	named := call.Named()
	named["c"] = 99
	if call.Int("c") != 3 {
		t.Error("Named() returned the internal map")
	}
}

func TestNewCallRejectsIllegalShapes(t *testing.T) {
	t.Parallel()

	spec := argtestSpec(t)
	tests := []struct {
		name  string
		args  []any
		named map[string]any
	}{
		{name: "too few", args: []any{"1"}},
		{name: "too many", args: []any{"1", "2", "3"}},
		{name: "unknown name", args: []any{"1", "2"}, named: map[string]any{"z": 1}},
		{name: "required by name", args: []any{"1", "2"}, named: map[string]any{"a": "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := NewCall(spec, tt.args, tt.named); !errors.Is(err, ErrInvalidCall) {
				t.Errorf("NewCall() error = %v, want ErrInvalidCall", err)
			}
		})
	}
}

func TestCallRest(t *testing.T) {
	t.Parallel()

	spec := NewSpec("").Required("a").Variadic("c", WithType(IntType)).MustBuild()
	call, err := NewCall(spec, []any{"x", 1, 2, 3}, nil)
	if err != nil {
		t.Fatalf("NewCall() error = %v", err)
	}
	if got := call.RestStrings(); !slices.Equal(got, []string{"1", "2", "3"}) {
		t.Errorf("RestStrings() = %v", got)
	}
	if got, ok := call.Value("c").([]any); !ok || len(got) != 3 {
		t.Errorf("Value(c) = %#v", call.Value("c"))
	}
	if !call.Supplied("c") {
		t.Error("Supplied(c) = false")
	}
}

func TestSetAdd(t *testing.T) {
	t.Parallel()

	noop := func(context.Context, *Call) (any, error) { return nil, nil }
	set := NewSet("demo").
		WithLongDescription("A longer description.").
		Add("zeta", NewSpec("z"), noop).
		Add("alpha", NewSpec("a").Required("x"), noop).
		Add("broken", NewSpec("").KeywordCapture("kw"), noop).
		Add("bad:name", NewSpec(""), noop)

	if got := set.Names(); !slices.Equal(got, []string{"alpha", "zeta"}) {
		t.Errorf("Names() = %v", got)
	}
	if set.LongDescription() != "A longer description." {
		t.Errorf("LongDescription() = %q", set.LongDescription())
	}
	err := set.Err()
	if !errors.Is(err, ErrUnsupportedKeywordCapture) || !errors.Is(err, ErrInvalidCommandName) {
		t.Errorf("Err() = %v", err)
	}
	if def, ok := set.Command("alpha"); !ok || def.Spec.Doc != "a" {
		t.Errorf("Command(alpha) = %+v, %v", def, ok)
	}
}

func TestCallIO(t *testing.T) {
	t.Parallel()

	call, err := NewCall(NewSpec("").MustBuild(), nil, nil)
	if err != nil {
		t.Fatalf("NewCall() error = %v", err)
	}
	var out bytes.Buffer
	call.SetIO(nil, &out, nil)
	fmt.Fprint(call.Stdout(), "hello")
	if out.String() != "hello" {
		t.Errorf("Stdout() wrote %q", out.String())
	}
}
