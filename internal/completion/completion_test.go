// SPDX-License-Identifier: MPL-2.0

package completion

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/color/clr/internal/namespace"
	"github.com/color/clr/pkg/command"
)

func noop(context.Context, *command.Call) (any, error) { return nil, nil }

func newEngine(t *testing.T) *Engine {
	t.Helper()

	reg := namespace.NewRegistry(map[string]string{
		"deploy": "go:deploy",
		"docs":   "go:docs",
	}, nil)
	reg.SetSystem(command.NewSet("built-ins").
		Add("help", command.NewSpec(""), noop).
		Add("completion", command.NewSpec(""), noop))
	reg.RegisterLoader(namespace.SchemeGo, namespace.Providers{
		"deploy": func(context.Context) (*command.Set, error) {
			return command.NewSet("deployment").
				Add("push", command.NewSpec("").
					Required("tag").
					Required("count", command.WithType(command.IntType)).
					Optional("env", command.Choice{Symbols: []string{"dev", "prod"}, Value: "dev"}).
					Optional("note", "").
					Optional("force", false), noop).
				Add("pull", command.NewSpec("").
					Required("service").
					Variadic("files").
					Optional("ratio", 0.5), noop), nil
		},
		"docs": func(context.Context) (*command.Set, error) {
			return command.NewSet("docs").Add("build", command.NewSpec(""), noop), nil
		},
	})
	return New(reg)
}

func TestCommands(t *testing.T) {
	t.Parallel()

	e := newEngine(t)
	ctx := context.Background()

	tests := []struct {
		query string
		want  []string
	}{
		{query: "", want: []string{"completion ", "help ", "deploy:", "docs:", "system:"}},
		{query: "d", want: []string{"deploy:", "docs:"}},
		{query: "h", want: []string{"help "}},
		{query: "deploy:", want: []string{"deploy:pull ", "deploy:push "}},
		{query: "deploy:pus", want: []string{"deploy:push "}},
		{query: "nope:", want: nil},
	}
	for _, tt := range tests {
		if got := e.Commands(ctx, tt.query); !slices.Equal(got, tt.want) {
			t.Errorf("Commands(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestFlags(t *testing.T) {
	t.Parallel()

	e := newEngine(t)
	ctx := context.Background()

	all, err := e.Flags(ctx, "deploy:push", false)
	if err != nil {
		t.Fatalf("Flags() error = %v", err)
	}
	if want := []string{"--tag", "--count", "--env", "--note", "--force", "--noforce"}; !slices.Equal(all, want) {
		t.Errorf("Flags() = %v, want %v", all, want)
	}

	bools, err := e.Flags(ctx, "deploy:push", true)
	if err != nil {
		t.Fatalf("Flags(boolsOnly) error = %v", err)
	}
	if want := []string{"--force", "--noforce"}; !slices.Equal(bools, want) {
		t.Errorf("Flags(boolsOnly) = %v, want %v", bools, want)
	}

	if _, err := e.Flags(ctx, "deploy:nope", false); !errors.Is(err, namespace.ErrUnknownCommand) {
		t.Errorf("Flags(unknown) error = %v", err)
	}
}

func TestSmart(t *testing.T) {
	t.Parallel()

	e := newEngine(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		query  string
		tokens []string
		want   Suggestion
	}{
		{
			name:  "first required flag",
			query: "deploy:push",
			want:  Suggestion{Candidates: []string{"--tag"}},
		},
		{
			name:   "next required after positional",
			query:  "deploy:push",
			tokens: []string{"v1"},
			want:   Suggestion{Candidates: []string{"--count"}},
		},
		{
			name:   "required satisfied by flag",
			query:  "deploy:push",
			tokens: []string{"--count", "3", "--tag=v1"},
			want:   Suggestion{Candidates: []string{"--env", "--note", "--force", "--noforce"}},
		},
		{
			name:   "used optionals are dropped",
			query:  "deploy:push",
			tokens: []string{"v1", "3", "--noforce", "prod"},
			want:   Suggestion{Candidates: []string{"--note"}},
		},
		{
			name:   "choice values",
			query:  "deploy:push",
			tokens: []string{"v1", "3", "--env"},
			want:   Suggestion{Candidates: []string{"dev", "prod"}},
		},
		{
			name:   "numeric value",
			query:  "deploy:push",
			tokens: []string{"--count"},
			want:   Suggestion{},
		},
		{
			name:   "text value",
			query:  "deploy:push",
			tokens: []string{"--note"},
			want:   Suggestion{Directive: DirectiveFilesystem},
		},
		{
			name:  "positional-only required",
			query: "deploy:pull",
			want:  Suggestion{Directive: DirectiveFilesystem},
		},
		{
			name:   "variadic with optionals left",
			query:  "deploy:pull",
			tokens: []string{"web"},
			want:   Suggestion{Candidates: []string{"--ratio"}},
		},
		{
			name:   "variadic with nothing left",
			query:  "deploy:pull",
			tokens: []string{"web", "--ratio", "1"},
			want:   Suggestion{Directive: DirectiveFilesystem},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := e.Smart(ctx, tt.query, tt.tokens)
			if err != nil {
				t.Fatalf("Smart() error = %v", err)
			}
			if !slices.Equal(got.Candidates, tt.want.Candidates) || got.Directive != tt.want.Directive {
				t.Errorf("Smart(%v) = %+v, want %+v", tt.tokens, got, tt.want)
			}
		})
	}
}
