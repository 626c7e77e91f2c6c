// SPDX-License-Identifier: MPL-2.0

// Package completion computes shell completion candidates from namespace metadata.
// It reads through a namespace.Source, normally the metadata cache, and never
// runs a command.
package completion

import (
	"context"
	"slices"
	"strings"

	"github.com/color/clr/internal/grammar"
	"github.com/color/clr/internal/namespace"
	"github.com/color/clr/pkg/command"
)

const (
	// DirectiveDefault means the candidates are the complete answer.
	DirectiveDefault Directive = iota
	// DirectiveFilesystem asks the shell to fall back to filename completion.
	DirectiveFilesystem
)

type (
	// Directive tells the shell integration how to treat a Suggestion.
	Directive int

	// Suggestion is the result of smart completion.
	Suggestion struct {
		Candidates []string
		Directive  Directive
	}

	// Engine answers completion queries.
	Engine struct {
		src namespace.Source
	}

	// usage summarizes the tokens already typed after the query.
	usage struct {
		flags       map[string]bool
		positionals int
	}
)

// New returns an Engine reading from src.
func New(src namespace.Source) *Engine {
	return &Engine{src: src}
}

// Commands completes a query. Without a separator it offers system commands
// (followed by a space) and namespace keys (followed by the separator); with one
// it offers the commands of that namespace. Only candidates starting with query are kept.
func (e *Engine) Commands(ctx context.Context, query string) []string {
	var candidates []string
	if key, _, found := strings.Cut(query, namespace.Separator); found {
		if !slices.Contains(e.src.Keys(), key) {
			return nil
		}
		for _, name := range e.src.Metadata(ctx, key).Commands() {
			candidates = append(candidates, key+namespace.Separator+name+" ")
		}
	} else {
		for _, name := range e.src.Metadata(ctx, namespace.SystemKey).Commands() {
			candidates = append(candidates, name+" ")
		}
		for _, key := range e.src.Keys() {
			candidates = append(candidates, key+namespace.Separator)
		}
	}

	out := candidates[:0]
	for _, c := range candidates {
		if strings.HasPrefix(c, query) {
			out = append(out, c)
		}
	}
	return out
}

// Flags lists the flags of the command named by query, or only the boolean ones.
func (e *Engine) Flags(ctx context.Context, query string, boolsOnly bool) ([]string, error) {
	g, err := e.grammar(ctx, query)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, f := range g.Flags() {
		if boolsOnly && f.TakesValue {
			continue
		}
		out = append(out, "--"+f.Name)
	}
	return out, nil
}

// Smart suggests what to type next after the completed words in tokens:
//   - after a value flag, the flag's choices; nothing for numbers; filenames for text
//   - else the flag of the first required parameter still missing, or filenames
//     when required parameters are positional-only
//   - else the optional flags not used yet
func (e *Engine) Smart(ctx context.Context, query string, tokens []string) (Suggestion, error) {
	g, err := e.grammar(ctx, query)
	if err != nil {
		return Suggestion{}, err
	}

	if n := len(tokens); n > 0 {
		if f, ok := pendingValueFlag(g, tokens[n-1]); ok {
			switch f.Type.Scalar {
			case command.Enum:
				return Suggestion{Candidates: slices.Clone(f.Type.Symbols)}, nil
			case command.Int, command.Float:
				return Suggestion{}, nil
			default:
				return Suggestion{Directive: DirectiveFilesystem}, nil
			}
		}
	}

	used := scan(g, tokens)
	for i, slot := range g.Slots() {
		p := slot.Param
		if p.Kind != command.KindRequired || used.positionals > i || used.flags[p.Name] {
			continue
		}
		if !slot.Flagged {
			return Suggestion{Directive: DirectiveFilesystem}, nil
		}
		return Suggestion{Candidates: []string{"--" + p.Name}}, nil
	}

	supplied := make(map[string]bool)
	for i, slot := range g.Slots() {
		if used.positionals > i {
			supplied[slot.Param.Name] = true
		}
	}
	for _, f := range g.Flags() {
		if used.flags[f.Name] {
			supplied[f.Param] = true
		}
	}

	var candidates []string
	for _, f := range g.Flags() {
		if !supplied[f.Param] {
			candidates = append(candidates, "--"+f.Name)
		}
	}
	if len(candidates) == 0 && g.HasVariadic() {
		return Suggestion{Directive: DirectiveFilesystem}, nil
	}
	return Suggestion{Candidates: candidates}, nil
}

func (e *Engine) grammar(ctx context.Context, query string) (*grammar.Grammar, error) {
	target, err := namespace.Resolve(ctx, e.src, query)
	if err != nil {
		return nil, err
	}
	spec, _ := e.src.Metadata(ctx, target.Namespace).CommandSpec(target.Command)
	return grammar.Build(spec, target.Namespace, target.Command)
}

// pendingValueFlag reports whether tok is a value flag still waiting for its value.
func pendingValueFlag(g *grammar.Grammar, tok string) (grammar.Flag, bool) {
	name, ok := strings.CutPrefix(tok, "--")
	if !ok || strings.Contains(name, "=") {
		return grammar.Flag{}, false
	}
	f, ok := g.Flag(name)
	if !ok || !f.TakesValue {
		return grammar.Flag{}, false
	}
	return f, true
}

func scan(g *grammar.Grammar, tokens []string) usage {
	u := usage{flags: make(map[string]bool)}
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok == "--" {
			u.positionals += len(tokens) - i - 1
			break
		}
		name, ok := strings.CutPrefix(tok, "--")
		if !ok {
			u.positionals++
			continue
		}
		name, _, hasValue := strings.Cut(name, "=")
		u.flags[name] = true
		if f, known := g.Flag(name); known && f.TakesValue && !hasValue {
			i++
		}
	}
	return u
}
