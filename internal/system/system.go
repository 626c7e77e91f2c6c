// SPDX-License-Identifier: MPL-2.0

package system

import (
	"cmp"
	"context"
	"embed"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/color/clr/internal/completion"
	"github.com/color/clr/internal/namespace"
	"github.com/color/clr/pkg/command"
)

// Description is the short description of the system namespace.
const Description = "clr built-in commands"

// exitFilesystem tells the shell integration to fall back to filename completion.
const exitFilesystem = 2

//go:embed scripts/clr.bash scripts/clr.zsh
var scripts embed.FS

type (
	// Cache is the part of the metadata cache the system namespace maintains.
	Cache interface {
		Clear() error
		Path() string
	}

	// Deps are the collaborators of the system commands. Source answers help and
	// completion (normally the cache); Registry is used for live loads.
	Deps struct {
		Source   namespace.Source
		Registry *namespace.Registry
		Cache    Cache
		Logger   *log.Logger
		// Now is the clock used by profile_imports.
		Now func() time.Time
	}

	commands struct {
		Deps
		engine *completion.Engine
	}
)

// New declares the system namespace.
func New(d Deps) *command.Set {
	if d.Logger == nil {
		d.Logger = log.New(io.Discard)
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	c := &commands{Deps: d, engine: completion.New(d.Source)}

	return command.NewSet(Description).
		WithLongDescription(Description+". They are also available without the `system:` prefix.").
		Add("help", command.NewSpec(
			"Provides help for commands. `query` is a namespace or a namespace:command;\n"+
				"a command may also be given as the second argument.").
			Optional("query", nil).
			Optional("query2", nil), c.help).
		Add("completion", command.NewSpec(
			"Completes a partial query: system commands, namespaces and namespace:command pairs.").
			Optional("query", ""), c.completion).
		Add("complete_flags", command.NewSpec(
			"Lists the flags of a command.").
			Required("query").
			Optional("bools_only", false, command.WithHelp("only list boolean flags")), c.completeFlags).
		Add("smart_complete", command.NewSpec(
			"Suggests the next word for a partially typed command line. Exits with status 2\n"+
				"when the shell should complete filenames instead.").
			Required("query").
			Variadic("tokens"), c.smartComplete).
		Add("clear_cache", command.NewSpec(
			"Removes the namespace metadata cache. It is rebuilt on the next run."), c.clearCache).
		Add("profile_imports", command.NewSpec(
			"Loads namespaces and prints how long each took, in milliseconds.").
			Variadic("namespaces"), c.profileImports).
		Add("completion_script", command.NewSpec(
			"Prints the shell integration for completion.").
			Optional("shell", command.Choice{Symbols: []string{"bash", "zsh"}, Value: "bash"}), c.completionScript).
		Add("argtest", command.NewSpec(
			"Echoes its bound arguments.").
			Required("a").
			Required("b").
			Optional("c", 4).
			Optional("d", nil).
			Optional("e", false).
			Optional("f", true), argtest).
		Add("argtest2", command.NewSpec(
			"Echoes its bound arguments, with a variadic parameter.").
			Required("a").
			Required("b").
			Variadic("c").
			Optional("d", 4).
			Optional("e", nil).
			Optional("f", false).
			Optional("g", ""), argtest2)
}

func (c *commands) completion(ctx context.Context, call *command.Call) (any, error) {
	fmt.Fprint(call.Stdout(), strings.Join(c.engine.Commands(ctx, call.String("query")), "\n"))
	return nil, nil
}

func (c *commands) completeFlags(ctx context.Context, call *command.Call) (any, error) {
	flags, err := c.engine.Flags(ctx, call.String("query"), call.Bool("bools_only"))
	if err != nil {
		c.Logger.Debug("flag completion failed", "query", call.String("query"), "error", err)
		return 1, nil
	}
	fmt.Fprint(call.Stdout(), strings.Join(flags, "\n"))
	return nil, nil
}

func (c *commands) smartComplete(ctx context.Context, call *command.Call) (any, error) {
	s, err := c.engine.Smart(ctx, call.String("query"), call.RestStrings())
	if err != nil {
		c.Logger.Debug("smart completion failed", "query", call.String("query"), "error", err)
		return 1, nil
	}
	if s.Directive == completion.DirectiveFilesystem {
		return exitFilesystem, nil
	}
	fmt.Fprint(call.Stdout(), strings.Join(s.Candidates, "\n"))
	return nil, nil
}

func (c *commands) clearCache(_ context.Context, call *command.Call) (any, error) {
	if c.Cache == nil {
		fmt.Fprintln(call.Stdout(), "metadata cache is disabled")
		return nil, nil
	}
	if err := c.Cache.Clear(); err != nil {
		return nil, fmt.Errorf("clearing %s: %w", c.Cache.Path(), err)
	}
	fmt.Fprintln(call.Stdout(), "removed", c.Cache.Path())
	return nil, nil
}

func (c *commands) profileImports(ctx context.Context, call *command.Call) (any, error) {
	keys := call.RestStrings()
	if len(keys) == 0 {
		keys = c.Registry.Keys()
	}

	type timing struct {
		label string
		took  time.Duration
	}
	timings := make([]timing, 0, len(keys))
	for i, key := range keys {
		start := c.Now()
		c.Registry.Get(ctx, key)
		timings = append(timings, timing{label: fmt.Sprintf("%d-%s", i, key), took: c.Now().Sub(start)})
	}
	slices.SortStableFunc(timings, func(a, b timing) int { return cmp.Compare(a.took, b.took) })

	lines := make([]string, len(timings))
	for i, t := range timings {
		lines[i] = fmt.Sprintf("%s: %d", t.label, t.took.Milliseconds())
	}
	fmt.Fprintln(call.Stdout(), strings.Join(lines, "\n"))
	return nil, nil
}

func (c *commands) completionScript(_ context.Context, call *command.Call) (any, error) {
	data, err := scripts.ReadFile("scripts/clr." + call.String("shell"))
	if err != nil {
		return nil, err
	}
	_, err = call.Stdout().Write(data)
	return nil, err
}

func argtest(_ context.Context, call *command.Call) (any, error) {
	fmt.Fprintf(call.Stdout(), "a=%v b=%v c=%v d=%v e=%v f=%v\n",
		call.Value("a"), call.Value("b"), call.Value("c"),
		call.Value("d"), call.Value("e"), call.Value("f"))
	return nil, nil
}

func argtest2(_ context.Context, call *command.Call) (any, error) {
	fmt.Fprintf(call.Stdout(), "a=%v b=%v c=%v d=%v e=%v f=%v g=%v\n",
		call.Value("a"), call.Value("b"), call.RestStrings(),
		call.Value("d"), call.Value("e"), call.Value("f"), call.Value("g"))
	return nil, nil
}
