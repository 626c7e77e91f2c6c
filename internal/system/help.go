// SPDX-License-Identifier: MPL-2.0

package system

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/color/clr/internal/namespace"
	"github.com/color/clr/pkg/command"
)

const (
	helpWidth = 70
	keyColumn = 20
)

func (c *commands) help(ctx context.Context, call *command.Call) (any, error) {
	out := call.Stdout()
	query, query2 := call.String("query"), call.String("query2")

	if query == "" {
		fmt.Fprintln(out, "Available namespaces")
		for _, key := range c.Source.Keys() {
			fmt.Fprintf(out, "  %-*s - %s\n", keyColumn, key, c.Source.Metadata(ctx, key).Description())
		}
		return nil, nil
	}

	if query2 == "" && slices.Contains(c.Source.Keys(), query) {
		md := c.Source.Metadata(ctx, query)
		fmt.Fprintln(out, query, "-", md.LongDescription())
		for _, name := range md.Commands() {
			spec, _ := md.CommandSpec(name)
			WriteCommandHelp(out, name, spec, "  ")
		}
		return nil, nil
	}

	if query2 != "" {
		query += namespace.Separator + query2
	}
	target, err := namespace.Resolve(ctx, c.Source, query)
	if err != nil {
		fmt.Fprintln(call.Stderr(), "Error!", err)
		return 1, nil
	}
	spec, _ := c.Source.Metadata(ctx, target.Namespace).CommandSpec(target.Command)
	WriteCommandHelp(out, target.Command, spec, "")
	return nil, nil
}

// WriteCommandHelp writes the synopsis of a command followed by its documentation,
// e.g. "deploy <env> [--force --tag=<none>] [hosts...]", wrapped at 70 columns
// under prefix. Documentation lines are indented two more columns.
func WriteCommandHelp(w io.Writer, name string, spec command.Spec, prefix string) {
	var required, optional []string
	variadic := ""
	for _, p := range spec.Params {
		switch p.Kind {
		case command.KindRequired:
			required = append(required, "<"+p.Name+">")
		case command.KindOptional:
			optional = append(optional, optionalSynopsis(p))
		case command.KindVariadic:
			variadic = "[" + p.Name + "...]"
		}
	}

	var parts []string
	if len(required) > 0 {
		parts = append(parts, strings.Join(required, " "))
	}
	if len(optional) > 0 {
		parts = append(parts, "["+strings.Join(optional, " ")+"]")
	}
	if variadic != "" {
		parts = append(parts, variadic)
	}
	fmt.Fprintln(w, fill(name+" "+strings.Join(parts, " "), prefix))

	if strings.TrimSpace(spec.Doc) == "" {
		return
	}
	for _, line := range strings.Split(strings.TrimSpace(spec.Doc), "\n") {
		fmt.Fprintln(w, fill(line, prefix+"  "))
	}
}

// optionalSynopsis renders an optional parameter the way it is switched on:
// --x for a false bool, --nox for a true one, --x=default otherwise.
func optionalSynopsis(p command.Parameter) string {
	if b, ok := p.Default.(bool); ok {
		if b {
			return "--" + command.NegatePrefix + p.Name
		}
		return "--" + p.Name
	}
	if p.Default == nil {
		return "--" + p.Name + "=<none>"
	}
	return "--" + p.Name + "=" + command.FormatValue(p.Default)
}

// fill wraps text to helpWidth columns, prefix included, and indents every line.
// Blank text yields an empty line.
func fill(text, prefix string) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return ""
	}
	limit := max(helpWidth-ansi.StringWidth(prefix), 1)
	lines := strings.Split(ansi.Wordwrap(text, limit, ""), "\n")
	for i, line := range lines {
		lines[i] = prefix + strings.TrimRight(line, " ")
	}
	return strings.Join(lines, "\n")
}
