// SPDX-License-Identifier: MPL-2.0

package grammar

import (
	"fmt"
	"strings"

	"github.com/color/clr/pkg/command"
)

const helpColumn = 24

// Usage returns the one-line synopsis, e.g.
// "usage: clr ns:cmd [-h] [--a A] [--e | --noe] [a] [rest ...]".
func (g *Grammar) Usage() string {
	parts := []string{"usage:", g.prog, "[-h]"}
	for i := 0; i < len(g.flags); i++ {
		f := g.flags[i]
		switch {
		case f.TakesValue:
			parts = append(parts, fmt.Sprintf("[--%s %s]", f.Name, metavar(f.Name)))
		case i+1 < len(g.flags) && g.flags[i+1].Negated:
			parts = append(parts, fmt.Sprintf("[--%s | --%s]", f.Name, g.flags[i+1].Name))
			i++
		default:
			parts = append(parts, "[--"+f.Name+"]")
		}
	}
	for _, s := range g.slots {
		if s.Flagged {
			parts = append(parts, "["+s.Param.Name+"]")
			continue
		}
		parts = append(parts, s.Param.Name)
	}
	if g.variadic != nil {
		parts = append(parts, "["+g.variadic.Name+" ...]")
	}
	return strings.Join(parts, " ")
}

// Help returns the full help text: usage, documentation and one line per form
// stating whether it is required, its default and its alternate form.
func (g *Grammar) Help() string {
	var b strings.Builder
	b.WriteString(g.Usage())
	b.WriteString("\n")
	if doc := strings.TrimSpace(g.spec.Doc); doc != "" {
		b.WriteString("\n")
		b.WriteString(doc)
		b.WriteString("\n")
	}

	if len(g.slots) > 0 || g.variadic != nil {
		b.WriteString("\npositional arguments:\n")
		for _, s := range g.slots {
			writeEntry(&b, s.Param.Name, s.Help)
		}
		if g.variadic != nil {
			writeEntry(&b, g.variadic.Name, describe(g.variadic.Help, "zero or more "+g.variadic.Type.String()+" values"))
		}
	}

	b.WriteString("\noptions:\n")
	writeEntry(&b, "-h, --help", "show this help message and exit")
	for _, f := range g.flags {
		label := "--" + f.Name
		if f.TakesValue {
			label += " " + metavar(f.Name)
		}
		writeEntry(&b, label, f.Help)
	}
	return b.String()
}

func writeEntry(b *strings.Builder, label, help string) {
	if len(label)+4 > helpColumn {
		fmt.Fprintf(b, "  %s\n%s%s\n", label, strings.Repeat(" ", helpColumn), help)
		return
	}
	fmt.Fprintf(b, "  %-*s%s\n", helpColumn-2, label, help)
}

func metavar(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

// describe joins a parameter's own help with bracketed notes about how it may be given.
func describe(help string, notes ...string) string {
	note := "[" + strings.Join(notes, "; ") + "]"
	if help == "" {
		return note
	}
	return help + " " + note
}

func formatDefault(v any) string {
	if v == nil {
		return "none"
	}
	return command.FormatValue(v)
}
