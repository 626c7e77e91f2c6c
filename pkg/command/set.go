// SPDX-License-Identifier: MPL-2.0

package command

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidCommandName is returned when a command is registered under an unusable name.
var ErrInvalidCommandName = errors.New("invalid command name")

type (
	// Definition is one registered command: its name, declared Spec and implementation.
	Definition struct {
		Name string
		Spec Spec
		Run  Func
	}

	// Set is the declaration of a namespace: its descriptions and the table of commands it exports.
	// Build errors are recorded instead of returned so that registration reads as a
	// single chain; Err reports them.
	Set struct {
		descr     string
		longDescr string
		commands  map[string]Definition
		errs      []error
	}
)

// NewSet starts a namespace declaration with a short description.
func NewSet(descr string) *Set {
	return &Set{descr: descr, commands: make(map[string]Definition)}
}

// WithLongDescription sets the text shown by detailed help. It defaults to the short description.
func (s *Set) WithLongDescription(long string) *Set {
	s.longDescr = long
	return s
}

// Add registers a command. The builder is built here; a failing build is recorded
// and the command is left out.
func (s *Set) Add(name string, b *Builder, fn Func) *Set {
	if name == "" || strings.ContainsAny(name, ": \t\n") {
		s.errs = append(s.errs, fmt.Errorf("%w: %q", ErrInvalidCommandName, name))
		return s
	}
	if _, dup := s.commands[name]; dup {
		s.errs = append(s.errs, fmt.Errorf("%w: %q registered twice", ErrInvalidCommandName, name))
		return s
	}
	if fn == nil {
		s.errs = append(s.errs, fmt.Errorf("command %q: %w: nil implementation", name, ErrInvalidCommandName))
		return s
	}
	spec, err := b.Build()
	if err != nil {
		s.errs = append(s.errs, fmt.Errorf("command %q: %w", name, err))
		return s
	}
	s.commands[name] = Definition{Name: name, Spec: spec, Run: fn}
	return s
}

// Description returns the short description.
func (s *Set) Description() string { return s.descr }

// LongDescription returns the long description, or the short one when none was set.
func (s *Set) LongDescription() string {
	if s.longDescr == "" {
		return s.descr
	}
	return s.longDescr
}

// Command returns the named command.
func (s *Set) Command(name string) (Definition, bool) {
	def, ok := s.commands[name]
	return def, ok
}

// Names returns the registered command names in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.commands))
	for name := range s.commands {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Err returns every registration error, joined, or nil.
func (s *Set) Err() error {
	return errors.Join(s.errs...)
}
