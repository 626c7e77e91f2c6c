// SPDX-License-Identifier: MPL-2.0

package namespace

import (
	"fmt"

	"github.com/color/clr/pkg/command"
)

// SystemKey is the key of the implicit namespace of built-in commands.
const SystemKey = "system"

type (
	// Metadata is the description of a namespace that help and completion need.
	// Live namespaces, failed loads and cache entries all provide it.
	Metadata interface {
		Key() string
		Description() string
		LongDescription() string
		// Commands returns the command names in sorted order.
		Commands() []string
		CommandSpec(name string) (command.Spec, bool)
	}

	// Outcome is the result of loading a namespace: either *Loaded or *Failed.
	// Callers switch on the concrete type.
	Outcome interface {
		Metadata
		outcome()
	}

	// Loaded is a namespace whose implementation loaded successfully.
	Loaded struct {
		key     string
		locator string
		set     *command.Set
	}

	// Failed stands in for a namespace whose implementation could not be loaded.
	// It has no commands, so it can be listed and inspected through help but never executed.
	Failed struct {
		key     string
		locator string
		err     error
	}
)

// NewLoaded wraps a successfully loaded declaration.
func NewLoaded(key, locator string, set *command.Set) *Loaded {
	return &Loaded{key: key, locator: locator, set: set}
}

// NewFailed records a load failure for key.
func NewFailed(key, locator string, err error) *Failed {
	return &Failed{key: key, locator: locator, err: err}
}

func (*Loaded) outcome() {}
func (*Failed) outcome() {}

// Key returns the namespace key.
func (n *Loaded) Key() string { return n.key }

// Locator returns the declaration the namespace was loaded from.
func (n *Loaded) Locator() string { return n.locator }

// Description returns the short description.
func (n *Loaded) Description() string { return n.set.Description() }

// LongDescription returns the long description.
func (n *Loaded) LongDescription() string { return n.set.LongDescription() }

// Commands returns the command names in sorted order.
func (n *Loaded) Commands() []string { return n.set.Names() }

// CommandSpec returns the spec of a command.
func (n *Loaded) CommandSpec(name string) (command.Spec, bool) {
	def, ok := n.set.Command(name)
	if !ok {
		return command.Spec{}, false
	}
	return def.Spec.Clone(), true
}

// Command returns a command with its implementation.
func (n *Loaded) Command(name string) (command.Definition, bool) {
	return n.set.Command(name)
}

// Set returns the declaration backing the namespace.
func (n *Loaded) Set() *command.Set { return n.set }

// Key returns the namespace key.
func (n *Failed) Key() string { return n.key }

// Locator returns the declaration that failed to load.
func (n *Failed) Locator() string { return n.locator }

// Err returns the load failure.
func (n *Failed) Err() error { return n.err }

// Description points the user at detailed help.
func (n *Failed) Description() string {
	return fmt.Sprintf("ERROR Could not load. See `clr help %s`", n.key)
}

// LongDescription carries the original failure.
func (n *Failed) LongDescription() string {
	return fmt.Sprintf("Error loading %q for namespace %q:\n\n%v", n.locator, n.key, n.err)
}

// Commands returns nil: a failed namespace exports nothing.
func (n *Failed) Commands() []string { return nil }

// CommandSpec always reports false.
func (n *Failed) CommandSpec(string) (command.Spec, bool) { return command.Spec{}, false }

// Error implements the error interface so a Failed can be returned as the cause of
// an attempted execution.
func (n *Failed) Error() string {
	return fmt.Sprintf("namespace %q could not be loaded: %v", n.key, n.err)
}

// Unwrap returns the load failure.
func (n *Failed) Unwrap() error { return n.err }
