// SPDX-License-Identifier: MPL-2.0

package namespace

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownNamespace is returned when a query names an undeclared namespace.
	ErrUnknownNamespace = errors.New("unknown namespace")
	// ErrUnknownCommand is returned when a namespace does not export the queried command.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrUnknownLocator is returned when a declaration uses a scheme or provider name
	// the binary does not know.
	ErrUnknownLocator = errors.New("unknown locator")
	// ErrLoaderPanic is returned when a loader panics.
	ErrLoaderPanic = errors.New("namespace loader panicked")
)

type (
	// UnknownNamespaceError is returned by Resolve for an undeclared key.
	UnknownNamespaceError struct {
		Key         string
		Suggestions []string
		Available   []string
	}

	// UnknownCommandError is returned by Resolve when the namespace exists but the
	// command does not.
	UnknownCommandError struct {
		Namespace   string
		Description string
		Command     string
		Suggestions []string
		Available   []string
	}
)

// Error implements the error interface for UnknownNamespaceError.
func (e *UnknownNamespaceError) Error() string {
	return fmt.Sprintf("command namespace '%s' does not exist.\nClosest matches: %s\n\nAvailable namespaces: %s",
		e.Key, formatList(e.Suggestions), formatList(e.Available))
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *UnknownNamespaceError) Unwrap() error { return ErrUnknownNamespace }

// Error implements the error interface for UnknownCommandError.
func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("command '%s' does not exist in namespace '%s' - %s.\nClosest matches: %s\n\nAvailable commands: %s",
		e.Command, e.Namespace, e.Description, formatList(e.Suggestions), formatList(e.Available))
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *UnknownCommandError) Unwrap() error { return ErrUnknownCommand }

func formatList(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
