// SPDX-License-Identifier: MPL-2.0

package namespace

import (
	"context"
	"slices"
	"strings"

	"github.com/color/clr/internal/suggest"
)

// Separator splits a query into namespace key and command name.
const Separator = ":"

// Target is a resolved query.
type Target struct {
	Namespace string
	Command   string
}

// String returns the target in query form, "ns:cmd".
func (t Target) String() string { return t.Namespace + Separator + t.Command }

// Resolve maps a query onto a namespace and command. "ns:cmd" splits on the first
// separator. A bare query names a system command when system exports it; otherwise
// it is taken as a namespace key with no command so that the error explains what
// is missing.
func Resolve(ctx context.Context, src Source, query string) (Target, error) {
	key, name, found := strings.Cut(query, Separator)
	if !found {
		if slices.Contains(src.Metadata(ctx, SystemKey).Commands(), query) {
			key, name = SystemKey, query
		} else {
			key, name = query, ""
		}
	}

	keys := src.Keys()
	if !slices.Contains(keys, key) {
		return Target{}, &UnknownNamespaceError{
			Key:         key,
			Suggestions: suggest.For(key, keys),
			Available:   keys,
		}
	}

	md := src.Metadata(ctx, key)
	commands := md.Commands()
	if !slices.Contains(commands, name) {
		return Target{}, &UnknownCommandError{
			Namespace:   key,
			Description: md.Description(),
			Command:     name,
			Suggestions: suggest.For(name, commands),
			Available:   commands,
		}
	}
	return Target{Namespace: key, Command: name}, nil
}
