// SPDX-License-Identifier: MPL-2.0

package namespace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/maps"

	"github.com/color/clr/pkg/command"
)

// SchemeGo is the locator scheme of namespaces compiled into the binary.
const SchemeGo = "go"

type (
	// Loader produces the declaration of a namespace from the target part of its
	// locator (everything after "scheme:").
	Loader interface {
		Load(ctx context.Context, key, target string) (*command.Set, error)
	}

	// LoaderFunc adapts a function to the Loader interface.
	LoaderFunc func(ctx context.Context, key, target string) (*command.Set, error)

	// Provider builds one compiled namespace.
	Provider func(ctx context.Context) (*command.Set, error)

	// Providers is the Loader for the "go" scheme: compiled namespaces by name.
	Providers map[string]Provider

	// Source is what Resolve and the completion engine read namespaces from.
	// Both *Registry and the metadata cache implement it.
	Source interface {
		Keys() []string
		Metadata(ctx context.Context, key string) Metadata
	}

	// Registry owns the declared namespaces and every namespace loaded during the
	// process. Namespaces load on first use and are never reloaded.
	Registry struct {
		mu      sync.Mutex
		decls   map[string]string
		loaders map[string]Loader
		system  *command.Set
		loaded  map[string]Outcome
		logger  *log.Logger
	}
)

// Load implements Loader.
func (f LoaderFunc) Load(ctx context.Context, key, target string) (*command.Set, error) {
	return f(ctx, key, target)
}

// Load implements Loader by looking the target up by name.
func (p Providers) Load(ctx context.Context, _, target string) (*command.Set, error) {
	provider, ok := p[target]
	if !ok {
		names := maps.Keys(p)
		slices.Sort(names)
		return nil, fmt.Errorf("%w: no compiled namespace named %q (available: %s)",
			ErrUnknownLocator, target, formatList(names))
	}
	return provider(ctx)
}

// NewRegistry creates a registry over key → locator declarations. A declaration
// of the system key is ignored.
func NewRegistry(decls map[string]string, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	r := &Registry{
		decls:   make(map[string]string, len(decls)),
		loaders: make(map[string]Loader),
		loaded:  make(map[string]Outcome),
		logger:  logger,
	}
	for key, locator := range decls {
		if key == SystemKey {
			logger.Warn("ignoring declaration of the reserved system namespace", "locator", locator)
			continue
		}
		r.decls[key] = locator
	}
	return r
}

// RegisterLoader installs the loader for a locator scheme.
func (r *Registry) RegisterLoader(scheme string, l Loader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaders[scheme] = l
}

// SetSystem installs the system namespace's declaration.
func (r *Registry) SetSystem(set *command.Set) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.system = set
	delete(r.loaded, SystemKey)
}

// Keys returns every namespace key, including system, in sorted order.
func (r *Registry) Keys() []string {
	keys := append(maps.Keys(r.decls), SystemKey)
	slices.Sort(keys)
	return keys
}

// Declared reports whether key names a namespace (system included).
func (r *Registry) Declared(key string) bool {
	if key == SystemKey {
		return true
	}
	_, ok := r.decls[key]
	return ok
}

// Locator returns the declaration of key.
func (r *Registry) Locator(key string) (string, bool) {
	if key == SystemKey {
		return SchemeGo + ":" + SystemKey, true
	}
	locator, ok := r.decls[key]
	return locator, ok
}

// Metadata implements Source with a live load.
func (r *Registry) Metadata(ctx context.Context, key string) Metadata {
	return r.Get(ctx, key)
}

// Get returns the namespace for key, loading it on first use. Failures of any kind
// come back as *Failed and are remembered like successful loads.
func (r *Registry) Get(ctx context.Context, key string) Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	if out, ok := r.loaded[key]; ok {
		return out
	}
	start := time.Now()
	out := r.load(ctx, key)
	if failed, ok := out.(*Failed); ok {
		r.logger.Debug("namespace failed to load", "key", key, "locator", failed.Locator(), "error", failed.Err())
	} else {
		r.logger.Debug("namespace loaded", "key", key, "duration", time.Since(start))
	}
	r.loaded[key] = out
	return out
}

func (r *Registry) load(ctx context.Context, key string) (out Outcome) {
	if key == SystemKey {
		if r.system == nil {
			return NewFailed(key, SchemeGo+":"+SystemKey, errors.New("system namespace not installed"))
		}
		return NewLoaded(key, SchemeGo+":"+SystemKey, r.system)
	}

	locator, ok := r.decls[key]
	if !ok {
		return NewFailed(key, "", fmt.Errorf("%w: %q", ErrUnknownNamespace, key))
	}
	scheme, target, ok := strings.Cut(locator, ":")
	if !ok || target == "" {
		return NewFailed(key, locator, fmt.Errorf("%w: %q is not of the form scheme:target", ErrUnknownLocator, locator))
	}
	loader, ok := r.loaders[scheme]
	if !ok {
		return NewFailed(key, locator, fmt.Errorf("%w: unsupported scheme %q", ErrUnknownLocator, scheme))
	}

	defer func() {
		if rec := recover(); rec != nil {
			out = NewFailed(key, locator, fmt.Errorf("%w: %v", ErrLoaderPanic, rec))
		}
	}()
	set, err := loader.Load(ctx, key, target)
	if err != nil {
		return NewFailed(key, locator, err)
	}
	if set == nil {
		return NewFailed(key, locator, errors.New("loader returned no namespace"))
	}
	if err := set.Err(); err != nil {
		return NewFailed(key, locator, err)
	}
	return NewLoaded(key, locator, set)
}
