// SPDX-License-Identifier: MPL-2.0

package cache

import (
	"errors"
	"fmt"
	"slices"

	"github.com/color/clr/internal/namespace"
	"github.com/color/clr/pkg/command"
)

// EntryVersion is bumped whenever the record layout changes; entries of another
// version are treated as misses.
const EntryVersion = 1

// ErrStaleEntry is returned when a stored entry cannot be used.
var ErrStaleEntry = errors.New("stale cache entry")

type (
	// Entry is the cacheable projection of a namespace: everything help and
	// completion need, without the command implementations.
	Entry struct {
		Version   int             `cbor:"1,keyasint"`
		Key       string          `cbor:"2,keyasint"`
		Locator   string          `cbor:"3,keyasint"`
		Descr     string          `cbor:"4,keyasint"`
		LongDescr string          `cbor:"5,keyasint"`
		Commands  []CommandRecord `cbor:"6,keyasint"`
	}

	// CommandRecord is one command's spec.
	CommandRecord struct {
		Name   string        `cbor:"1,keyasint"`
		Doc    string        `cbor:"2,keyasint"`
		Params []ParamRecord `cbor:"3,keyasint"`
	}

	// ParamRecord stores a parameter with its default as text. The default is
	// coerced back through the parameter's type when the entry is read, so the
	// Go type of the default survives the round trip.
	ParamRecord struct {
		Name       string   `cbor:"1,keyasint"`
		Kind       string   `cbor:"2,keyasint"`
		Type       string   `cbor:"3,keyasint"`
		Symbols    []string `cbor:"4,keyasint,omitempty"`
		Default    string   `cbor:"5,keyasint,omitempty"`
		HasDefault bool     `cbor:"6,keyasint,omitempty"`
		Help       string   `cbor:"7,keyasint,omitempty"`
	}

	// cached is an Entry decoded for use as namespace.Metadata.
	cached struct {
		key       string
		descr     string
		longDescr string
		names     []string
		specs     map[string]command.Spec
	}
)

// Project builds the cache entry of a loaded namespace.
func Project(md namespace.Metadata, locator string) Entry {
	e := Entry{
		Version:   EntryVersion,
		Key:       md.Key(),
		Locator:   locator,
		Descr:     md.Description(),
		LongDescr: md.LongDescription(),
	}
	for _, name := range md.Commands() {
		spec, ok := md.CommandSpec(name)
		if !ok {
			continue
		}
		rec := CommandRecord{Name: name, Doc: spec.Doc}
		for _, p := range spec.Params {
			rec.Params = append(rec.Params, ParamRecord{
				Name:       p.Name,
				Kind:       string(p.Kind),
				Type:       string(p.Type.Scalar),
				Symbols:    slices.Clone(p.Type.Symbols),
				Default:    command.FormatValue(p.Default),
				HasDefault: p.Default != nil,
				Help:       p.Help,
			})
		}
		e.Commands = append(e.Commands, rec)
	}
	return e
}

// Metadata decodes the entry's specs. Every spec is validated again, so an entry
// that no longer describes a legal command is rejected as stale.
func (e Entry) Metadata() (namespace.Metadata, error) {
	if e.Version != EntryVersion {
		return nil, fmt.Errorf("%w: version %d, want %d", ErrStaleEntry, e.Version, EntryVersion)
	}
	md := &cached{
		key:       e.Key,
		descr:     e.Descr,
		longDescr: e.LongDescr,
		specs:     make(map[string]command.Spec, len(e.Commands)),
	}
	for _, rec := range e.Commands {
		spec, err := rec.spec()
		if err != nil {
			return nil, fmt.Errorf("%w: command %q: %w", ErrStaleEntry, rec.Name, err)
		}
		md.specs[rec.Name] = spec
		md.names = append(md.names, rec.Name)
	}
	slices.Sort(md.names)
	return md, nil
}

func (rec CommandRecord) spec() (command.Spec, error) {
	spec := command.Spec{Doc: rec.Doc, Params: make([]command.Parameter, 0, len(rec.Params))}
	for _, pr := range rec.Params {
		p := command.Parameter{
			Name: pr.Name,
			Kind: command.Kind(pr.Kind),
			Type: command.Type{Scalar: command.Scalar(pr.Type), Symbols: slices.Clone(pr.Symbols)},
			Help: pr.Help,
		}
		if pr.HasDefault {
			v, err := p.Type.Coerce(pr.Default)
			if err != nil {
				return command.Spec{}, err
			}
			p.Default = v
		}
		spec.Params = append(spec.Params, p)
	}
	if err := spec.Validate(); err != nil {
		return command.Spec{}, err
	}
	return spec, nil
}

func (c *cached) Key() string             { return c.key }
func (c *cached) Description() string     { return c.descr }
func (c *cached) LongDescription() string { return c.longDescr }
func (c *cached) Commands() []string      { return slices.Clone(c.names) }

func (c *cached) CommandSpec(name string) (command.Spec, bool) {
	spec, ok := c.specs[name]
	if !ok {
		return command.Spec{}, false
	}
	return spec.Clone(), true
}
