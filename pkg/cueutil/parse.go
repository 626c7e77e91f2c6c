// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// ParseResult holds a decoded document together with the value it was decoded from.
type ParseResult[T any] struct {
	Value *T
	// Unified is the user document unified with the schema definition.
	Unified cue.Value
}

// ParseAndDecode unifies data with the definition at schemaPath (e.g. "#Clrfile")
// of schema, validates the result and decodes it into T. Errors in the user
// document carry its filename and the offending CUE path.
func ParseAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	filename := o.filename
	if filename == "" {
		filename = "<input>"
	}

	if err := CheckFileSize(data, o.maxFileSize, filename); err != nil {
		return nil, err
	}

	cctx := cuecontext.New()
	def := cctx.CompileBytes(schema).LookupPath(cue.ParsePath(schemaPath))
	if err := def.Err(); err != nil {
		return nil, fmt.Errorf("schema definition %s: %w", schemaPath, err)
	}

	doc := cctx.CompileBytes(data, cue.Filename(filename))
	if err := doc.Err(); err != nil {
		return nil, FormatError(err, filename)
	}

	unified := def.Unify(doc)
	var validateOpts []cue.Option
	if o.concrete {
		validateOpts = append(validateOpts, cue.Concrete(true))
	}
	if err := unified.Validate(validateOpts...); err != nil {
		return nil, FormatError(err, filename)
	}

	var v T
	if err := unified.Decode(&v); err != nil {
		return nil, FormatError(err, filename)
	}
	return &ParseResult[T]{Value: &v, Unified: unified}, nil
}
