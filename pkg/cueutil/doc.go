// SPDX-License-Identifier: MPL-2.0

// Package cueutil decodes user CUE documents against embedded schemas.
//
//	//go:embed clrfile_schema.cue
//	var schema []byte
//
//	res, err := cueutil.ParseAndDecode[Clrfile](schema, data, "#Clrfile",
//		cueutil.WithFilename(path), cueutil.WithConcrete(true))
//
// Failures are reported as *ParseError values listing each offending field path.
package cueutil
