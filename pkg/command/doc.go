// SPDX-License-Identifier: MPL-2.0

// Package command declares clr commands and the namespaces that group them.
//
// A command is a Func plus a Spec: its documentation and ordered parameter list.
// Specs are declared with a Builder rather than discovered from function signatures:
//
//	spec, err := command.NewSpec("Copy files.").
//		Required("src").
//		Variadic("more").
//		Optional("force", false, command.WithHelp("overwrite existing files")).
//		Build()
//
// Optional parameters infer their type from the default value. A Spec carries no
// function values, so it can be cached and read back by another process.
//
// A namespace is declared as a Set: NewSet(description).Add(name, builder, fn) for each
// exported command.
package command
