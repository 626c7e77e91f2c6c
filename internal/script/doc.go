// SPDX-License-Identifier: MPL-2.0

// Package script loads command namespaces declared in TOML files and runs their
// commands in the embedded mvdan/sh interpreter.
//
// A namespace file looks like:
//
//	description = "release tooling"
//
//	[[commands]]
//	name = "tag"
//	doc = "Tag a release."
//	script = 'git tag "$CLR_ARG_VERSION" && echo "$@"'
//
//	[[commands.params]]
//	name = "version"
//	kind = "required"
//
//	[[commands.params]]
//	name = "push"
//	kind = "optional"
//	default = false
//
// Declared with the locator "script:path/to/file.toml".
package script
