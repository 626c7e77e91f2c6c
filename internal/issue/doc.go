// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// suggestions. An error may point at an entry of the Markdown issue catalog,
// which the CLI renders with glamour when running with --verbose.
package issue
