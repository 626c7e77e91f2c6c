// SPDX-License-Identifier: MPL-2.0

// Package types defines value types shared by the CLI and the command packages.
//
// This package is a leaf dependency: it imports only the standard library.
package types
