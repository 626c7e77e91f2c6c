// SPDX-License-Identifier: MPL-2.0

// Package namespace owns the declared command namespaces of a clr process.
//
// A Registry maps namespace keys to locators ("go:<name>" for namespaces compiled
// into the binary, "script:<path>" for script namespaces) and loads each namespace
// the first time it is referenced. Loading never fails outright: every failure,
// panics included, is recorded as a *Failed outcome so that help and completion
// keep working for the other namespaces.
//
// Resolve turns a "namespace:command" query into a Target, suggesting close
// matches when the namespace or command does not exist.
package namespace
