// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the clr command line.
//
// The root command takes the global flags and hands everything from the first
// positional argument on to the dispatcher: the first word is the query
// ("ns:cmd", a bare system command, or nothing for `system:help`) and the rest
// is parsed against the resolved command's own grammar.
package cmd
