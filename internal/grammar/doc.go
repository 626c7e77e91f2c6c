// SPDX-License-Identifier: MPL-2.0

// Package grammar derives a command-line grammar from a command.Spec and parses
// tokens against it.
//
// Every required parameter is accepted either positionally or as --name, but not both.
// Optional booleans become a --name/--noname pair. Other optionals take a positional
// slot as well as --name. Once a spec has a variadic parameter the positional forms
// of required parameters are the only forms offered, and optionals become named-only,
// so the boundary between slots and trailing values is never ambiguous.
package grammar
