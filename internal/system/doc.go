// SPDX-License-Identifier: MPL-2.0

// Package system implements the implicit `system` namespace: help, shell
// completion, cache maintenance and a few diagnostics. Its commands are reachable
// without a namespace prefix (`clr help` is `clr system:help`).
package system
