// SPDX-License-Identifier: MPL-2.0

// Package platform centralizes operating system names used when choosing
// per-platform defaults such as the configuration directory.
package platform
