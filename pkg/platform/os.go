// SPDX-License-Identifier: MPL-2.0

package platform

// Values of runtime.GOOS that select a different per-user config location.
// Every other GOOS follows the XDG layout of Linux.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)
