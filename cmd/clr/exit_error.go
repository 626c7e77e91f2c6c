// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/color/clr/pkg/types"
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
// The dispatcher has already reported Err to the user when Rendered is set.
type ExitError struct {
	Code     types.ExitCode
	Err      error
	Rendered bool
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}
