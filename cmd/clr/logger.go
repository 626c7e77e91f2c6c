// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"
)

// newLogger creates the diagnostic logger. It writes warnings and errors only,
// and debug output when verbose. When w is not a terminal (scripts, CI, tests)
// records are logfmt so they stay machine-readable.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(w, log.Options{
		Prefix: "clr",
		Level:  level,
	})
	if f, ok := w.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		logger.SetFormatter(log.LogfmtFormatter)
	}
	return logger
}
