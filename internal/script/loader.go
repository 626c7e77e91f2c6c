// SPDX-License-Identifier: MPL-2.0

package script

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/color/clr/pkg/command"
)

// Scheme is the locator scheme served by Loader.
const Scheme = "script"

// Loader loads "script:" namespaces. It implements namespace.Loader.
type Loader struct {
	logger *log.Logger
}

// NewLoader returns a Loader. A nil logger discards.
func NewLoader(logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loader{logger: logger}
}

// Load reads and builds the namespace file at target.
func (l *Loader) Load(ctx context.Context, key, target string) (*command.Set, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := filepath.Abs(target)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script namespace: %w", err)
	}
	f, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("script namespace parsed", "key", key, "path", path, "commands", len(f.Commands))
	return f.Set(key, filepath.Dir(path))
}
