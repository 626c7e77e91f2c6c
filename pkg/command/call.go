// SPDX-License-Identifier: MPL-2.0

package command

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
)

type (
	// Func is the implementation of a command. Its result becomes the process exit
	// code when it is an int (or a bool: true is 1, false is 0); any other result is ignored.
	// A non-nil error is a command failure.
	Func func(ctx context.Context, call *Call) (any, error)

	// Call holds the arguments a command is invoked with, in the shape its Spec declares:
	// required values and variadic values positionally, supplied optionals by name.
	Call struct {
		spec  Spec
		args  []any
		named map[string]any

		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer
	}
)

// NewCall checks that args and named form a legal call for spec and returns it.
// args must hold one value per required parameter followed by any variadic values;
// named may only hold optional parameters.
func NewCall(spec Spec, args []any, named map[string]any) (*Call, error) {
	required := spec.RequiredCount()
	if len(args) < required {
		return nil, fmt.Errorf("%w: got %d positional arguments, need %d", ErrInvalidCall, len(args), required)
	}
	if len(args) > required && !spec.HasVariadic() {
		return nil, fmt.Errorf("%w: got %d positional arguments, accepts at most %d", ErrInvalidCall, len(args), required)
	}
	for name := range named {
		p, ok := spec.Param(name)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected keyword argument %q", ErrInvalidCall, name)
		}
		if p.Kind != KindOptional {
			return nil, fmt.Errorf("%w: %s parameter %q passed by name", ErrInvalidCall, p.Kind, name)
		}
	}

	call := &Call{
		spec:  spec,
		args:  slices.Clone(args),
		named: make(map[string]any, len(named)),
	}
	maps.Copy(call.named, named)
	return call, nil
}

// SetIO replaces the streams the command reads and writes. nil keeps the current stream.
func (c *Call) SetIO(stdin io.Reader, stdout, stderr io.Writer) {
	if stdin != nil {
		c.stdin = stdin
	}
	if stdout != nil {
		c.stdout = stdout
	}
	if stderr != nil {
		c.stderr = stderr
	}
}

// Stdin returns the command's input stream (os.Stdin unless SetIO replaced it).
func (c *Call) Stdin() io.Reader {
	if c.stdin == nil {
		return os.Stdin
	}
	return c.stdin
}

// Stdout returns the command's output stream.
func (c *Call) Stdout() io.Writer {
	if c.stdout == nil {
		return os.Stdout
	}
	return c.stdout
}

// Stderr returns the command's error stream.
func (c *Call) Stderr() io.Writer {
	if c.stderr == nil {
		return os.Stderr
	}
	return c.stderr
}

// Spec returns the spec the call was built for.
func (c *Call) Spec() Spec { return c.spec }

// Args returns a copy of the positional arguments.
func (c *Call) Args() []any { return slices.Clone(c.args) }

// Named returns a copy of the arguments passed by name.
func (c *Call) Named() map[string]any { return maps.Clone(c.named) }

// Supplied reports whether the parameter received a value from the user rather than its default.
func (c *Call) Supplied(name string) bool {
	p, ok := c.spec.Param(name)
	if !ok {
		return false
	}
	switch p.Kind {
	case KindRequired:
		return true
	case KindVariadic:
		return len(c.Rest()) > 0
	default:
		_, ok = c.named[name]
		return ok
	}
}

// Value returns the effective value of a parameter: the positional value of a required
// parameter, the variadic values as []any, or the supplied value of an optional
// falling back to its declared default.
func (c *Call) Value(name string) any {
	idx := 0
	for _, p := range c.spec.Params {
		switch p.Kind {
		case KindRequired:
			if p.Name == name {
				return c.args[idx]
			}
			idx++
		case KindVariadic:
			if p.Name == name {
				return c.Rest()
			}
		case KindOptional:
			if p.Name == name {
				if v, ok := c.named[name]; ok {
					return v
				}
				return p.Default
			}
		}
	}
	return nil
}

// String returns the parameter's value formatted as text ("" for a nil default).
func (c *Call) String(name string) string {
	return FormatValue(c.Value(name))
}

// Int returns the parameter's value if it is an int, otherwise 0.
func (c *Call) Int(name string) int {
	v, _ := c.Value(name).(int)
	return v
}

// Float returns the parameter's value if it is a float64, otherwise 0.
func (c *Call) Float(name string) float64 {
	v, _ := c.Value(name).(float64)
	return v
}

// Bool returns the parameter's value if it is a bool, otherwise false.
func (c *Call) Bool(name string) bool {
	v, _ := c.Value(name).(bool)
	return v
}

// Rest returns the values captured by the variadic parameter (empty if none).
func (c *Call) Rest() []any {
	required := c.spec.RequiredCount()
	if len(c.args) <= required {
		return []any{}
	}
	return slices.Clone(c.args[required:])
}

// RestStrings returns the variadic values formatted as text.
func (c *Call) RestStrings() []string {
	rest := c.Rest()
	out := make([]string, len(rest))
	for i, v := range rest {
		out[i] = FormatValue(v)
	}
	return out
}
