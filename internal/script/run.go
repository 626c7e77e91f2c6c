// SPDX-License-Identifier: MPL-2.0

package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/color/clr/pkg/command"
)

const (
	// EnvArgPrefix prefixes the environment variable of each parameter.
	EnvArgPrefix = "CLR_ARG_"
	// EnvNamespace and EnvCommand name the running command.
	EnvNamespace = "CLR_NAMESPACE"
	EnvCommand   = "CLR_COMMAND"
	// EnvScriptDir is the directory of the namespace file.
	EnvScriptDir = "CLR_SCRIPT_DIR"
)

// ErrScriptFailed is returned when the interpreter fails for a reason other than
// the script's exit status.
var ErrScriptFailed = errors.New("script execution failed")

// runner returns the implementation of a script command. The result is the
// script's exit status as an int.
func runner(prog *syntax.File, ns, name, dir string) command.Func {
	return func(ctx context.Context, call *command.Call) (any, error) {
		env := Environ(os.Environ(), ns, name, dir, call)
		opts := []interp.RunnerOption{
			interp.Env(expand.ListEnviron(env...)),
			interp.StdIO(call.Stdin(), call.Stdout(), call.Stderr()),
		}
		// "--" keeps values like "-v" from being read as shell options.
		if rest := call.RestStrings(); len(rest) > 0 {
			opts = append(opts, interp.Params(append([]string{"--"}, rest...)...))
		}

		r, err := interp.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to create interpreter: %w", ErrScriptFailed, err)
		}
		if err := r.Run(ctx, prog); err != nil {
			var status interp.ExitStatus
			if errors.As(err, &status) {
				return int(status), nil
			}
			return nil, fmt.Errorf("%w: %w", ErrScriptFailed, err)
		}
		return 0, nil
	}
}

// Environ returns base without inherited CLR_ARG_* variables, plus the variables
// describing call. Variadic values are not exported; scripts read them as "$@".
// Parameters whose value is nil stay unset.
func Environ(base []string, ns, name, dir string, call *command.Call) []string {
	env := FilterArgVars(base)
	env = append(env,
		EnvNamespace+"="+ns,
		EnvCommand+"="+name,
		EnvScriptDir+"="+dir,
	)
	for _, p := range call.Spec().Params {
		if p.Kind == command.KindVariadic {
			continue
		}
		v := call.Value(p.Name)
		if v == nil {
			continue
		}
		env = append(env, ArgVar(p.Name)+"="+command.FormatValue(v))
	}
	return env
}

// ArgVar returns the environment variable name for a parameter.
func ArgVar(param string) string {
	return EnvArgPrefix + strings.ToUpper(strings.ReplaceAll(param, "-", "_"))
}

// FilterArgVars drops CLR_ARG_* entries so that a script invoking clr again
// does not leak its own arguments into the nested command.
func FilterArgVars(environ []string) []string {
	out := make([]string, 0, len(environ))
	for _, kv := range environ {
		if strings.HasPrefix(kv, EnvArgPrefix) {
			continue
		}
		out = append(out, kv)
	}
	return out
}
