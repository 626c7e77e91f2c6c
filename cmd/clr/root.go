// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/color/clr/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// newRootCommand builds the root command around app. Flag parsing stops at the
// first positional argument so that the query and everything after it reach
// the dispatcher untouched.
func newRootCommand(app *App) *cobra.Command {
	var req Request

	rootCmd := &cobra.Command{
		Use:   "clr [flags] [namespace:]command [args...]",
		Short: "A dispatcher for namespaced commands",
		Long: TitleStyle.Render("clr") + SubtitleStyle.Render(" - A dispatcher for namespaced commands") + `

Namespaces are declared in a clrfile (clrfile.cue or clrfile.toml) found in the
current directory, one of its parents, or $CLR_ROOT. Each namespace exports
commands whose arguments may be given positionally or as --flags.

` + SubtitleStyle.Render("Examples:") + `
  ` + CmdStyle.Render("clr") + `                      List the available namespaces
  ` + CmdStyle.Render("clr help deploy") + `          Show the commands of 'deploy'
  ` + CmdStyle.Render("clr deploy:push prod") + `     Run 'push' from 'deploy'
  ` + CmdStyle.Render("clr deploy:push --help") + `   Show the arguments of 'push'`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Args = args
			return app.Dispatch(cmd.Context(), req)
		},
	}

	rootCmd.Flags().SetInterspersed(false)
	rootCmd.Flags().BoolVarP(&req.Verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.Flags().StringVar(&req.ConfigPath, "config", "", "config file (default is $XDG_CONFIG_HOME/clr/config.cue)")

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Run executes the command line in os.Args with production dependencies and
// returns the process exit status.
func Run() int {
	return execute(context.Background(), NewApp(Dependencies{}), os.Args[1:])
}

// Execute runs the CLI and exits the process. It is called by main.main().
func Execute() {
	os.Exit(Run())
}

func execute(ctx context.Context, app *App, args []string) int {
	rootCmd := newRootCommand(app)
	rootCmd.SetArgs(args)
	rootCmd.SetIn(app.stdin)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
		fang.WithErrorHandler(errorHandler),
	)
	return exitCode(err)
}

// errorHandler leaves errors the dispatcher has already reported alone and lets
// fang render everything else (flag errors of the root command).
func errorHandler(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Rendered {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

func exitCode(err error) int {
	if err == nil {
		return int(types.ExitSuccess)
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return int(exitErr.Code)
	}
	return int(types.ExitResolution)
}
