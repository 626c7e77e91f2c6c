// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/color/clr/internal/binder"
	"github.com/color/clr/internal/cache"
	"github.com/color/clr/internal/config"
	"github.com/color/clr/internal/grammar"
	"github.com/color/clr/internal/issue"
	"github.com/color/clr/internal/namespace"
	"github.com/color/clr/internal/script"
	"github.com/color/clr/internal/system"
	"github.com/color/clr/internal/telemetry"
	"github.com/color/clr/pkg/command"
	"github.com/color/clr/pkg/types"
)

// defaultQuery is run when clr is invoked without a query.
const defaultQuery = namespace.SystemKey + namespace.Separator + "help"

type (
	// App wires the dispatcher's collaborators. It is the composition root for
	// the CLI layer.
	App struct {
		Config    config.Provider
		Providers namespace.Providers
		Reporter  telemetry.Reporter
		Getwd     func() (string, error)
		stdin     io.Reader
		stdout    io.Writer
		stderr    io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		// Providers are the compiled namespaces served under the "go" scheme.
		Providers namespace.Providers
		// Reporter receives an event after every execution. Nil logs at debug level.
		Reporter telemetry.Reporter
		Getwd    func() (string, error)
		Stdin    io.Reader
		Stdout   io.Writer
		Stderr   io.Writer
	}

	// Request is one invocation: the global flag values and the remaining words.
	Request struct {
		Args       []string
		Verbose    bool
		ConfigPath string
	}

	// session is the state built for one Request.
	session struct {
		cfg      *config.Config
		logger   *log.Logger
		verbose  bool
		registry *namespace.Registry
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Providers == nil {
		deps.Providers = namespace.Providers{}
	}
	if deps.Getwd == nil {
		deps.Getwd = os.Getwd
	}

	return &App{
		Config:    deps.Config,
		Providers: deps.Providers,
		Reporter:  deps.Reporter,
		Getwd:     deps.Getwd,
		stdin:     deps.Stdin,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
	}
}

// Dispatch resolves, parses, binds and runs one query. A nil error means exit
// status 0; every other outcome is an *ExitError.
func (a *App) Dispatch(ctx context.Context, req Request) error {
	s, err := a.open(ctx, req)
	if err != nil {
		return a.fail(types.ExitResolution, err, s)
	}

	query, tokens := defaultQuery, []string(nil)
	if len(req.Args) > 0 {
		query, tokens = req.Args[0], req.Args[1:]
	}

	target, def, err := s.resolve(ctx, query)
	if err != nil {
		return a.fail(types.ExitResolution, err, s)
	}

	g, err := grammar.Build(def.Spec, target.Namespace, target.Command)
	if err != nil {
		return a.fail(types.ExitResolution, loadFailure(target.Namespace, err), s)
	}
	parsed, err := g.Parse(tokens)
	if errors.Is(err, grammar.ErrHelpRequested) {
		fmt.Fprint(a.stdout, g.Help())
		return nil
	}
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		if s.verbose {
			a.guidance(issue.ArgumentErrorId, s.cfg.UI.ColorScheme)
		}
		return &ExitError{Code: types.ExitUsage, Err: err, Rendered: true}
	}

	call, err := binder.Bind(def.Spec, parsed)
	if err != nil {
		return a.fail(types.ExitResolution, issue.NewErrorContext().
			WithOperation("bind arguments of "+target.String()).
			WithIssue(issue.ArgumentErrorId).
			Wrap(err).
			BuildError(), s)
	}
	call.SetIO(a.stdin, a.stdout, a.stderr)

	start := time.Now()
	result, runErr := run(ctx, def, call)
	code := types.FromResult(result)
	if runErr != nil {
		code = types.ExitCommandFailed
	}
	if err := code.Validate(); err != nil {
		s.logger.Warn("command returned an out of range exit status", "command", target.String(), "error", err)
		code = types.ExitResolution
	}

	if s.cfg.Telemetry.Enabled {
		reporter := a.Reporter
		if reporter == nil {
			reporter = telemetry.NewLogReporter(s.logger)
		}
		telemetry.Send(ctx, reporter, telemetry.Event{
			Namespace: target.Namespace,
			Command:   target.Command,
			Duration:  time.Since(start),
			ExitCode:  int(code),
			Err:       runErr,
		}, s.logger)
	}

	if runErr != nil {
		id := issue.CommandFailedId
		if errors.Is(runErr, script.ErrScriptFailed) {
			id = issue.ScriptFailedId
		}
		return a.fail(code, issue.NewErrorContext().
			WithOperation("run "+target.String()).
			WithIssue(id).
			Wrap(runErr).
			BuildError(), s)
	}
	if !code.IsSuccess() {
		return &ExitError{Code: code, Rendered: true}
	}
	return nil
}

// open loads the configuration and the clrfile and builds the registry, cache and
// system namespace. Configuration problems are reported and fall back to defaults;
// an unreadable clrfile is fatal. The session is returned even then so that the
// failure can be rendered with the configured verbosity.
func (a *App) open(ctx context.Context, req Request) (*session, error) {
	cfg, cfgErr := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: req.ConfigPath})
	if cfgErr != nil {
		cfg = config.DefaultConfig()
	}
	applyColorScheme(cfg.UI.ColorScheme)
	verbose := req.Verbose || cfg.UI.Verbose
	logger := newLogger(a.stderr, verbose)
	if cfgErr != nil {
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(cfgErr, verbose))
	}

	s := &session{cfg: cfg, logger: logger, verbose: verbose}

	wd, err := a.Getwd()
	if err != nil {
		return s, err
	}
	cf, err := config.DiscoverClrfile(wd)
	switch {
	case errors.Is(err, config.ErrClrfileNotFound):
		logger.Warn(err.Error())
	case err != nil:
		return s, issue.NewErrorContext().
			WithOperation("load clrfile").
			WithIssue(issue.ClrfileInvalidId).
			Wrap(err).
			BuildError()
	default:
		logger.Debug("using clrfile", "path", cf.Path)
	}

	registry := namespace.NewRegistry(config.Declarations(cfg, cf), logger)
	registry.RegisterLoader(namespace.SchemeGo, a.Providers)
	registry.RegisterLoader(script.Scheme, script.NewLoader(logger))
	store := cache.New(registry, cache.Options{
		Path:     cache.DefaultPath(cfg.Cache.Dir.String()),
		Disabled: cfg.Cache.Disabled,
		Logger:   logger,
	})
	registry.SetSystem(system.New(system.Deps{
		Source:   store,
		Registry: registry,
		Cache:    store,
		Logger:   logger,
	}))

	s.registry = registry
	return s, nil
}

// resolve maps the query onto a loaded command. A namespace that failed to load
// is reported with its load error rather than as a missing command.
func (s *session) resolve(ctx context.Context, query string) (namespace.Target, command.Definition, error) {
	target, err := namespace.Resolve(ctx, s.registry, query)
	if err != nil {
		var unknownCmd *namespace.UnknownCommandError
		if errors.As(err, &unknownCmd) {
			if failed, ok := s.registry.Get(ctx, unknownCmd.Namespace).(*namespace.Failed); ok {
				return target, command.Definition{}, loadFailure(failed.Key(), failed)
			}
			return target, command.Definition{}, issue.NewErrorContext().
				WithOperation("resolve "+query).
				WithIssue(issue.CommandNotFoundId).
				Wrap(err).
				BuildError()
		}
		return target, command.Definition{}, issue.NewErrorContext().
			WithOperation("resolve "+query).
			WithIssue(issue.NamespaceNotFoundId).
			Wrap(err).
			BuildError()
	}

	switch out := s.registry.Get(ctx, target.Namespace).(type) {
	case *namespace.Failed:
		return target, command.Definition{}, loadFailure(out.Key(), out)
	case *namespace.Loaded:
		def, _ := out.Command(target.Command)
		return target, def, nil
	default:
		return target, command.Definition{}, fmt.Errorf("namespace %q: unexpected outcome %T", target.Namespace, out)
	}
}

func loadFailure(key string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load namespace " + key).
		WithSuggestion("Run `clr help " + key + "` to see the full load error").
		WithIssue(issue.NamespaceLoadFailedId).
		Wrap(err).
		BuildError()
}

// run invokes the command, turning a panic into an error so that it is reported
// like any other command failure.
func run(ctx context.Context, def command.Definition, call *command.Call) (result any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("command panicked: %v", rec)
		}
	}()
	return def.Run(ctx, call)
}

// fail renders err and wraps it with the exit code. With verbose output the
// catalog entry attached to err is rendered too.
func (a *App) fail(code types.ExitCode, err error, s *session) error {
	fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, s.verbose))
	if s.verbose {
		var ae *issue.ActionableError
		if errors.As(err, &ae) {
			a.guidance(ae.Issue, s.cfg.UI.ColorScheme)
		}
	}
	return &ExitError{Code: code, Err: err, Rendered: true}
}
