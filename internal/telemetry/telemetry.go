// SPDX-License-Identifier: MPL-2.0

// Package telemetry reports one event per executed command.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

type (
	// Event describes a finished command execution.
	Event struct {
		Namespace string
		Command   string
		Duration  time.Duration
		ExitCode  int
		Err       error
	}

	// Reporter receives execution events.
	Reporter interface {
		Report(ctx context.Context, ev Event) error
	}

	// ReporterFunc adapts a function to the Reporter interface.
	ReporterFunc func(ctx context.Context, ev Event) error

	// LogReporter writes events to a logger at debug level.
	LogReporter struct {
		logger *log.Logger
	}

	// Recorder keeps every event in memory.
	Recorder struct {
		mu     sync.Mutex
		events []Event
	}

	nopReporter struct{}
)

// Report implements Reporter.
func (f ReporterFunc) Report(ctx context.Context, ev Event) error { return f(ctx, ev) }

// Nop returns a Reporter that drops every event.
func Nop() Reporter { return nopReporter{} }

func (nopReporter) Report(context.Context, Event) error { return nil }

// NewLogReporter returns a Reporter that logs to logger. A nil logger discards.
func NewLogReporter(logger *log.Logger) *LogReporter {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &LogReporter{logger: logger}
}

// Report implements Reporter.
func (r *LogReporter) Report(_ context.Context, ev Event) error {
	kv := []any{
		"namespace", ev.Namespace,
		"command", ev.Command,
		"duration", ev.Duration,
		"exit", ev.ExitCode,
	}
	if ev.Err != nil {
		kv = append(kv, "error", ev.Err)
	}
	r.logger.Debug("command finished", kv...)
	return nil
}

// Report implements Reporter.
func (r *Recorder) Report(_ context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Send delivers ev to r. Errors and panics raised by the reporter are logged at
// debug level and never reach the caller.
func Send(ctx context.Context, r Reporter, ev Event, logger *log.Logger) {
	if r == nil {
		return
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	defer func() {
		if rec := recover(); rec != nil {
			logger.Debug("telemetry reporter panicked", "panic", fmt.Sprint(rec))
		}
	}()
	if err := r.Report(ctx, ev); err != nil {
		logger.Debug("telemetry reporter failed", "error", err)
	}
}
