// Package processtest provides a recording process.Launcher for tests.
package processtest

import (
	"context"
	"sync"

	"github.com/fyrsmithlabs/perch/internal/process"
)

// Mode identifies which Launcher method received a command.
type Mode string

const (
	ModeRun        Mode = "run"
	ModeStart      Mode = "start"
	ModeForeground Mode = "foreground"
)

// Call is one recorded invocation.
type Call struct {
	Mode    Mode
	Command process.Command
}

// Recorder records every command and answers with Handler, or success
// when Handler is nil.
type Recorder struct {
	Handler func(mode Mode, cmd process.Command) error

	mu    sync.Mutex
	calls []Call
}

var _ process.Launcher = (*Recorder)(nil)

func (r *Recorder) Run(_ context.Context, cmd process.Command) error {
	return r.record(ModeRun, cmd)
}

func (r *Recorder) Start(cmd process.Command) error {
	return r.record(ModeStart, cmd)
}

func (r *Recorder) Foreground(cmd process.Command) error {
	return r.record(ModeForeground, cmd)
}

// Calls returns a copy of the recorded calls in order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Names returns "<mode> <command line>" for each call, handy for asserting
// the whole sequence at once.
func (r *Recorder) Names() []string {
	calls := r.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = string(c.Mode) + " " + c.Command.String()
	}
	return out
}

func (r *Recorder) record(mode Mode, cmd process.Command) error {
	r.mu.Lock()
	r.calls = append(r.calls, Call{Mode: mode, Command: cmd})
	handler := r.Handler
	r.mu.Unlock()

	if handler == nil {
		return nil
	}
	return handler(mode, cmd)
}
