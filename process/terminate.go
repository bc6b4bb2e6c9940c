package process

import (
	"fmt"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// Reporter receives the user-visible status lines of the engine
type Reporter interface {
	Tracer

	// Statusf prints a status line
	Statusf(format string, args ...any)

	// Failuref prints a failure line
	Failuref(format string, args ...any)
}

// TerminateOptions controls one termination attempt
type TerminateOptions struct {
	DryRun  bool // match and report, but never call Terminate
	Verbose bool // report kill intent and kill success
}

// Terminator kills processes through a terminate-capable handle
type Terminator struct {
	platform Platform
	out      Reporter
	log      *logger.Logger
}

// NewTerminator creates a Terminator reporting to out
func NewTerminator(p Platform, out Reporter) *Terminator {
	return &Terminator{
		platform: p,
		out:      out,
		log:      logger.NewLogger(coloransi.Color(coloransi.Red, coloransi.ColorOrange, "terminator")),
	}
}

// Terminate makes a single attempt to kill pid. The current exit code is
// read first and passed to the terminate request; if it cannot be read, 0
// is used. The attempt is never retried.
func (t *Terminator) Terminate(pid ProcessID, name string, opts TerminateOptions) Outcome {
	out := Outcome{PID: pid, Name: name, DryRun: opts.DryRun}

	g, err := Acquire(t.platform, pid, AccessTerminate|AccessQueryLimited)
	if err != nil {
		out.Err = err
		t.out.Failuref("Failed to kill process %s (pid %d): %v", name, pid, err)
		return out
	}
	defer func() {
		if err := g.Release(); err != nil {
			t.log.Warn("Release failed: ", err)
		}
	}()

	code, err := g.Handle().ExitCode()
	if err != nil {
		t.out.Debugf("Failed to read exit code of %s: %v", name, err)
		code = 0
	} else {
		t.out.Debugf("Read exit code %d of %s", code, name)
	}
	out.ExitCode = code

	if opts.Verbose {
		t.out.Statusf("Killing process %s (pid %d)", name, pid)
	}

	if opts.DryRun {
		t.out.Debugf("Termination disabled, leaving %s (pid %d) running", name, pid)
		return out
	}

	if err := g.Handle().Terminate(code); err != nil {
		out.Err = fmt.Errorf("%w: pid %d: %v", ErrTermination, pid, err)
		t.out.Failuref("Failed to kill process %s (pid %d): %v", name, pid, err)
		return out
	}

	out.Succeeded = true
	if opts.Verbose {
		t.out.Statusf("Successfully killed process %s (pid %d)", name, pid)
	}
	t.log.Infoln("Killed", name, "pid", uint32(pid))

	return out
}
