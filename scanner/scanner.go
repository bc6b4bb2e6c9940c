// Package scanner runs the control loop: enumerate once, then for every
// configured name scan the whole process table, resolve, match and
// terminate.
package scanner

import (
	"context"
	"fmt"
	"time"

	"procstop/config"
	"procstop/match"
	"procstop/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// UnavailableMessage is printed when the process table cannot be read
const UnavailableMessage = "unable to retrieve a list of system processes"

// State is a step of the scan state machine
type State int

const (
	Start State = iota
	Enumerated
	PerTargetName
	PerProcess
	Done
)

func (s State) String() string {
	switch s {
	case Start:
		return "start"
	case Enumerated:
		return "enumerated"
	case PerTargetName:
		return "per-target-name"
	case PerProcess:
		return "per-process"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Console is the output the scanner writes to
type Console interface {
	process.Reporter

	// Line prints one listing line, styled by index
	Line(index int, text string)

	// Errorf prints a user-visible error line
	Errorf(format string, args ...any)
}

// Options are the run flags of the scanner
type Options struct {
	Debug   bool // list every process and trace each step
	Verbose bool // report kill intent and kill success
	DryRun  bool // match and report, never terminate

	// ProtectPID is never terminated, typically the scanner's own PID. Zero disables it.
	ProtectPID process.ProcessID
}

// Match is a (fragment, process) pair whose name contained the fragment
type Match struct {
	Fragment   string
	Descriptor process.Descriptor
	Protected  bool // whitelisted or the scanner's own process
}

// Report summarizes one scan cycle
type Report struct {
	Processes   []process.ProcessID
	Matches     []Match
	Outcomes    []process.Outcome
	Unavailable bool // the process table could not be read
}

// Killed returns the outcomes that terminated a process
func (r Report) Killed() []process.Outcome {
	var out []process.Outcome
	for _, o := range r.Outcomes {
		if o.Succeeded {
			out = append(out, o)
		}
	}
	return out
}

// Failed returns the outcomes of attempts that should have killed but did not
func (r Report) Failed() []process.Outcome {
	var out []process.Outcome
	for _, o := range r.Outcomes {
		if !o.Succeeded && !o.DryRun {
			out = append(out, o)
		}
	}
	return out
}

// Scanner is the control loop. It is single threaded: a scan runs to
// completion on the calling goroutine.
type Scanner struct {
	policy     match.Policy
	opts       Options
	platform   process.Platform
	out        Console
	resolver   *process.Resolver
	terminator *process.Terminator
	log        *logger.Logger

	// OnState, if set, observes every state transition
	OnState func(State)
}

// New builds a Scanner for cfg on top of platform
func New(cfg config.Config, opts Options, platform process.Platform, out Console) (*Scanner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}

	return &Scanner{
		policy:     policy,
		opts:       opts,
		platform:   platform,
		out:        out,
		resolver:   process.NewResolver(platform, out),
		terminator: process.NewTerminator(platform, out),
		log:        logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "scanner")),
	}, nil
}

// Policy returns the match policy in use
func (s *Scanner) Policy() match.Policy {
	return s.policy
}

func (s *Scanner) enter(st State) {
	if s.OnState != nil {
		s.OnState(st)
	}
}

// Scan runs one cycle. It never returns an error: an unreadable process
// table is reported to the console and flagged in the report, and every
// per-process failure is absorbed.
func (s *Scanner) Scan() Report {
	s.enter(Start)

	var report Report

	pids, err := process.ListProcesses(s.platform)
	if err != nil {
		s.log.Debugln("Enumeration failed:", err)
	}
	if len(pids) == 0 {
		s.out.Errorf(UnavailableMessage)
		report.Unavailable = true
		s.enter(Done)
		return report
	}

	report.Processes = pids
	s.enter(Enumerated)
	s.out.Debugf("Enumerated %d processes", len(pids))

	if s.opts.Debug {
		for i, pid := range pids {
			s.out.Line(i, s.resolver.Resolve(pid).String())
		}
	}

	attempted := make(map[process.ProcessID]bool)
	topts := process.TerminateOptions{DryRun: s.opts.DryRun, Verbose: s.opts.Verbose}

	for _, fragment := range s.policy.Names {
		s.enter(PerTargetName)
		s.out.Debugf("Scanning for %q", fragment)

		for _, pid := range pids {
			s.enter(PerProcess)

			d := s.resolver.Resolve(pid)
			if !match.Contains(d.Name, fragment) {
				continue
			}

			m := Match{Fragment: fragment, Descriptor: d}

			if s.policy.Mode == match.Whitelist {
				m.Protected = true
				report.Matches = append(report.Matches, m)
				s.out.Debugf("Process %s (pid %d) is whitelisted", d.Name, pid)
				continue
			}

			if s.opts.ProtectPID != 0 && pid == s.opts.ProtectPID {
				m.Protected = true
				report.Matches = append(report.Matches, m)
				s.out.Debugf("Skipping own process %s (pid %d)", d.Name, pid)
				continue
			}

			report.Matches = append(report.Matches, m)

			if attempted[pid] {
				s.out.Debugf("Already attempted %s (pid %d) this cycle", d.Name, pid)
				continue
			}
			attempted[pid] = true

			report.Outcomes = append(report.Outcomes, s.terminator.Terminate(pid, d.Name, topts))
		}
	}

	s.enter(Done)
	s.log.Debugln("Scan complete:", len(report.Matches), "matches,", len(report.Killed()), "killed")

	return report
}

// Watch runs Scan immediately and then once per interval until ctx is
// done. A scan in progress always runs to completion; cancellation is
// only observed between scans. each, if non-nil, receives every report.
func (s *Scanner) Watch(ctx context.Context, interval time.Duration, each func(Report)) error {
	if interval <= 0 {
		return fmt.Errorf("invalid interval %v", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		report := s.Scan()
		if each != nil {
			each(report)
		}

		if ctx.Err() != nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
