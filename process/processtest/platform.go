// Package processtest provides an in-memory process.Platform for tests.
package processtest

import (
	"errors"
	"fmt"
	"sync"

	"procstop/process"
)

// Proc describes one fake process
type Proc struct {
	PID  process.ProcessID
	Name string
	Path string

	Deny      process.Access // access bits OpenProcess refuses
	NoModules bool           // Modules returns an empty list
	ExitCode  uint32

	ModulesErr   error
	NameErr      error
	PathErr      error
	ExitCodeErr  error
	TerminateErr error
}

// Termination records a Terminate call that reached the platform
type Termination struct {
	PID  process.ProcessID
	Code uint32
}

// Platform is a process.Platform backed by a map. It counts handle opens
// and closes so tests can check that every handle is closed exactly once.
type Platform struct {
	// Raw, when non-nil, is returned verbatim by EnumProcesses
	Raw []uint32
	// EnumErr, when non-nil, makes EnumProcesses fail
	EnumErr error

	mu           sync.Mutex
	procs        map[process.ProcessID]*Proc
	order        []process.ProcessID
	opened       int
	closed       int
	doubleClosed int
	terminations []Termination
}

// New creates a Platform populated with procs, in table order
func New(procs ...Proc) *Platform {
	p := &Platform{procs: make(map[process.ProcessID]*Proc)}
	for _, proc := range procs {
		p.Add(proc)
	}
	return p
}

// Add inserts a process at the end of the table
func (p *Platform) Add(proc Proc) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.procs[proc.PID]; !ok {
		p.order = append(p.order, proc.PID)
	}
	cp := proc
	p.procs[proc.PID] = &cp
}

// Alive reports whether pid is still in the table
func (p *Platform) Alive(pid process.ProcessID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.procs[pid]
	return ok
}

// Opened returns the number of handles opened so far
func (p *Platform) Opened() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opened
}

// Closed returns the number of handles closed so far
func (p *Platform) Closed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// DoubleClosed returns the number of Close calls on already closed handles
func (p *Platform) DoubleClosed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doubleClosed
}

// OpenHandles returns the number of handles not yet closed
func (p *Platform) OpenHandles() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opened - p.closed
}

// Terminations returns every Terminate call that reached the platform
func (p *Platform) Terminations() []Termination {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Termination, len(p.terminations))
	copy(out, p.terminations)
	return out
}

// EnumProcesses writes the idle sentinel 0 followed by every live PID
func (p *Platform) EnumProcesses(ids []uint32) (int, error) {
	if p.EnumErr != nil {
		return 0, p.EnumErr
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	table := p.Raw
	if table == nil {
		table = make([]uint32, 0, len(p.order)+1)
		table = append(table, 0)
		for _, pid := range p.order {
			table = append(table, uint32(pid))
		}
	}

	return copy(ids, table), nil
}

// OpenProcess opens a fake handle
func (p *Platform) OpenProcess(pid process.ProcessID, access process.Access) (process.Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	proc, ok := p.procs[pid]
	if !ok {
		return nil, fmt.Errorf("pid %d: %w", pid, process.ErrNotFound)
	}
	if proc.Deny&access != 0 {
		return nil, fmt.Errorf("pid %d: %w", pid, process.ErrAccessDenied)
	}

	p.opened++
	return &handle{platform: p, pid: pid, access: access}, nil
}

type handle struct {
	platform *Platform
	pid      process.ProcessID
	access   process.Access
	closed   bool
}

var errClosed = errors.New("processtest: handle used after close")

func (h *handle) lookup() (*Proc, error) {
	if h.closed {
		return nil, errClosed
	}
	proc, ok := h.platform.procs[h.pid]
	if !ok {
		return nil, fmt.Errorf("pid %d: %w", h.pid, process.ErrNotFound)
	}
	return proc, nil
}

func (h *handle) PID() process.ProcessID {
	return h.pid
}

func (h *handle) Modules() ([]process.Module, error) {
	h.platform.mu.Lock()
	defer h.platform.mu.Unlock()

	proc, err := h.lookup()
	if err != nil {
		return nil, err
	}
	if proc.ModulesErr != nil {
		return nil, proc.ModulesErr
	}
	if proc.NoModules {
		return []process.Module{}, nil
	}
	return []process.Module{1, 2}, nil
}

func (h *handle) ModuleBaseName(mod process.Module) (string, error) {
	h.platform.mu.Lock()
	defer h.platform.mu.Unlock()

	proc, err := h.lookup()
	if err != nil {
		return "", err
	}
	if proc.NameErr != nil {
		return "", proc.NameErr
	}
	if mod != 1 {
		return "library.so", nil
	}
	return proc.Name, nil
}

func (h *handle) ModuleFileName(mod process.Module) (string, error) {
	h.platform.mu.Lock()
	defer h.platform.mu.Unlock()

	proc, err := h.lookup()
	if err != nil {
		return "", err
	}
	if proc.PathErr != nil {
		return "", proc.PathErr
	}
	if mod != 1 {
		return "/lib/library.so", nil
	}
	return proc.Path, nil
}

func (h *handle) ExitCode() (uint32, error) {
	h.platform.mu.Lock()
	defer h.platform.mu.Unlock()

	proc, err := h.lookup()
	if err != nil {
		return 0, err
	}
	if proc.ExitCodeErr != nil {
		return 0, proc.ExitCodeErr
	}
	return proc.ExitCode, nil
}

func (h *handle) Terminate(code uint32) error {
	h.platform.mu.Lock()
	defer h.platform.mu.Unlock()

	proc, err := h.lookup()
	if err != nil {
		return err
	}
	if !h.access.Has(process.AccessTerminate) {
		return fmt.Errorf("pid %d: %w", h.pid, process.ErrAccessDenied)
	}

	h.platform.terminations = append(h.platform.terminations, Termination{PID: h.pid, Code: code})
	if proc.TerminateErr != nil {
		return proc.TerminateErr
	}

	delete(h.platform.procs, h.pid)
	for i, pid := range h.platform.order {
		if pid == h.pid {
			h.platform.order = append(h.platform.order[:i], h.platform.order[i+1:]...)
			break
		}
	}
	return nil
}

func (h *handle) Close() error {
	h.platform.mu.Lock()
	defer h.platform.mu.Unlock()

	if h.closed {
		h.platform.doubleClosed++
		return errClosed
	}
	h.closed = true
	h.platform.closed++
	return nil
}
