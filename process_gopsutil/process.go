// Package process_gopsutil implements process.Platform on gopsutil. It is
// the backend for systems without a native platform and an opt-in
// alternative elsewhere.
package process_gopsutil

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"procstop/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	gops "github.com/shirou/gopsutil/v4/process"
)

// ErrExitCodeUnavailable is returned by ExitCode; gopsutil does not expose it
var ErrExitCodeUnavailable = errors.New("exit code not available")

// GopsutilPlatform implements process.Platform
type GopsutilPlatform struct {
	log *logger.Logger
}

// New creates a new GopsutilPlatform
func New() process.Platform {
	return &GopsutilPlatform{
		log: logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "gopsutil")),
	}
}

// EnumProcesses writes the idle sentinel 0 followed by every PID in ascending order
func (g *GopsutilPlatform) EnumProcesses(ids []uint32) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	pids, err := gops.Pids()
	if err != nil {
		return 0, fmt.Errorf("list pids: %w", err)
	}
	sort.Slice(pids, func(i, j int) bool { return pids[i] < pids[j] })

	ids[0] = 0
	n := 1
	for _, pid := range pids {
		if pid <= 0 {
			continue
		}
		if n == len(ids) {
			break
		}
		ids[n] = uint32(pid)
		n++
	}
	return n, nil
}

// OpenProcess looks the process up. gopsutil has no access checks, so
// permission failures surface on the individual queries instead.
func (g *GopsutilPlatform) OpenProcess(pid process.ProcessID, access process.Access) (process.Handle, error) {
	if pid == 0 {
		return nil, fmt.Errorf("pid 0 is the idle task: %w", process.ErrNotFound)
	}

	p, err := gops.NewProcess(int32(pid))
	if err != nil {
		if errors.Is(err, gops.ErrorProcessNotRunning) {
			return nil, fmt.Errorf("pid %d: %w", pid, process.ErrNotFound)
		}
		return nil, fmt.Errorf("open pid %d failed: %v", pid, err)
	}

	return &GopsutilProcess{pid: pid, proc: p, log: g.log}, nil
}

// GopsutilProcess wraps a gopsutil process. It exposes a single module,
// the executable.
type GopsutilProcess struct {
	pid    process.ProcessID
	proc   *gops.Process
	log    *logger.Logger
	mu     sync.Mutex
	closed bool
}

func (p *GopsutilProcess) PID() process.ProcessID {
	return p.pid
}

func (p *GopsutilProcess) get() (*gops.Process, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, process.ErrHandleReleased
	}
	return p.proc, nil
}

func (p *GopsutilProcess) Modules() ([]process.Module, error) {
	proc, err := p.get()
	if err != nil {
		return nil, err
	}
	running, err := proc.IsRunning()
	if err != nil {
		return nil, fmt.Errorf("query pid %d: %w", p.pid, err)
	}
	if !running {
		return nil, fmt.Errorf("pid %d: %w", p.pid, process.ErrNotFound)
	}
	return []process.Module{0}, nil
}

func (p *GopsutilProcess) ModuleBaseName(mod process.Module) (string, error) {
	proc, err := p.get()
	if err != nil {
		return "", err
	}
	if mod != 0 {
		return "", fmt.Errorf("module %d of pid %d: not enumerated", mod, p.pid)
	}
	return proc.Name()
}

func (p *GopsutilProcess) ModuleFileName(mod process.Module) (string, error) {
	proc, err := p.get()
	if err != nil {
		return "", err
	}
	if mod != 0 {
		return "", fmt.Errorf("module %d of pid %d: not enumerated", mod, p.pid)
	}
	return proc.Exe()
}

func (p *GopsutilProcess) ExitCode() (uint32, error) {
	if _, err := p.get(); err != nil {
		return 0, err
	}
	return 0, ErrExitCodeUnavailable
}

// Terminate kills the process; the exit code cannot be chosen
func (p *GopsutilProcess) Terminate(code uint32) error {
	proc, err := p.get()
	if err != nil {
		return err
	}
	if err := proc.Kill(); err != nil {
		return fmt.Errorf("kill pid %d: %w", p.pid, err)
	}
	p.log.Debugln("Killed pid", uint32(p.pid), "requested exit code", code)
	return nil
}

func (p *GopsutilProcess) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.proc = nil
	return nil
}
