//go:build linux

package process_linux

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"procstop/process"
	"procstop/process/memory_map"

	"github.com/Moonlight-Companies/gologger/logger"
	"golang.org/x/sys/unix"
)

// LinuxProcess is an open process handle. pidfd is -1 on kernels without pidfd_open.
type LinuxProcess struct {
	pid     process.ProcessID
	pidfd   int
	log     *logger.Logger
	mu      sync.Mutex
	closed  bool
	modules []string
}

// PID returns the process ID
func (p *LinuxProcess) PID() process.ProcessID {
	return p.pid
}

// Modules lists the executable followed by every other file-backed
// mapping of the process. Kernel threads have none.
func (p *LinuxProcess) Modules() ([]process.Module, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, process.ErrHandleReleased
	}

	var paths []string
	exe, exeErr := os.Readlink(filepath.Join("/proc", p.pid.String(), "exe"))
	if exeErr == nil && exe != "" {
		paths = append(paths, strings.TrimSuffix(exe, " (deleted)"))
	}

	mm, mapErr := memory_map.NewLinuxMemoryMap().ReadMemoryMap(int(p.pid))
	if exeErr != nil && mapErr != nil {
		return nil, fmt.Errorf("read modules of pid %d: %w", p.pid, errors.Join(exeErr, mapErr))
	}

	for _, path := range memory_map.ModulePaths(mm) {
		if len(paths) > 0 && path == paths[0] {
			continue
		}
		paths = append(paths, path)
	}

	p.modules = paths

	mods := make([]process.Module, len(paths))
	for i := range paths {
		mods[i] = process.Module(i)
	}
	return mods, nil
}

func (p *LinuxProcess) module(mod process.Module) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return "", process.ErrHandleReleased
	}
	if int(mod) < 0 || int(mod) >= len(p.modules) {
		return "", fmt.Errorf("module %d of pid %d: not enumerated", mod, p.pid)
	}
	return p.modules[mod], nil
}

func (p *LinuxProcess) ModuleBaseName(mod process.Module) (string, error) {
	path, err := p.module(mod)
	if err != nil {
		return "", err
	}
	return filepath.Base(path), nil
}

func (p *LinuxProcess) ModuleFileName(mod process.Module) (string, error) {
	return p.module(mod)
}

// ExitCode reads the exit_code field of /proc/<pid>/stat. It is zero while
// the process is alive.
func (p *LinuxProcess) ExitCode() (uint32, error) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()

	if closed {
		return 0, process.ErrHandleReleased
	}
	return readExitCode(int(p.pid))
}

// Terminate sends SIGKILL through the pidfd. Linux cannot impose an exit
// code on another process, so code is only logged.
func (p *LinuxProcess) Terminate(code uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return process.ErrHandleReleased
	}

	var err error
	if p.pidfd >= 0 {
		err = unix.PidfdSendSignal(p.pidfd, unix.SIGKILL, nil, 0)
	} else {
		err = unix.Kill(int(p.pid), unix.SIGKILL)
	}
	if err != nil {
		return fmt.Errorf("kill pid %d: %w", p.pid, err)
	}

	p.log.Debugln("Sent SIGKILL to pid", uint32(p.pid), "requested exit code", code)
	return nil
}

func (p *LinuxProcess) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	p.modules = nil

	if p.pidfd >= 0 {
		if err := unix.Close(p.pidfd); err != nil {
			return fmt.Errorf("close pidfd of pid %d: %w", p.pid, err)
		}
	}
	return nil
}
