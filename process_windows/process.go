//go:build windows

package process_windows

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"procstop/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"golang.org/x/sys/windows"
)

// maxModules bounds the module list requested from EnumProcessModules
const maxModules = 256

// WindowsPlatform implements process.Platform with the Win32 process API
type WindowsPlatform struct {
	log *logger.Logger
}

// New creates a new WindowsPlatform
func New() process.Platform {
	return &WindowsPlatform{
		log: logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "win32")),
	}
}

// EnumProcesses fills ids from EnumProcesses. The byte count returned by
// the system is converted to a slot count.
func (w *WindowsPlatform) EnumProcesses(ids []uint32) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var bytesReturned uint32
	if err := windows.EnumProcesses(ids, &bytesReturned); err != nil {
		return 0, fmt.Errorf("EnumProcesses failed: %w", err)
	}

	n := int(bytesReturned) / int(unsafe.Sizeof(ids[0]))
	if n > len(ids) {
		n = len(ids)
	}
	return n, nil
}

// OpenProcess opens pid with the Win32 rights matching access
func (w *WindowsPlatform) OpenProcess(pid process.ProcessID, access process.Access) (process.Handle, error) {
	h, err := windows.OpenProcess(desiredAccess(access), false, uint32(pid))
	if err != nil {
		return nil, classify(pid, err)
	}
	if h == 0 || h == windows.InvalidHandle {
		return nil, fmt.Errorf("OpenProcess pid %d: %w", pid, process.ErrNotFound)
	}

	return &WindowsProcess{pid: pid, handle: h, log: w.log}, nil
}

func desiredAccess(access process.Access) uint32 {
	var rights uint32
	if access.Has(process.AccessQuery) {
		rights |= windows.PROCESS_QUERY_INFORMATION
	}
	if access.Has(process.AccessVMRead) {
		rights |= windows.PROCESS_VM_READ
	}
	if access.Has(process.AccessQueryLimited) {
		rights |= windows.PROCESS_QUERY_LIMITED_INFORMATION
	}
	if access.Has(process.AccessTerminate) {
		rights |= windows.PROCESS_TERMINATE
	}
	return rights
}

// classify maps OpenProcess errors: ERROR_ACCESS_DENIED for protected or
// foreign processes, ERROR_INVALID_PARAMETER for PIDs that are gone.
func classify(pid process.ProcessID, err error) error {
	switch {
	case errors.Is(err, windows.ERROR_ACCESS_DENIED):
		return fmt.Errorf("OpenProcess pid %d: %w", pid, process.ErrAccessDenied)
	case errors.Is(err, windows.ERROR_INVALID_PARAMETER):
		return fmt.Errorf("OpenProcess pid %d: %w", pid, process.ErrNotFound)
	default:
		return fmt.Errorf("OpenProcess pid %d failed: %v", pid, err)
	}
}

// WindowsProcess is an open Win32 process handle
type WindowsProcess struct {
	pid    process.ProcessID
	handle windows.Handle
	log    *logger.Logger
	mu     sync.Mutex
}

func (p *WindowsProcess) PID() process.ProcessID {
	return p.pid
}

func (p *WindowsProcess) get() (windows.Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handle == 0 {
		return 0, process.ErrHandleReleased
	}
	return p.handle, nil
}

// Modules returns the loaded modules; the first is the executable
func (p *WindowsProcess) Modules() ([]process.Module, error) {
	h, err := p.get()
	if err != nil {
		return nil, err
	}

	var mods [maxModules]windows.Handle
	var needed uint32
	err = windows.EnumProcessModules(h, &mods[0], uint32(unsafe.Sizeof(mods)), &needed)
	if err != nil {
		return nil, fmt.Errorf("EnumProcessModules failed: %w", err)
	}

	n := int(needed / uint32(unsafe.Sizeof(mods[0])))
	if n > len(mods) {
		n = len(mods)
	}

	out := make([]process.Module, 0, n)
	for _, m := range mods[:n] {
		out = append(out, process.Module(m))
	}
	return out, nil
}

func (p *WindowsProcess) ModuleBaseName(mod process.Module) (string, error) {
	h, err := p.get()
	if err != nil {
		return "", err
	}

	var buf [windows.MAX_PATH]uint16
	if err := windows.GetModuleBaseName(h, windows.Handle(mod), &buf[0], uint32(len(buf))); err != nil {
		return "", fmt.Errorf("GetModuleBaseName failed: %w", err)
	}
	return windows.UTF16ToString(buf[:]), nil
}

func (p *WindowsProcess) ModuleFileName(mod process.Module) (string, error) {
	h, err := p.get()
	if err != nil {
		return "", err
	}

	var buf [windows.MAX_LONG_PATH]uint16
	if err := windows.GetModuleFileNameEx(h, windows.Handle(mod), &buf[0], uint32(len(buf))); err != nil {
		return "", fmt.Errorf("GetModuleFileNameEx failed: %w", err)
	}
	return windows.UTF16ToString(buf[:]), nil
}

// ExitCode returns STILL_ACTIVE (259) for a running process
func (p *WindowsProcess) ExitCode() (uint32, error) {
	h, err := p.get()
	if err != nil {
		return 0, err
	}

	var code uint32
	if err := windows.GetExitCodeProcess(h, &code); err != nil {
		return 0, fmt.Errorf("GetExitCodeProcess failed: %w", err)
	}
	return code, nil
}

func (p *WindowsProcess) Terminate(code uint32) error {
	h, err := p.get()
	if err != nil {
		return err
	}

	if err := windows.TerminateProcess(h, code); err != nil {
		return fmt.Errorf("TerminateProcess failed: %w", err)
	}
	return nil
}

func (p *WindowsProcess) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.handle == 0 {
		return nil
	}

	err := windows.CloseHandle(p.handle)
	p.handle = 0
	if err != nil {
		return fmt.Errorf("CloseHandle failed: %w", err)
	}

	p.log.Debugln("Closed handle for pid", uint32(p.pid))
	return nil
}
