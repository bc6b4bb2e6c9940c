//go:build linux

package process_linux

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"procstop/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"golang.org/x/sys/unix"
)

// LinuxPlatform implements process.Platform on /proc and pidfds.
// Slot 0 of the process table is the idle task, PID 0, which has no /proc entry.
type LinuxPlatform struct {
	log *logger.Logger
}

// New creates a new LinuxPlatform
func New() process.Platform {
	return &LinuxPlatform{
		log: logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "linux")),
	}
}

// EnumProcesses writes 0 followed by the numeric /proc entries in ascending order
func (l *LinuxPlatform) EnumProcesses(ids []uint32) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	pids, err := listPIDs()
	if err != nil {
		return 0, err
	}

	ids[0] = 0
	n := 1
	for _, pid := range pids {
		if n == len(ids) {
			break
		}
		ids[n] = pid
		n++
	}
	return n, nil
}

func listPIDs() ([]uint32, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, fmt.Errorf("read /proc: %w", err)
	}

	var pids []uint32
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pid, err := strconv.ParseUint(entry.Name(), 10, 32)
		if err != nil || pid == 0 {
			continue // not a PID dir
		}
		pids = append(pids, uint32(pid))
	}

	sort.Slice(pids, func(i, j int) bool { return pids[i] < pids[j] })
	return pids, nil
}

// OpenProcess pins pid with a pidfd and checks that the requested access
// would be granted: read access needs /proc/<pid>/exe to be readable,
// terminate access needs permission to signal the process.
func (l *LinuxPlatform) OpenProcess(pid process.ProcessID, access process.Access) (process.Handle, error) {
	if pid == 0 {
		return nil, fmt.Errorf("pid 0 is the idle task: %w", process.ErrNotFound)
	}

	fd, err := unix.PidfdOpen(int(pid), 0)
	switch {
	case err == nil:
	case errors.Is(err, unix.ESRCH):
		return nil, fmt.Errorf("pidfd_open pid %d: %w", pid, process.ErrNotFound)
	case errors.Is(err, unix.ENOSYS):
		// Kernels before 5.3: fall back to a bare PID.
		if !procExists(int(pid)) {
			return nil, fmt.Errorf("pid %d: %w", pid, process.ErrNotFound)
		}
		fd = -1
	default:
		return nil, fmt.Errorf("pidfd_open pid %d failed: %v", pid, err)
	}

	p := &LinuxProcess{pid: pid, pidfd: fd, log: l.log}
	if err := p.checkAccess(access); err != nil {
		_ = p.Close()
		return nil, err
	}
	return p, nil
}

func (p *LinuxProcess) checkAccess(access process.Access) error {
	if access.Has(process.AccessQuery) || access.Has(process.AccessVMRead) {
		_, err := os.Readlink(filepath.Join("/proc", p.pid.String(), "exe"))
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("read /proc/%d/exe: %w", p.pid, process.ErrAccessDenied)
		}
		// Kernel threads have no exe; they open but resolve no modules.
	}

	if access.Has(process.AccessTerminate) {
		switch err := unix.Kill(int(p.pid), 0); {
		case err == nil:
		case errors.Is(err, unix.EPERM):
			return fmt.Errorf("signal pid %d: %w", p.pid, process.ErrAccessDenied)
		case errors.Is(err, unix.ESRCH):
			return fmt.Errorf("signal pid %d: %w", p.pid, process.ErrNotFound)
		default:
			return fmt.Errorf("signal pid %d failed: %v", p.pid, err)
		}
	}

	return nil
}
