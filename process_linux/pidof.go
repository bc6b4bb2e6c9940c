//go:build linux

package process_linux

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// statExitCodeField is the 1-based index of exit_code in /proc/<pid>/stat
const statExitCodeField = 52

// WaitExit waits until pid disappears from /proc or until timeout.
// Returns true if the process is gone within the timeout. A zombie keeps
// its /proc entry until its parent reaps it.
func WaitExit(pid int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	tick := 25 * time.Millisecond
	for {
		if !procExists(pid) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(tick)
		// Exponential-ish backoff up to 250ms to reduce pressure on /proc
		if tick < 250*time.Millisecond {
			tick += 10 * time.Millisecond
		}
	}
}

func procExists(pid int) bool {
	// Fast path: stat /proc/<pid>
	_, err := os.Stat(filepath.Join("/proc", strconv.Itoa(pid)))
	if err == nil {
		return true
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false
	}
	// For transient errors (permission, EIO): fall back to kill 0
	return syscall.Kill(pid, 0) == nil
}

// readExitCode parses exit_code from /proc/<pid>/stat
func readExitCode(pid int) (uint32, error) {
	data, err := os.ReadFile(filepath.Join("/proc", strconv.Itoa(pid), "stat"))
	if err != nil {
		return 0, err
	}
	return parseStatExitCode(string(data))
}

// parseStatExitCode extracts exit_code from the contents of a stat file.
// comm, field 2, may itself contain spaces and parentheses, so the fields
// are counted from the last ')'.
func parseStatExitCode(stat string) (uint32, error) {
	end := strings.LastIndexByte(stat, ')')
	if end < 0 {
		return 0, fmt.Errorf("invalid stat file format")
	}

	// Fields after comm start at field 3 (state)
	fields := strings.Fields(stat[end+1:])
	idx := statExitCodeField - 3
	if len(fields) <= idx {
		return 0, fmt.Errorf("exit code not reported (%d fields)", len(fields)+2)
	}

	code, err := strconv.ParseInt(fields[idx], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse exit code %q: %w", fields[idx], err)
	}
	return uint32(code), nil
}
