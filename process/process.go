// Package process provides the process-control engine: handle guards,
// process table enumeration, identity resolution and termination.
package process

import "errors"

// Platform specific implementations live in:
// - process_windows: Win32 handles (OpenProcess, EnumProcesses, psapi)
// - process_linux: /proc and pidfd handles
// - process_gopsutil: portable fallback built on gopsutil

var (
	// ErrNotFound is returned when the PID does not name a live process.
	ErrNotFound = errors.New("process not found")

	// ErrAccessDenied is returned when the process exists but the requested
	// access could not be granted.
	ErrAccessDenied = errors.New("access denied")

	// ErrHandleAcquisition wraps any other failure to open a process handle.
	ErrHandleAcquisition = errors.New("handle acquisition failed")

	// ErrHandleReleased is returned when a released guard is used.
	ErrHandleReleased = errors.New("handle already released")

	// ErrEnumeration is returned when the system process table is unreadable.
	ErrEnumeration = errors.New("process list unavailable")

	// ErrResolution wraps module, name and path query failures.
	ErrResolution = errors.New("resolution failed")

	// ErrTermination is returned when the terminate request itself fails.
	ErrTermination = errors.New("termination failed")

	// ErrNoModules is returned when a process reports no loaded modules.
	ErrNoModules = errors.New("no modules loaded")
)
