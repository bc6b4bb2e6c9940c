package process

import "fmt"

// NoneName is reported for any name or path that could not be resolved.
// A Descriptor never carries an empty name.
const NoneName = "none"

// ProcessID represents an OS process identifier at one point in time.
// PIDs are reused after exit, so a ProcessID may go stale between
// enumeration and resolution.
type ProcessID uint32

func (pid ProcessID) String() string {
	return fmt.Sprintf("%d", uint32(pid))
}

// Access is the access mask requested when opening a process handle.
type Access uint32

const (
	AccessQuery        Access = 1 << iota // query information
	AccessVMRead                          // read process memory (module enumeration)
	AccessQueryLimited                    // limited query, enough for the exit code
	AccessTerminate                       // terminate the process
)

func (a Access) Has(flag Access) bool {
	return a&flag == flag
}

func (a Access) String() string {
	names := []struct {
		flag Access
		name string
	}{
		{AccessQuery, "query"},
		{AccessVMRead, "vm-read"},
		{AccessQueryLimited, "query-limited"},
		{AccessTerminate, "terminate"},
	}

	out := ""
	for _, n := range names {
		if a.Has(n.flag) {
			if out != "" {
				out += "|"
			}
			out += n.name
		}
	}
	if out == "" {
		return "none"
	}
	return out
}

// Module identifies a module loaded into a process. It is only meaningful
// together with the handle that enumerated it.
type Module uintptr

// Descriptor is the resolved identity of a process
type Descriptor struct {
	PID  ProcessID // Process ID
	Name string    // Executable base name, NoneName when unresolved
	Path string    // Full executable path, NoneName when unresolved
}

// Unresolved returns the degraded descriptor used when no handle could be opened.
func Unresolved(pid ProcessID) Descriptor {
	return Descriptor{PID: pid, Name: NoneName, Path: NoneName}
}

func (d Descriptor) String() string {
	return fmt.Sprintf("pid: %d name: %s path: %s", d.PID, d.Name, d.Path)
}

// Outcome is the result of one termination attempt. Attempts are never retried.
type Outcome struct {
	PID       ProcessID
	Name      string
	ExitCode  uint32 // exit code passed to the terminate request
	Succeeded bool
	DryRun    bool  // termination was suppressed
	Err       error // why the attempt failed, nil on success or dry-run
}
