package process

// Platform is the operating system surface the engine is built on
type Platform interface {
	// EnumProcesses fills ids with the live process table and returns the
	// number of slots written. Entries beyond len(ids) are dropped.
	EnumProcesses(ids []uint32) (int, error)

	// OpenProcess opens a handle to pid with the given access. It returns an
	// error wrapping ErrNotFound or ErrAccessDenied when it can classify the failure.
	OpenProcess(pid ProcessID, access Access) (Handle, error)
}

// Handle is an open OS process handle. Handles are owned by the scope that
// opened them and are never shared; see Guard.
type Handle interface {
	// PID returns the process the handle refers to
	PID() ProcessID

	// Modules lists the loaded modules, primary executable first
	Modules() ([]Module, error)

	// ModuleBaseName returns the file name of a module
	ModuleBaseName(mod Module) (string, error)

	// ModuleFileName returns the full path of a module
	ModuleFileName(mod Module) (string, error)

	// ExitCode returns the current exit code of the process
	ExitCode() (uint32, error)

	// Terminate requests termination with the given exit code
	Terminate(code uint32) error

	// Close releases the OS resource
	Close() error
}

// Tracer receives the per-step debug trace of the engine.
type Tracer interface {
	Debugf(format string, args ...any)
}

type nopTracer struct{}

func (nopTracer) Debugf(string, ...any) {}

// NopTracer discards all trace lines.
var NopTracer Tracer = nopTracer{}
