package process

import (
	"errors"
	"fmt"
	"sync"
)

// Guard owns one process handle from Acquire until Release. Release closes
// the handle exactly once; callers defer it right after a successful Acquire.
type Guard struct {
	pid    ProcessID
	access Access
	handle Handle
	mu     sync.Mutex
}

// Acquire opens pid with the given access and wraps the handle in a Guard.
// Failures wrap ErrNotFound, ErrAccessDenied or ErrHandleAcquisition.
func Acquire(p Platform, pid ProcessID, access Access) (*Guard, error) {
	h, err := p.OpenProcess(pid, access)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrAccessDenied) {
			return nil, fmt.Errorf("open pid %d (%s): %w", pid, access, err)
		}
		return nil, fmt.Errorf("open pid %d (%s): %w: %v", pid, access, ErrHandleAcquisition, err)
	}
	if h == nil {
		return nil, fmt.Errorf("open pid %d (%s): %w: nil handle", pid, access, ErrHandleAcquisition)
	}

	return &Guard{pid: pid, access: access, handle: h}, nil
}

// PID returns the process the guard was acquired for
func (g *Guard) PID() ProcessID {
	return g.pid
}

// Access returns the access the handle was opened with
func (g *Guard) Access() Access {
	return g.access
}

// Handle returns the guarded handle. Using a guard after Release is a
// programming error and panics.
func (g *Guard) Handle() Handle {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.handle == nil {
		panic(fmt.Sprintf("process: pid %d: %v", g.pid, ErrHandleReleased))
	}
	return g.handle
}

// Released reports whether Release has run
func (g *Guard) Released() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.handle == nil
}

// Release closes the handle. Only the first call reaches the platform;
// later calls return nil.
func (g *Guard) Release() error {
	g.mu.Lock()
	h := g.handle
	g.handle = nil
	g.mu.Unlock()

	if h == nil {
		return nil
	}

	if err := h.Close(); err != nil {
		return fmt.Errorf("close pid %d: %w", g.pid, err)
	}
	return nil
}
