package processtest

import (
	"fmt"
	"strings"
	"sync"
)

// Recorder is a process.Reporter that keeps every line in memory
type Recorder struct {
	mu       sync.Mutex
	Status   []string
	Failures []string
	Debug    []string
}

func (r *Recorder) Debugf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Debug = append(r.Debug, fmt.Sprintf(format, args...))
}

func (r *Recorder) Statusf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Status = append(r.Status, fmt.Sprintf(format, args...))
}

func (r *Recorder) Failuref(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
}

// HasStatus reports whether any status line starts with prefix
func (r *Recorder) HasStatus(prefix string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, line := range r.Status {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
