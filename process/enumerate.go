package process

import (
	"fmt"
)

// ProcessTableCapacity is the number of slots requested from the system
// process table in one call. Larger tables are truncated.
const ProcessTableCapacity = 1024

// ListProcesses reads the live process table in a single call and returns
// the filtered PIDs. On failure the result is empty and the error wraps
// ErrEnumeration.
func ListProcesses(p Platform) ([]ProcessID, error) {
	var table [ProcessTableCapacity]uint32

	n, err := p.EnumProcesses(table[:])
	if err != nil {
		return []ProcessID{}, fmt.Errorf("%w: %v", ErrEnumeration, err)
	}
	if n > len(table) {
		n = len(table)
	}
	if n <= 0 {
		return []ProcessID{}, nil
	}

	return FilterProcessTable(table[:n]), nil
}

// FilterProcessTable drops unused slots from a raw process table.
// The first slot is always kept: on Windows it holds the idle process, PID 0.
// After it, the first zero marks the end of the table.
//
//	[0 4 8 0 0 12] -> [0 4 8]
func FilterProcessTable(raw []uint32) []ProcessID {
	out := make([]ProcessID, 0, len(raw))

	for i, id := range raw {
		if id == 0 && i > 0 {
			break
		}
		out = append(out, ProcessID(id))
	}

	return out
}
