package memory_map

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// deletedSuffix is appended by the kernel to mappings of unlinked files
const deletedSuffix = " (deleted)"

// MemoryMapItem represents one mapping of a process's address space
type MemoryMapItem struct {
	Address  uint64 // The starting address of the mapping
	Size     uint   // The size of the mapping in bytes
	Perms    string // Permissions (e.g., "r-xp" for read, execute, private)
	Pathname string // Backing file, pseudo name such as "[heap]", or empty
}

// String returns a string representation of the memory map item
func (mmItem MemoryMapItem) String() string {
	return fmt.Sprintf("Address: %x, Size: %d, Perms: %s, Path: %s", mmItem.Address, mmItem.Size, mmItem.Perms, mmItem.Pathname)
}

// IsFileBacked reports whether the mapping comes from a file on disk
func (mmItem MemoryMapItem) IsFileBacked() bool {
	return strings.HasPrefix(mmItem.Pathname, "/")
}

// MemoryMap reads the memory map of a process
type MemoryMap interface {
	// ReadMemoryMap reads and parses the memory map for a process
	ReadMemoryMap(pid int) ([]MemoryMapItem, error)
}

// Parse reads the /proc/<pid>/maps format from r. Lines that do not parse
// are skipped.
func Parse(r io.Reader) ([]MemoryMapItem, error) {
	var memoryMap []MemoryMapItem

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		// address perms offset dev inode pathname
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}

		addrRange := strings.Split(fields[0], "-")
		if len(addrRange) != 2 {
			continue
		}

		startAddr, err := strconv.ParseUint(addrRange[0], 16, 64)
		if err != nil {
			continue
		}

		endAddr, err := strconv.ParseUint(addrRange[1], 16, 64)
		if err != nil || endAddr < startAddr {
			continue
		}

		item := MemoryMapItem{
			Address: startAddr,
			Size:    uint(endAddr - startAddr),
			Perms:   fields[1],
		}
		if len(fields) > 5 {
			item.Pathname = strings.Join(fields[5:], " ")
		}

		memoryMap = append(memoryMap, item)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return memoryMap, nil
}

// ModulePaths returns the distinct file-backed pathnames in map order.
// The " (deleted)" marker of unlinked files is stripped.
func ModulePaths(memoryMap []MemoryMapItem) []string {
	seen := make(map[string]bool)
	var paths []string

	for _, item := range memoryMap {
		if !item.IsFileBacked() {
			continue
		}
		path := strings.TrimSuffix(item.Pathname, deletedSuffix)
		if seen[path] {
			continue
		}
		seen[path] = true
		paths = append(paths, path)
	}

	return paths
}
