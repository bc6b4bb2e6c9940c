// Package match decides whether a resolved process is a termination target.
package match

import (
	"fmt"
	"strings"

	"procstop/process"
)

// Mode selects how the configured names are interpreted
type Mode int

const (
	// Blacklist terminates processes whose name contains a configured fragment
	Blacklist Mode = iota
	// Whitelist protects processes whose name contains a configured fragment.
	// Nothing is terminated in whitelist mode.
	Whitelist
)

func (m Mode) String() string {
	switch m {
	case Blacklist:
		return "blacklist"
	case Whitelist:
		return "whitelist"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode parses "blacklist" or "whitelist", ignoring case and surrounding space
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "blacklist":
		return Blacklist, nil
	case "whitelist":
		return Whitelist, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want blacklist or whitelist)", s)
	}
}

// Policy is a mode plus the ordered list of lowercase name fragments
type Policy struct {
	Mode  Mode
	Names []string
}

// Contains reports whether name contains fragment, ignoring the case of
// name. The sentinel name of an unresolved process never matches.
func Contains(name, fragment string) bool {
	if name == process.NoneName || fragment == "" {
		return false
	}
	return strings.Contains(strings.ToLower(name), fragment)
}

// Listed reports whether the descriptor's name contains any configured
// fragment, regardless of mode.
func Listed(d process.Descriptor, p Policy) bool {
	for _, fragment := range p.Names {
		if Contains(d.Name, fragment) {
			return true
		}
	}
	return false
}

// IsTarget reports whether the process should be terminated under p.
func IsTarget(d process.Descriptor, p Policy) bool {
	if p.Mode != Blacklist {
		return false
	}
	return Listed(d, p)
}
