package process

import (
	"fmt"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// Resolver turns a PID into a Descriptor. Resolution never fails hard:
// anything that cannot be read is reported as NoneName.
type Resolver struct {
	platform Platform
	trace    Tracer
	log      *logger.Logger
}

// NewResolver creates a Resolver on top of the given platform. A nil tracer
// disables the debug trace.
func NewResolver(p Platform, trace Tracer) *Resolver {
	if trace == nil {
		trace = NopTracer
	}
	return &Resolver{
		platform: p,
		trace:    trace,
		log:      logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "resolver")),
	}
}

// Resolve opens pid for query and read, and reads the base name and full
// path of its primary module. The two reads fail independently.
func (r *Resolver) Resolve(pid ProcessID) Descriptor {
	r.trace.Debugf("Opening pid [%d] with read access", pid)

	g, err := Acquire(r.platform, pid, AccessQuery|AccessVMRead)
	if err != nil {
		r.trace.Debugf("No read handle for pid [%d]: %v", pid, err)
		return Unresolved(pid)
	}
	defer func() {
		if err := g.Release(); err != nil {
			r.log.Warn("Release failed: ", err)
		}
	}()

	d := Unresolved(pid)

	r.trace.Debugf("Enumerating modules of pid [%d]", pid)
	mod, err := primaryModule(g.Handle())
	if err != nil {
		r.trace.Debugf("Module enumeration failed for pid [%d]: %v", pid, err)
		return d
	}

	r.trace.Debugf("Reading module base name of pid [%d]", pid)
	if name, err := g.Handle().ModuleBaseName(mod); err != nil || name == "" {
		r.trace.Debugf("Base name unavailable for pid [%d]: %v", pid, resolutionError("base name", err))
	} else {
		d.Name = name
	}

	r.trace.Debugf("Reading path of %s", d.Name)
	if path, err := g.Handle().ModuleFileName(mod); err != nil || path == "" {
		r.trace.Debugf("Path unavailable for %s: %v", d.Name, resolutionError("path", err))
	} else {
		d.Path = path
	}

	return d
}

func primaryModule(h Handle) (Module, error) {
	mods, err := h.Modules()
	if err != nil {
		return 0, resolutionError("modules", err)
	}
	if len(mods) == 0 {
		return 0, resolutionError("modules", ErrNoModules)
	}
	return mods[0], nil
}

func resolutionError(what string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s: empty result", ErrResolution, what)
	}
	return fmt.Errorf("%w: %s: %v", ErrResolution, what, err)
}
