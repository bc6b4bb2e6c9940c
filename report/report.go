// Package report writes the line-oriented console output of procstop.
package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// Options configures a Console
type Options struct {
	Debug   bool // print per-step trace lines
	NoColor bool // never emit ANSI escapes
}

// Console writes status, failure and trace lines to an io.Writer.
// It implements process.Reporter.
type Console struct {
	w     io.Writer
	debug bool
	mu    sync.Mutex

	even    *color.Color
	odd     *color.Color
	errTag  *color.Color
	failure *color.Color
	success *color.Color
	dbgTag  *color.Color
	arrow   *color.Color
	dbgText *color.Color
}

// New creates a Console writing to w
func New(w io.Writer, opts Options) *Console {
	c := &Console{
		w:       w,
		debug:   opts.Debug,
		even:    color.New(color.FgHiCyan),
		odd:     color.New(color.FgHiYellow),
		errTag:  color.New(color.FgRed),
		failure: color.New(color.FgRed),
		success: color.New(color.FgGreen),
		dbgTag:  color.New(color.FgHiRed),
		arrow:   color.New(color.FgCyan),
		dbgText: color.New(color.FgYellow),
	}

	if opts.NoColor {
		for _, col := range []*color.Color{c.even, c.odd, c.errTag, c.failure, c.success, c.dbgTag, c.arrow, c.dbgText} {
			col.DisableColor()
		}
	}

	return c
}

// DebugEnabled reports whether trace lines are printed
func (c *Console) DebugEnabled() bool {
	return c.debug
}

// Line prints text styled by the parity of index, alternating bright cyan
// and bright yellow.
func (c *Console) Line(index int, text string) {
	col := c.even
	if index%2 == 1 {
		col = c.odd
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, col.Sprint(text))
}

// Debugf prints a trace line when debug output is enabled
func (c *Console) Debugf(format string, args ...any) {
	if !c.debug {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "%s %s %s\n", c.dbgTag.Sprint("Debug"), c.arrow.Sprint("=>"), c.dbgText.Sprintf(format, args...))
}

// Statusf prints a status line
func (c *Console) Statusf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, c.success.Sprintf(format, args...))
}

// Failuref prints a failure line
func (c *Console) Failuref(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, c.failure.Sprintf(format, args...))
}

// Errorf prints an "Error: " prefixed line
func (c *Console) Errorf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "%s: %s\n", c.errTag.Sprint("Error"), fmt.Sprintf(format, args...))
}
