package report

import (
	"bytes"
	"strings"
	"testing"

	"procstop/process"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ process.Reporter = (*Console)(nil)

func lines(buf *bytes.Buffer) []string {
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
}

func TestConsolePlain(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, Options{NoColor: true})

	c.Line(0, "pid: 0 name: none path: none")
	c.Line(1, "pid: 4 name: System path: none")
	c.Statusf("Killing process %s", "calc.exe")
	c.Failuref("Failed to kill process %s", "calc.exe")
	c.Errorf("unable to retrieve a list of system processes")

	require.Equal(t, []string{
		"pid: 0 name: none path: none",
		"pid: 4 name: System path: none",
		"Killing process calc.exe",
		"Failed to kill process calc.exe",
		"Error: unable to retrieve a list of system processes",
	}, lines(&buf))
}

func TestConsoleDebugGated(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, Options{NoColor: true})
	c.Debugf("Enumerating modules of pid [%d]", 4)
	assert.Empty(t, buf.String())
	assert.False(t, c.DebugEnabled())

	c = New(&buf, Options{NoColor: true, Debug: true})
	c.Debugf("Enumerating modules of pid [%d]", 4)
	assert.Equal(t, "Debug => Enumerating modules of pid [4]\n", buf.String())
}

func TestConsoleAlternatingColors(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, Options{})
	c.even.EnableColor()
	c.odd.EnableColor()

	c.Line(0, "even")
	c.Line(1, "odd")

	out := lines(&buf)
	require.Len(t, out, 2)
	assert.Contains(t, out[0], "\x1b[96m")
	assert.Contains(t, out[1], "\x1b[93m")
}
