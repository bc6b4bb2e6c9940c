package process_test

import (
	"errors"
	"testing"

	"procstop/process"
	"procstop/process/processtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	errQuery := errors.New("partial copy")

	tests := []struct {
		name string
		proc processtest.Proc
		pid  process.ProcessID
		want process.Descriptor
	}{
		{
			name: "resolved",
			proc: processtest.Proc{PID: 10, Name: "Chrome.exe", Path: `C:\Program Files\Chrome\Chrome.exe`},
			pid:  10,
			want: process.Descriptor{PID: 10, Name: "Chrome.exe", Path: `C:\Program Files\Chrome\Chrome.exe`},
		},
		{
			name: "pid not in table",
			proc: processtest.Proc{PID: 10, Name: "calc.exe"},
			pid:  99,
			want: process.Unresolved(99),
		},
		{
			name: "read access denied",
			proc: processtest.Proc{PID: 10, Name: "csrss.exe", Deny: process.AccessVMRead},
			pid:  10,
			want: process.Unresolved(10),
		},
		{
			name: "module enumeration fails",
			proc: processtest.Proc{PID: 10, Name: "calc.exe", Path: "/calc", ModulesErr: errQuery},
			pid:  10,
			want: process.Unresolved(10),
		},
		{
			name: "no modules",
			proc: processtest.Proc{PID: 10, Name: "calc.exe", Path: "/calc", NoModules: true},
			pid:  10,
			want: process.Unresolved(10),
		},
		{
			name: "name fails, path resolves",
			proc: processtest.Proc{PID: 10, Path: "/usr/bin/calc", NameErr: errQuery},
			pid:  10,
			want: process.Descriptor{PID: 10, Name: process.NoneName, Path: "/usr/bin/calc"},
		},
		{
			name: "path fails, name resolves",
			proc: processtest.Proc{PID: 10, Name: "calc", PathErr: errQuery},
			pid:  10,
			want: process.Descriptor{PID: 10, Name: "calc", Path: process.NoneName},
		},
		{
			name: "empty name is none",
			proc: processtest.Proc{PID: 10, Name: "", Path: "/usr/bin/calc"},
			pid:  10,
			want: process.Descriptor{PID: 10, Name: process.NoneName, Path: "/usr/bin/calc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := processtest.New(tt.proc)
			r := process.NewResolver(p, nil)

			got := r.Resolve(tt.pid)
			assert.Equal(t, tt.want, got)

			assert.Equal(t, p.Opened(), p.Closed(), "every opened handle is closed")
			assert.Zero(t, p.DoubleClosed())
		})
	}
}

func TestResolveDoesNotFoldCase(t *testing.T) {
	p := processtest.New(processtest.Proc{PID: 5, Name: "CHROME.EXE", Path: `C:\CHROME.EXE`})

	d := process.NewResolver(p, nil).Resolve(5)
	require.Equal(t, "CHROME.EXE", d.Name)
}

func TestResolveTrace(t *testing.T) {
	p := processtest.New(processtest.Proc{PID: 5, Name: "calc.exe", Path: `C:\calc.exe`})
	rec := &processtest.Recorder{}

	process.NewResolver(p, rec).Resolve(5)
	require.NotEmpty(t, rec.Debug)
	assert.Contains(t, rec.Debug[0], "[5]")
}

func TestDescriptorString(t *testing.T) {
	d := process.Descriptor{PID: 8, Name: "calc.exe", Path: `C:\calc.exe`}
	assert.Equal(t, `pid: 8 name: calc.exe path: C:\calc.exe`, d.String())
}
