package process_test

import (
	"errors"
	"testing"

	"procstop/process"
	"procstop/process/processtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminate(t *testing.T) {
	p := processtest.New(processtest.Proc{PID: 20, Name: "calc.exe", ExitCode: 259})
	rec := &processtest.Recorder{}

	out := process.NewTerminator(p, rec).Terminate(20, "calc.exe", process.TerminateOptions{Verbose: true})

	assert.True(t, out.Succeeded)
	assert.False(t, out.DryRun)
	assert.NoError(t, out.Err)
	assert.Equal(t, uint32(259), out.ExitCode)
	assert.False(t, p.Alive(20))
	assert.Equal(t, []processtest.Termination{{PID: 20, Code: 259}}, p.Terminations())

	require.Len(t, rec.Status, 2)
	assert.Equal(t, "Killing process calc.exe (pid 20)", rec.Status[0])
	assert.Equal(t, "Successfully killed process calc.exe (pid 20)", rec.Status[1])
	assert.Empty(t, rec.Failures)

	assert.Equal(t, 1, p.Closed())
	assert.Zero(t, p.OpenHandles())
}

func TestTerminateQuiet(t *testing.T) {
	p := processtest.New(processtest.Proc{PID: 20, Name: "calc.exe"})
	rec := &processtest.Recorder{}

	out := process.NewTerminator(p, rec).Terminate(20, "calc.exe", process.TerminateOptions{})
	assert.True(t, out.Succeeded)
	assert.Empty(t, rec.Status)
}

func TestTerminateDryRun(t *testing.T) {
	p := processtest.New(processtest.Proc{PID: 20, Name: "calc.exe"})
	rec := &processtest.Recorder{}

	out := process.NewTerminator(p, rec).Terminate(20, "calc.exe", process.TerminateOptions{DryRun: true, Verbose: true})

	assert.False(t, out.Succeeded)
	assert.True(t, out.DryRun)
	assert.True(t, p.Alive(20))
	assert.Empty(t, p.Terminations())
	assert.Equal(t, []string{"Killing process calc.exe (pid 20)"}, rec.Status)

	pids, err := process.ListProcesses(p)
	require.NoError(t, err)
	assert.Contains(t, pids, process.ProcessID(20))
	assert.Zero(t, p.OpenHandles())
}

func TestTerminateHandleUnavailable(t *testing.T) {
	p := processtest.New(processtest.Proc{PID: 20, Name: "lsass.exe", Deny: process.AccessTerminate})
	rec := &processtest.Recorder{}

	out := process.NewTerminator(p, rec).Terminate(20, "lsass.exe", process.TerminateOptions{Verbose: true})

	assert.False(t, out.Succeeded)
	assert.ErrorIs(t, out.Err, process.ErrAccessDenied)
	assert.Empty(t, rec.Status, "no kill intent without a handle")
	require.Len(t, rec.Failures, 1)
	assert.Contains(t, rec.Failures[0], "Failed to kill process lsass.exe (pid 20)")
	assert.Zero(t, p.Opened())
}

func TestTerminateExitCodeFailureUsesZero(t *testing.T) {
	p := processtest.New(processtest.Proc{PID: 20, Name: "calc.exe", ExitCode: 7, ExitCodeErr: errors.New("unsupported")})

	out := process.NewTerminator(p, &processtest.Recorder{}).Terminate(20, "calc.exe", process.TerminateOptions{})

	assert.True(t, out.Succeeded)
	assert.Equal(t, uint32(0), out.ExitCode)
	assert.Equal(t, []processtest.Termination{{PID: 20, Code: 0}}, p.Terminations())
}

func TestTerminateCallFails(t *testing.T) {
	p := processtest.New(processtest.Proc{PID: 20, Name: "calc.exe", TerminateErr: errors.New("access is denied")})
	rec := &processtest.Recorder{}

	out := process.NewTerminator(p, rec).Terminate(20, "calc.exe", process.TerminateOptions{Verbose: true})

	assert.False(t, out.Succeeded)
	assert.ErrorIs(t, out.Err, process.ErrTermination)
	assert.True(t, p.Alive(20))
	assert.Len(t, p.Terminations(), 1, "terminate is attempted once")
	assert.Equal(t, []string{"Killing process calc.exe (pid 20)"}, rec.Status)
	require.Len(t, rec.Failures, 1)
	assert.Equal(t, 1, p.Closed())
	assert.Zero(t, p.DoubleClosed())
}
