package process_test

import (
	"errors"
	"testing"

	"procstop/process"
	"procstop/process/processtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireRelease(t *testing.T) {
	p := processtest.New(processtest.Proc{PID: 42, Name: "calc.exe"})

	g, err := process.Acquire(p, 42, process.AccessQuery)
	require.NoError(t, err)
	assert.Equal(t, process.ProcessID(42), g.PID())
	assert.Equal(t, process.AccessQuery, g.Access())
	assert.Equal(t, process.ProcessID(42), g.Handle().PID())
	assert.Equal(t, 1, p.OpenHandles())

	require.NoError(t, g.Release())
	assert.True(t, g.Released())
	assert.Equal(t, 0, p.OpenHandles())

	// Later releases never reach the platform.
	require.NoError(t, g.Release())
	assert.Equal(t, 1, p.Closed())
	assert.Equal(t, 0, p.DoubleClosed())
}

func TestGuardHandleAfterReleasePanics(t *testing.T) {
	p := processtest.New(processtest.Proc{PID: 42})

	g, err := process.Acquire(p, 42, process.AccessQuery)
	require.NoError(t, err)
	require.NoError(t, g.Release())

	require.Panics(t, func() { g.Handle() })
}

func TestAcquireFailures(t *testing.T) {
	p := processtest.New(processtest.Proc{PID: 42, Deny: process.AccessTerminate})

	_, err := process.Acquire(p, 7, process.AccessQuery)
	require.ErrorIs(t, err, process.ErrNotFound)

	_, err = process.Acquire(p, 42, process.AccessTerminate|process.AccessQueryLimited)
	require.ErrorIs(t, err, process.ErrAccessDenied)

	assert.Equal(t, 0, p.Opened())
}

type failingPlatform struct{}

func (failingPlatform) EnumProcesses([]uint32) (int, error) { return 0, nil }

func (failingPlatform) OpenProcess(process.ProcessID, process.Access) (process.Handle, error) {
	return nil, errors.New("invalid parameter")
}

func TestAcquireUnclassifiedFailure(t *testing.T) {
	_, err := process.Acquire(failingPlatform{}, 1, process.AccessQuery)
	require.ErrorIs(t, err, process.ErrHandleAcquisition)
	require.Contains(t, err.Error(), "invalid parameter")
}

func TestAccessString(t *testing.T) {
	assert.Equal(t, "none", process.Access(0).String())
	assert.Equal(t, "query|vm-read", (process.AccessQuery | process.AccessVMRead).String())
	assert.Equal(t, "query-limited|terminate", (process.AccessTerminate | process.AccessQueryLimited).String())
}
