//go:build linux

package process_linux

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statLine(comm string, exitCode string) string {
	// pid (comm) state, then fields 4..51, then exit_code
	fields := make([]string, 0, 50)
	fields = append(fields, "S")
	for i := 4; i < statExitCodeField; i++ {
		fields = append(fields, "0")
	}
	fields = append(fields, exitCode)
	return "1234 (" + comm + ") " + strings.Join(fields, " ") + "\n"
}

func TestParseStatExitCode(t *testing.T) {
	code, err := parseStatExitCode(statLine("sleep", "0"))
	require.NoError(t, err)
	assert.Equal(t, uint32(0), code)

	code, err = parseStatExitCode(statLine("weird) (name", "9"))
	require.NoError(t, err)
	assert.Equal(t, uint32(9), code)
}

func TestParseStatExitCodeShort(t *testing.T) {
	_, err := parseStatExitCode("1234 (sleep) S 1 1234")
	require.Error(t, err)

	_, err = parseStatExitCode("no parens here")
	require.Error(t, err)
}
