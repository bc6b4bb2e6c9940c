package memory_map

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMaps = `55d0c6a00000-55d0c6a02000 r--p 00000000 08:01 1048601                    /usr/bin/sleep
55d0c6a02000-55d0c6a06000 r-xp 00002000 08:01 1048601                    /usr/bin/sleep
55d0c7c1e000-55d0c7c3f000 rw-p 00000000 00:00 0                          [heap]
7f2b1c000000-7f2b1c028000 r--p 00000000 08:01 1055723                    /usr/lib/x86_64-linux-gnu/libc.so.6
7f2b1c200000-7f2b1c202000 rw-p 00000000 00:00 0 
7f2b1c300000-7f2b1c301000 r--p 00000000 08:01 2000001                    /opt/my app/lib.so (deleted)
garbage line
7ffd5e1f0000-7ffd5e211000 rw-p 00000000 00:00 0                          [stack]
`

func TestParse(t *testing.T) {
	items, err := Parse(strings.NewReader(sampleMaps))
	require.NoError(t, err)
	require.Len(t, items, 7)

	assert.Equal(t, uint64(0x55d0c6a00000), items[0].Address)
	assert.Equal(t, uint(0x2000), items[0].Size)
	assert.Equal(t, "r--p", items[0].Perms)
	assert.Equal(t, "/usr/bin/sleep", items[0].Pathname)
	assert.True(t, items[0].IsFileBacked())

	assert.Equal(t, "[heap]", items[2].Pathname)
	assert.False(t, items[2].IsFileBacked())
	assert.Equal(t, "", items[4].Pathname)
	assert.Equal(t, "/opt/my app/lib.so (deleted)", items[5].Pathname)
}

func TestModulePaths(t *testing.T) {
	items, err := Parse(strings.NewReader(sampleMaps))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/usr/bin/sleep",
		"/usr/lib/x86_64-linux-gnu/libc.so.6",
		"/opt/my app/lib.so",
	}, ModulePaths(items))
}

func TestModulePathsEmpty(t *testing.T) {
	assert.Empty(t, ModulePaths(nil))
}
