package match

import (
	"testing"

	"procstop/process"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func desc(name string) process.Descriptor {
	return process.Descriptor{PID: 1, Name: name, Path: "/" + name}
}

func TestIsTargetCaseInsensitive(t *testing.T) {
	p := Policy{Mode: Blacklist, Names: []string{"chrome"}}

	for _, name := range []string{"Chrome.exe", "CHROME.EXE", "chrome.exe"} {
		assert.True(t, IsTarget(desc(name), p), name)
	}
}

func TestIsTargetSubstring(t *testing.T) {
	p := Policy{Mode: Blacklist, Names: []string{"chrome"}}

	assert.True(t, IsTarget(desc("notchrome.exe"), p))
	assert.True(t, IsTarget(desc("chrome"), p))
	assert.False(t, IsTarget(desc("chrom.exe"), p))
	assert.False(t, IsTarget(desc("firefox.exe"), p))
}

func TestIsTargetOrderIrrelevant(t *testing.T) {
	d := desc("calc.exe")
	a := Policy{Mode: Blacklist, Names: []string{"calc", "exe", "notepad"}}
	b := Policy{Mode: Blacklist, Names: []string{"notepad", "exe", "calc"}}

	assert.Equal(t, IsTarget(d, a), IsTarget(d, b))
	assert.True(t, IsTarget(d, a))
}

func TestUnresolvedNeverMatches(t *testing.T) {
	p := Policy{Mode: Blacklist, Names: []string{"none", "no", "e"}}

	assert.False(t, IsTarget(process.Unresolved(4), p))
}

func TestEmptyFragmentNeverMatches(t *testing.T) {
	assert.False(t, Contains("calc.exe", ""))
	assert.False(t, IsTarget(desc("calc.exe"), Policy{Mode: Blacklist, Names: []string{""}}))
}

func TestWhitelistNeverTargets(t *testing.T) {
	p := Policy{Mode: Whitelist, Names: []string{"calc"}}

	assert.False(t, IsTarget(desc("calc.exe"), p))
	assert.False(t, IsTarget(desc("notepad.exe"), p))
	assert.True(t, Listed(desc("calc.exe"), p))
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"blacklist", Blacklist, false},
		{"Whitelist", Whitelist, false},
		{" BLACKLIST ", Blacklist, false},
		{"greylist", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "blacklist", Blacklist.String())
	assert.Equal(t, "whitelist", Whitelist.String())
	assert.Equal(t, "mode(7)", Mode(7).String())
}
