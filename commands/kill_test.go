package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/ImranSah/gosh/core/interp/interptest"
)

func TestParseSignal(t *testing.T) {
	cases := []struct {
		spec    string
		want    unix.Signal
		wantErr bool
	}{
		{spec: "9", want: unix.SIGKILL},
		{spec: "15", want: unix.SIGTERM},
		{spec: "TERM", want: unix.SIGTERM},
		{spec: "sigint", want: unix.SIGINT},
		{spec: "HUP", want: unix.SIGHUP},
		{spec: "bogus", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.spec, func(t *testing.T) {
			got, err := parseSignal(tc.spec)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestKill_list(t *testing.T) {
	cmd := interptest.Command(Kill, "kill", "-l")

	out, err := cmd.CombinedOutput()
	require.NoError(t, err)
	assert.Equal(t, 0, cmd.ExitStatus)

	for _, name := range []string{"HUP", "INT", "KILL", "TERM"} {
		assert.Contains(t, string(out), name)
	}
}

func TestKill_noSuchProcess(t *testing.T) {
	// Signal 0 probes for existence without delivering anything, and
	// the pid is far beyond the kernel's pid ceiling.
	cmd := interptest.Command(Kill, "kill", "-0", "999999999")

	out, err := cmd.CombinedOutput()
	require.NoError(t, err)
	assert.Equal(t, 1, cmd.ExitStatus)
	assert.Contains(t, string(out), "no such process")
}

func TestKill_badPid(t *testing.T) {
	cmd := interptest.Command(Kill, "kill", "fred")

	out, err := cmd.CombinedOutput()
	require.NoError(t, err)
	assert.Equal(t, 1, cmd.ExitStatus)
	assert.Contains(t, string(out), "arguments must be process ids")
}

func TestKill_missingPid(t *testing.T) {
	cmd := interptest.Command(Kill, "kill")

	out, err := cmd.CombinedOutput()
	require.NoError(t, err)
	assert.Equal(t, 1, cmd.ExitStatus)
	assert.Contains(t, string(out), "kill: missing PID")
}

func TestKill_badSignal(t *testing.T) {
	cmd := interptest.Command(Kill, "kill", "-s", "NOPE", "1234")

	out, err := cmd.CombinedOutput()
	require.NoError(t, err)
	assert.Equal(t, 1, cmd.ExitStatus)
	assert.Contains(t, string(out), "invalid signal specification")
}
