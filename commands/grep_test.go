package commands

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/ImranSah/gosh/core/interp/interptest"
)

func TestGrep_stdin(t *testing.T) {
	cmd := interptest.Command(Grep, "grep", "ma")
	cmd.Stdin = strings.NewReader("alpha\nbeta\ngamma\n")

	out, err := cmd.CombinedOutput()
	require.NoError(t, err)
	require.Equal(t, "gamma\n", string(out))
	require.Equal(t, 0, cmd.ExitStatus)
}

func TestGrep_invert(t *testing.T) {
	cmd := interptest.Command(Grep, "grep", "-v", "a")
	cmd.Stdin = strings.NewReader("alpha\nbeta\nzzz\n")

	out, err := cmd.CombinedOutput()
	require.NoError(t, err)
	require.Equal(t, "zzz\n", string(out))
}

func TestGrep_ignoreCase(t *testing.T) {
	cmd := interptest.Command(Grep, "grep", "-i", "NEEDLE")
	cmd.Stdin = strings.NewReader("needle\nhay\n")

	out, err := cmd.CombinedOutput()
	require.NoError(t, err)
	require.Equal(t, "needle\n", string(out))
}

func TestGrep_filesAndLineNumbers(t *testing.T) {
	cmd := interptest.Command(Grep, "grep", "-n", "needle", "one.txt", "two.txt")
	cmd.Setup = func(fsys afero.Fs) error {
		if err := afero.WriteFile(fsys, "one.txt", []byte("needle\nhay\n"), 0644); err != nil {
			return err
		}
		return afero.WriteFile(fsys, "two.txt", []byte("hay\nneedle here\n"), 0644)
	}

	out, err := cmd.CombinedOutput()
	require.NoError(t, err)
	require.Equal(t, "one.txt:1:needle\ntwo.txt:2:needle here\n", string(out))
}

func TestGrep_missingPattern(t *testing.T) {
	cmd := interptest.Command(Grep, "grep")

	out, err := cmd.CombinedOutput()
	require.NoError(t, err)
	require.Equal(t, "grep: missing argument PATTERN\n", string(out))
	require.Equal(t, 1, cmd.ExitStatus)
}

func TestGrep_badPattern(t *testing.T) {
	cmd := interptest.Command(Grep, "grep", "[")

	out, err := cmd.CombinedOutput()
	require.NoError(t, err)
	require.Contains(t, string(out), "error parsing regexp")
	require.Equal(t, 2, cmd.ExitStatus)
}

func TestGrep_colorAlways(t *testing.T) {
	cmd := interptest.Command(Grep, "grep", "--color=always", "needle")
	cmd.Stdin = strings.NewReader("hay needle hay\n")

	out, err := cmd.CombinedOutput()
	require.NoError(t, err)
	require.Equal(t, "hay \x1b[31;1mneedle\x1b[0m hay\n", string(out))
}

func TestGrep_colorAutoStaysPlainInPipes(t *testing.T) {
	cmd := interptest.Command(Grep, "grep", "--color=auto", "needle")
	cmd.Stdin = strings.NewReader("needle\n")

	out, err := cmd.CombinedOutput()
	require.NoError(t, err)
	require.Equal(t, "needle\n", string(out))
}
