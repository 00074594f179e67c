package commands

import (
	"os/user"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ImranSah/gosh/core/interp/interptest"
)

func TestWhoami(t *testing.T) {
	u, err := user.Current()
	require.NoError(t, err)

	cmd := interptest.Command(Whoami, "whoami")

	out, err := cmd.CombinedOutput()
	require.NoError(t, err)
	assert.Equal(t, 0, cmd.ExitStatus)
	assert.Equal(t, u.Username+"\n", string(out))
}
