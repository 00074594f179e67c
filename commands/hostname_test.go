package commands

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ImranSah/gosh/core/interp/interptest"
)

func TestHostname(t *testing.T) {
	host, err := os.Hostname()
	require.NoError(t, err)

	cmd := interptest.Command(Hostname, "hostname")

	out, err := cmd.CombinedOutput()
	require.NoError(t, err)
	assert.Equal(t, 0, cmd.ExitStatus)
	assert.Equal(t, host+"\n", string(out))
}
