package commands

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"

	"github.com/ImranSah/gosh/core/interp/interptest"
)

func TestCat(t *testing.T) {
	cases := goldenTestSuite{
		"stdin":   {Args: []string{"cat"}, Stdin: "Hello, world!\n"},
		"missing": {Args: []string{"cat", "missing.txt"}},
	}

	cases.Run(t, Cat)
}

func TestCat_files(t *testing.T) {
	cmd := interptest.Command(Cat, "cat", "/foo.txt")

	// Test with missing file
	{
		assert.Nil(t, cmd.Run())

		assert.NotEqual(t, 0, cmd.ExitStatus, "exit code")
	}
	{
		// Create file and
		helloWorld := []byte("Hello, world!")
		assert.Nil(t, afero.WriteFile(cmd.Fs, "/foo.txt", helloWorld, 0600))

		out, err := cmd.CombinedOutput()

		assert.Equal(t, 0, cmd.ExitStatus, "exit code")
		assert.Nil(t, err)
		assert.Equal(t, string(helloWorld), string(out))
	}
}
