package commands

import (
	"testing"

	"github.com/spf13/afero"
)

func TestHead(t *testing.T) {
	twoFiles := func(fsys afero.Fs) error {
		if err := afero.WriteFile(fsys, "one.txt", []byte("1\nx\n"), 0644); err != nil {
			return err
		}
		return afero.WriteFile(fsys, "two.txt", []byte("2\ny\n"), 0644)
	}

	cases := goldenTestSuite{
		"stdin-limit": {Args: []string{"head", "-n", "2"}, Stdin: "a\nb\nc\nd\n"},
		"short-input": {Args: []string{"head", "-n", "10"}, Stdin: "a\nb\n"},
		"files":       {Args: []string{"head", "-n", "1", "one.txt", "two.txt"}, Setup: twoFiles},
		"missing":     {Args: []string{"head", "missing.txt"}},
	}

	cases.Run(t, Head)
}
