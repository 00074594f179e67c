// Package interptest provides a deterministic harness for exercising
// builtin commands outside a full shell.
package interptest

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/spf13/afero"

	"github.com/ImranSah/gosh/core/interp"
)

// Cmd is similar to exec.Cmd but runs a builtin handler in process
// against an in-memory filesystem and a fresh environment.
type Cmd struct {
	// Builtin is the handler under test.
	Builtin interp.BuiltinFunc
	// Argv is the full argument vector; Argv[0] is the command name.
	Argv []string
	// Env gives the environment in "key=value" form. Empty means an
	// empty environment, keeping output deterministic.
	Env []string
	// Commands overrides the registry the proc reports. When nil the
	// registry contains only the command under test.
	Commands *interp.Registry
	// Setup runs against the filesystem before the command starts.
	Setup func(fsys afero.Fs) error

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Fs is the filesystem the command sees, an in-memory one unless
	// replaced.
	Fs afero.Fs

	// ExitStatus holds the handler's exit code after Run.
	ExitStatus int
}

// Command builds a Cmd the way exec.Command would.
func Command(builtin interp.BuiltinFunc, name string, arg ...string) *Cmd {
	return &Cmd{
		Builtin: builtin,
		Argv:    append([]string{name}, arg...),
		Fs:      afero.NewMemMapFs(),
	}
}

// CombinedOutput runs the command and returns its combined stdout and
// stderr.
func (c *Cmd) CombinedOutput() ([]byte, error) {
	buf := &bytes.Buffer{}
	c.Stdout = buf
	c.Stderr = buf

	if err := c.Run(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Run starts the command and waits for it to complete.
func (c *Cmd) Run() error {
	if c.Setup != nil {
		if err := c.Setup(c.Fs); err != nil {
			return err
		}
	}

	reg := c.Commands
	if reg == nil {
		reg = interp.NewRegistry()
		reg.Register(c.Argv[0], c.Builtin)
	}

	stdin := c.Stdin
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	stdout := c.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	stderr := c.Stderr
	if stderr == nil {
		stderr = io.Discard
	}

	c.ExitStatus = c.Builtin(context.Background(), &interp.Proc{
		Args:     c.Argv,
		Stdin:    stdin,
		Stdout:   stdout,
		Stderr:   stderr,
		Env:      interp.NewEnvironFrom(c.Env),
		Fs:       c.Fs,
		Commands: reg,
	})
	return nil
}
