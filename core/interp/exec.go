package interp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"syscall"
)

// Exit codes reserved by shell convention.
const (
	// ExitNotFound is reported for a command that is neither a builtin
	// nor present on the search path.
	ExitNotFound = 127
	// ExitCantExec is reported for an executable that resolved but
	// could not be launched.
	ExitCantExec = 126
	// ExitInterrupted is reported by builtins that gave up because
	// their context was cancelled.
	ExitInterrupted = 130
)

// ExecResult records one stage's outcome.
type ExecResult struct {
	// Stage is the stage's position in the pipeline, counting from
	// zero.
	Stage int
	// Code is the stage's exit status.
	Code int
}

// runStage executes a single stage with its streams bound to the given
// endpoints. A stage's own redirections are applied first and take
// precedence over the endpoints; files they open are closed before the
// stage reports. Diagnostics go to the stage's bound stderr.
func (r *Runner) runStage(ctx context.Context, st Stage, stdin io.Reader, stdout, stderr io.Writer) int {
	for _, rd := range st.Redirects {
		f, err := openRedirect(r.Fs, rd)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return 1
		}
		defer f.Close()
		if rd.FD == 2 {
			stderr = f
		} else {
			stdout = f
		}
	}

	if builtin, ok := r.Commands.Lookup(st.Name); ok {
		return builtin(ctx, &Proc{
			Args:     st.argv(),
			Stdin:    stdin,
			Stdout:   stdout,
			Stderr:   stderr,
			Env:      r.Env,
			Fs:       r.Fs,
			Commands: r.Commands,
		})
	}

	path, err := LookPath(r.Fs, st.Name, r.Env.Getenv("PATH"))
	if err != nil {
		fmt.Fprintf(stderr, "%s: not found\n", st.Name)
		return ExitNotFound
	}

	// The typed name stays in argv[0]; only Path carries the resolved
	// location.
	cmd := exec.CommandContext(ctx, path)
	cmd.Args = st.argv()
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.Env = r.Env.Environ()
	cmd.WaitDelay = r.grace()

	if err := cmd.Start(); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", st.Name, err)
		return ExitCantExec
	}
	return waitCode(cmd, st.Name, stderr)
}

// waitCode waits for a started process and translates its termination
// into a shell status, 128+signal for a signalled process.
func waitCode(cmd *exec.Cmd, name string, stderr io.Writer) int {
	err := cmd.Wait()
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return 128 + int(ws.Signal())
		}
		return exitErr.ExitCode()
	}

	fmt.Fprintf(stderr, "%s: %v\n", name, err)
	return 1
}
