package interp

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

// testBuiltins builds a registry of small fake commands that exercise
// the supervisor: emit writes its arguments as lines, upper filters
// stdin, count counts input lines, take passes through the first N
// lines, spam produces lines forever, and block waits for
// cancellation without ever writing.
func testBuiltins() *Registry {
	reg := NewRegistry()

	reg.Register("emit", func(ctx context.Context, p *Proc) int {
		for _, arg := range p.Args[1:] {
			fmt.Fprintln(p.Stdout, arg)
		}
		return 0
	})

	reg.Register("upper", func(ctx context.Context, p *Proc) int {
		sc := bufio.NewScanner(p.Stdin)
		for sc.Scan() {
			fmt.Fprintln(p.Stdout, strings.ToUpper(sc.Text()))
		}
		return 0
	})

	reg.Register("count", func(ctx context.Context, p *Proc) int {
		n := 0
		sc := bufio.NewScanner(p.Stdin)
		for sc.Scan() {
			n++
		}
		fmt.Fprintln(p.Stdout, n)
		return 0
	})

	reg.Register("take", func(ctx context.Context, p *Proc) int {
		n, err := strconv.Atoi(p.Args[1])
		if err != nil {
			fmt.Fprintf(p.Stderr, "take: %v\n", err)
			return 2
		}
		sc := bufio.NewScanner(p.Stdin)
		for i := 0; i < n && sc.Scan(); i++ {
			fmt.Fprintln(p.Stdout, sc.Text())
		}
		return 0
	})

	reg.Register("spam", func(ctx context.Context, p *Proc) int {
		for {
			select {
			case <-ctx.Done():
				return ExitInterrupted
			default:
			}
			if _, err := fmt.Fprintln(p.Stdout, "y"); err != nil {
				return 1
			}
		}
	})

	reg.Register("block", func(ctx context.Context, p *Proc) int {
		<-ctx.Done()
		return ExitInterrupted
	})

	return reg
}

type testShell struct {
	runner *Runner
	fsys   afero.Fs
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestShell() *testShell {
	fsys := afero.NewMemMapFs()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &testShell{
		runner: &Runner{
			Commands: testBuiltins(),
			Env:      NewEnviron(),
			Fs:       fsys,
			Stdout:   stdout,
			Stderr:   stderr,
			Grace:    20 * time.Millisecond,
		},
		fsys:   fsys,
		stdout: stdout,
		stderr: stderr,
	}
}

func mustParse(t *testing.T, words ...string) *Pipeline {
	t.Helper()
	p, err := Parse(Words(words...))
	if err != nil {
		t.Fatal(err)
	}
	return p
}

// runWithin fails the test instead of hanging if the pipeline never
// terminates.
func runWithin(t *testing.T, ts *testShell, p *Pipeline) ([]ExecResult, int) {
	t.Helper()

	var (
		results []ExecResult
		status  int
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		results, status = ts.runner.Run(context.Background(), p)
	}()

	select {
	case <-done:
		return results, status
	case <-time.After(5 * time.Second):
		t.Fatal("pipeline did not terminate")
		return nil, 0
	}
}

func TestRun_singleStageBindsShellStreams(t *testing.T) {
	ts := newTestShell()
	ts.runner.Stdin = strings.NewReader("hello\nworld\n")

	results, status := runWithin(t, ts, mustParse(t, "upper"))

	assert.Equal(t, 0, status)
	assert.Equal(t, []ExecResult{{Stage: 0, Code: 0}}, results)
	assert.Equal(t, "HELLO\nWORLD\n", ts.stdout.String())
}

func TestRun_threeStageFlow(t *testing.T) {
	ts := newTestShell()

	results, status := runWithin(t, ts, mustParse(t, "emit", "one", "two", "|", "upper", "|", "count"))

	assert.Equal(t, 0, status)
	assert.Len(t, results, 3)
	for i, res := range results {
		assert.Equal(t, i, res.Stage)
		assert.Equal(t, 0, res.Code)
	}
	assert.Equal(t, "2\n", ts.stdout.String())
}

func TestRun_commandNotFoundDoesNotBlockDownstream(t *testing.T) {
	ts := newTestShell()

	results, status := runWithin(t, ts, mustParse(t, "ghost-cmd", "|", "count"))

	assert.Equal(t, 0, status)
	assert.Equal(t, ExitNotFound, results[0].Code)
	assert.Equal(t, 0, results[1].Code)
	assert.Equal(t, "0\n", ts.stdout.String())
	assert.Contains(t, ts.stderr.String(), "ghost-cmd: not found")
}

func TestRun_statusIsLastStage(t *testing.T) {
	ts := newTestShell()

	_, status := runWithin(t, ts, mustParse(t, "emit", "hi", "|", "ghost-cmd"))

	assert.Equal(t, ExitNotFound, status)
}

func TestRun_unboundedProducerBoundedConsumer(t *testing.T) {
	ts := newTestShell()

	results, status := runWithin(t, ts, mustParse(t, "spam", "|", "take", "3"))

	assert.Equal(t, 0, status)
	assert.Equal(t, "y\ny\ny\n", ts.stdout.String())
	assert.Equal(t, 0, results[1].Code)
	// The producer dies on the broken pipe, or on cancellation if it
	// was between writes when the pipe closed.
	assert.Contains(t, []int{1, ExitInterrupted}, results[0].Code)
}

func TestRun_idleProducerCancelledAfterGrace(t *testing.T) {
	ts := newTestShell()

	results, status := runWithin(t, ts, mustParse(t, "block", "|", "emit", "hi"))

	assert.Equal(t, 0, status)
	assert.Equal(t, ExitInterrupted, results[0].Code)
	assert.Equal(t, "hi\n", ts.stdout.String())
}

func TestRun_cancelStopsBuiltin(t *testing.T) {
	ts := newTestShell()
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	var (
		results []ExecResult
		status  int
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		results, status = ts.runner.Run(ctx, mustParse(t, "block"))
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("cancellation did not stop the stage")
	}
	assert.Equal(t, ExitInterrupted, status)
	assert.Equal(t, ExitInterrupted, results[0].Code)
}

func TestRun_redirectTruncates(t *testing.T) {
	ts := newTestShell()
	assert.Nil(t, afero.WriteFile(ts.fsys, "out.txt", []byte("stale stale stale\n"), 0644))

	_, status := runWithin(t, ts, mustParse(t, "emit", "fresh", ">", "out.txt"))

	assert.Equal(t, 0, status)
	assert.Empty(t, ts.stdout.String())
	content, err := afero.ReadFile(ts.fsys, "out.txt")
	assert.Nil(t, err)
	assert.Equal(t, "fresh\n", string(content))
}

func TestRun_appendAccumulatesAcrossRuns(t *testing.T) {
	ts := newTestShell()

	_, status := runWithin(t, ts, mustParse(t, "emit", "one", ">>", "log.txt"))
	assert.Equal(t, 0, status)
	_, status = runWithin(t, ts, mustParse(t, "emit", "two", ">>", "log.txt"))
	assert.Equal(t, 0, status)

	content, err := afero.ReadFile(ts.fsys, "log.txt")
	assert.Nil(t, err)
	assert.Equal(t, "one\ntwo\n", string(content))
}

func TestRun_lastRedirectWins(t *testing.T) {
	ts := newTestShell()

	_, status := runWithin(t, ts, mustParse(t, "emit", "hi", ">", "first.txt", ">", "second.txt"))

	assert.Equal(t, 0, status)
	content, err := afero.ReadFile(ts.fsys, "second.txt")
	assert.Nil(t, err)
	assert.Equal(t, "hi\n", string(content))

	// The overridden target is never opened, let alone created.
	exists, err := afero.Exists(ts.fsys, "first.txt")
	assert.Nil(t, err)
	assert.False(t, exists)
}

func TestRun_malformedRedirectTouchesNothing(t *testing.T) {
	ts := newTestShell()

	_, err := Parse(Words("emit", "hi", ">"))

	var badRedirect *BadRedirectError
	assert.ErrorAs(t, err, &badRedirect)

	entries, readErr := afero.ReadDir(ts.fsys, "/")
	assert.Nil(t, readErr)
	assert.Empty(t, entries)
}

func TestRun_redirectOpenFailureStillDrains(t *testing.T) {
	ts := newTestShell()
	ts.runner.Fs = afero.NewReadOnlyFs(ts.fsys)

	results, status := runWithin(t, ts, mustParse(t, "emit", "hi", ">", "out.txt", "|", "count"))

	assert.Equal(t, 0, status)
	assert.Equal(t, 1, results[0].Code)
	assert.Equal(t, "0\n", ts.stdout.String())
	assert.Contains(t, ts.stderr.String(), "out.txt")
}

func TestRun_diagnosticsFollowStderrRedirect(t *testing.T) {
	ts := newTestShell()

	results, status := runWithin(t, ts, mustParse(t, "ghost-cmd", "2>", "err.txt"))

	assert.Equal(t, ExitNotFound, status)
	assert.Equal(t, ExitNotFound, results[0].Code)
	assert.Empty(t, ts.stderr.String())
	content, err := afero.ReadFile(ts.fsys, "err.txt")
	assert.Nil(t, err)
	assert.Equal(t, "ghost-cmd: not found\n", string(content))
}

func TestRun_launchFailureIsDistinctFromNotFound(t *testing.T) {
	ts := newTestShell()
	// Resolvable on the shell's filesystem view but not spawnable.
	assert.Nil(t, afero.WriteFile(ts.fsys, "/sbin/phantom", []byte("#!/bin/sh\n"), 0755))
	assert.Nil(t, ts.fsys.Chmod("/sbin/phantom", 0755))
	ts.runner.Env.Setenv("PATH", "/sbin")

	results, status := runWithin(t, ts, mustParse(t, "phantom"))

	assert.Equal(t, ExitCantExec, status)
	assert.Equal(t, ExitCantExec, results[0].Code)
	assert.Contains(t, ts.stderr.String(), "phantom: ")
}
