package interp

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/spf13/afero"
)

// defaultGrace bounds how long a producer stage may keep running after
// the consumer of its output has terminated.
const defaultGrace = 100 * time.Millisecond

// Runner executes pipelines against a fixed set of shell
// collaborators: the builtin registry, the environment, and the
// filesystem redirection targets are opened on.
type Runner struct {
	Commands *Registry
	Env      *Environ
	Fs       afero.Fs

	// Stdin, Stdout, and Stderr are the shell's inherited streams.
	// Stdin feeds the first stage, Stdout receives the last stage's
	// output, and Stderr receives every stage's errors, unless a
	// stage's own redirections say otherwise.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Grace overrides the producer cancellation grace period. Zero
	// means the default.
	Grace time.Duration
}

func (r *Runner) grace() time.Duration {
	if r.Grace > 0 {
		return r.Grace
	}
	return defaultGrace
}

// conn is the byte conduit between two adjacent stages. Both ends are
// real pipe descriptors, so external children inherit them directly
// and the kernel supplies end-of-file and broken-pipe semantics;
// builtin stages use the same files in process.
type conn struct {
	r, w      *os.File
	readOnce  sync.Once
	writeOnce sync.Once
}

func newConn() (*conn, error) {
	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	return &conn{r: pr, w: pw}, nil
}

func (c *conn) closeRead()  { c.readOnce.Do(func() { c.r.Close() }) }
func (c *conn) closeWrite() { c.writeOnce.Do(func() { c.w.Close() }) }

// Run executes a built pipeline and returns one result per stage, in
// stage order, plus the pipeline's status: the last stage's exit code.
//
// All stages start concurrently; a sequential start would deadlock as
// soon as one stage filled its downstream pipe. As each stage
// terminates the runner half-closes its connections, so consumers see
// end-of-input and producers see a broken pipe. A producer that stays
// blocked without writing is forced out by context cancellation once
// the grace period after its consumer's exit lapses.
func (r *Runner) Run(ctx context.Context, p *Pipeline) ([]ExecResult, int) {
	n := len(p.Stages)
	if n == 0 {
		return nil, 0
	}

	conns := make([]*conn, n-1)
	for i := range conns {
		c, err := newConn()
		if err != nil {
			for _, c := range conns[:i] {
				c.closeRead()
				c.closeWrite()
			}
			fmt.Fprintf(r.Stderr, "%v\n", err)
			return nil, 1
		}
		conns[i] = c
	}

	ctxs := make([]context.Context, n)
	cancels := make([]context.CancelFunc, n)
	for i := 0; i < n; i++ {
		ctxs[i], cancels[i] = context.WithCancel(ctx)
	}
	defer func() {
		for _, cancel := range cancels {
			cancel()
		}
	}()

	results := make([]ExecResult, n)
	var wg sync.WaitGroup
	for i := range p.Stages {
		stdin := r.Stdin
		if i > 0 {
			stdin = conns[i-1].r
		}
		stdout := r.Stdout
		if i < n-1 {
			stdout = conns[i].w
		}

		wg.Add(1)
		go func(i int, st Stage, stdin io.Reader, stdout io.Writer) {
			defer wg.Done()
			code := r.runStage(ctxs[i], st, stdin, stdout, r.Stderr)
			results[i] = ExecResult{Stage: i, Code: code}

			// Half-close: end-of-file for the consumer below, broken
			// pipe for the producer above.
			if i < n-1 {
				conns[i].closeWrite()
			}
			if i > 0 {
				conns[i-1].closeRead()
				// A producer blocked somewhere other than a write
				// never observes the broken pipe. Give the chain
				// above a grace period, then force it out.
				time.AfterFunc(r.grace(), func() {
					for j := 0; j < i; j++ {
						cancels[j]()
					}
				})
			}
		}(i, p.Stages[i], stdin, stdout)
	}
	wg.Wait()

	return results, results[n-1].Code
}
