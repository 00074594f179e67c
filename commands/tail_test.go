package commands

import (
	"bytes"
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ImranSah/gosh/core/interp"
)

func TestTail(t *testing.T) {
	twoFiles := func(fsys afero.Fs) error {
		if err := afero.WriteFile(fsys, "one.txt", []byte("x\n1\n"), 0644); err != nil {
			return err
		}
		return afero.WriteFile(fsys, "two.txt", []byte("y\n2\n"), 0644)
	}

	cases := goldenTestSuite{
		"stdin-limit": {Args: []string{"tail", "-n", "2"}, Stdin: "a\nb\nc\nd\n"},
		"short-input": {Args: []string{"tail", "-n", "10"}, Stdin: "a\nb\n"},
		"files":       {Args: []string{"tail", "-n", "1", "one.txt", "two.txt"}, Setup: twoFiles},
		"missing":     {Args: []string{"tail", "missing.txt"}},
	}

	cases.Run(t, Tail)
}

// syncBuffer lets the test read output while tail is still writing it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(b []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(b)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestTail_follow(t *testing.T) {
	oldInterval := tailPollInterval
	tailPollInterval = 5 * time.Millisecond
	defer func() { tailPollInterval = oldInterval }()

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "app.log", []byte("one\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &syncBuffer{}
	done := make(chan int, 1)
	go func() {
		done <- Tail(ctx, &interp.Proc{
			Args:     []string{"tail", "-f", "app.log"},
			Stdin:    strings.NewReader(""),
			Stdout:   out,
			Stderr:   out,
			Env:      interp.NewEnviron(),
			Fs:       fsys,
			Commands: interp.NewRegistry(),
		})
	}()

	// The pre-existing line shows up from the initial dump.
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "one\n")
	}, 5*time.Second, time.Millisecond)

	fd, err := fsys.OpenFile("app.log", os.O_WRONLY|os.O_APPEND, 0644)
	require.NoError(t, err)
	_, err = fd.Write([]byte("two\n"))
	require.NoError(t, err)
	require.NoError(t, fd.Close())

	// The appended line shows up from the poll loop.
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "two\n")
	}, 5*time.Second, time.Millisecond)

	cancel()
	select {
	case status := <-done:
		assert.Equal(t, interp.ExitInterrupted, status)
	case <-time.After(5 * time.Second):
		t.Fatal("tail did not stop after cancel")
	}

	assert.Equal(t, "one\ntwo\n", out.String())
}
