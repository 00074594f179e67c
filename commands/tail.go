package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/juju/ratelimit"
	"github.com/spf13/afero"

	"github.com/ImranSah/gosh/core/interp"
)

// tailPollInterval paces the follow loop. Tests shrink it.
var tailPollInterval = 250 * time.Millisecond

// follower tracks how much of a followed file has been printed.
type follower struct {
	name string
	fd   afero.File
	read int64
}

// Tail implements the UNIX tail command, including -f.
func Tail(ctx context.Context, p *interp.Proc) int {
	cmd := &SimpleCommand{
		Use:   "tail [-f] [-n NUM] [FILE]...",
		Short: "Print the last 10 lines of each FILE to standard output.",
	}

	lines := cmd.Flags().IntLong("lines", 'n', 10, "print the last NUM lines instead of the last 10")
	follow := cmd.Flags().BoolLong("follow", 'f', "output appended data as the file grows")

	return cmd.Run(p, func() int {
		files := cmd.Flags().Args()
		if len(files) == 0 {
			return exitStatus(p, lastLines(p.Stdout, p.Stdin, *lines))
		}

		status := 0
		headers := len(files) > 1
		last := ""
		var followers []*follower
		for _, name := range files {
			fd, err := p.Fs.Open(name)
			if err != nil {
				fmt.Fprintf(p.Stderr, "tail: %s: %v\n", name, reason(err))
				status = 1
				continue
			}

			if headers {
				if last != "" {
					fmt.Fprintln(p.Stdout)
				}
				fmt.Fprintf(p.Stdout, "==> %s <==\n", name)
			}
			last = name

			if err := lastLines(p.Stdout, fd, *lines); err != nil {
				fd.Close()
				return exitStatus(p, err)
			}

			if !*follow {
				fd.Close()
				continue
			}

			// Skip to the current end so the poll loop only ever sees
			// appended data.
			size, err := fd.Seek(0, io.SeekEnd)
			if err != nil {
				fd.Close()
				fmt.Fprintf(p.Stderr, "tail: %s: %v\n", name, reason(err))
				status = 1
				continue
			}
			followers = append(followers, &follower{name: name, fd: fd, read: size})
		}

		if len(followers) > 0 {
			defer func() {
				for _, f := range followers {
					f.fd.Close()
				}
			}()
			return exitStatus(p, followFiles(ctx, p, followers, last, headers))
		}
		return status
	})
}

// lastLines writes the final n lines of r to w.
func lastLines(w io.Writer, r io.Reader, n int) error {
	if n <= 0 {
		_, err := io.Copy(io.Discard, r)
		return err
	}

	ring := make([]string, n)
	count := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		ring[count%n] = scanner.Text()
		count++
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	start := 0
	if count > n {
		start = count - n
	}
	for i := start; i < count; i++ {
		if _, err := fmt.Fprintln(w, ring[i%n]); err != nil {
			return err
		}
	}
	return nil
}

// followFiles polls the followed files for growth until the context is
// canceled or output fails. Polling is paced with a token bucket so a
// busy file can't turn the loop into a spin.
func followFiles(ctx context.Context, p *interp.Proc, followers []*follower, last string, headers bool) error {
	bucket := ratelimit.NewBucket(tailPollInterval, 1)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if d := bucket.Take(1); d > 0 {
			t := time.NewTimer(d)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}

		for _, f := range followers {
			info, err := f.fd.Stat()
			if err != nil {
				return err
			}

			size := info.Size()
			if size < f.read {
				fmt.Fprintf(p.Stderr, "tail: %s: file truncated\n", f.name)
				if _, err := f.fd.Seek(0, io.SeekStart); err != nil {
					return err
				}
				f.read = 0
			}
			if size == f.read {
				continue
			}

			if headers && last != f.name {
				fmt.Fprintf(p.Stdout, "\n==> %s <==\n", f.name)
				last = f.name
			}
			n, err := io.Copy(p.Stdout, f.fd)
			f.read += n
			if err != nil {
				return err
			}
		}
	}
}

var _ CommandFunc = Tail

func init() {
	mustAddCmd("tail", Tail)
}
