package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ImranSah/gosh/core/interp"
)

// Touch implements a POSIX touch command.
func Touch(ctx context.Context, p *interp.Proc) int {
	cmd := &SimpleCommand{
		Use:   "touch [OPTION...] FILE...",
		Short: "Update the access and modification times of files to now.",
	}

	noCreate := cmd.Flags().BoolLong("no-create", 'c', "don't create files")

	return cmd.Run(p, func() int {
		paths := cmd.Flags().Args()
		if len(paths) == 0 {
			fmt.Fprintln(p.Stderr, "touch: missing file operand")
			return 1
		}

		now := time.Now()

		status := 0
		for _, path := range paths {
			err := p.Fs.Chtimes(path, now, now)
			switch {
			case errors.Is(err, fs.ErrNotExist) && *noCreate:
				// Missing files aren't an error with -c.
			case errors.Is(err, fs.ErrNotExist):
				fd, err := p.Fs.Create(path)
				if err != nil {
					fmt.Fprintf(p.Stderr, "touch: cannot touch %q: %v\n", path, reason(err))
					status = 1
					continue
				}
				fd.Close()
			case err != nil:
				fmt.Fprintf(p.Stderr, "touch: setting times of %q: %v\n", path, reason(err))
				status = 1
			}
		}
		return status
	})
}

var _ CommandFunc = Touch

func init() {
	mustAddCmd("touch", Touch)
}
