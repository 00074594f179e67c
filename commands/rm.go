package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/ImranSah/gosh/core/interp"
)

// Rm implements a POSIX rm command.
func Rm(ctx context.Context, p *interp.Proc) int {
	cmd := &SimpleCommand{
		Use:   "rm [OPTION...] FILE...",
		Short: "Remove files or directories.",
	}

	recursive := cmd.Flags().BoolLong("recursive", 'r', "remove directories and their contents recursively")
	force := cmd.Flags().BoolLong("force", 'f', "ignore missing files and arguments, never prompt")

	return cmd.Run(p, func() int {
		files := cmd.Flags().Args()
		if len(files) == 0 {
			if *force {
				return 0
			}
			fmt.Fprintln(p.Stderr, "rm: missing operand")
			return 1
		}

		status := 0
		for _, file := range files {
			stat, statErr := p.Fs.Stat(file)
			switch {
			case errors.Is(statErr, fs.ErrNotExist):
				if !*force {
					fmt.Fprintf(p.Stderr, "rm: cannot remove %q: no such file or directory\n", file)
					status = 1
				}
			case statErr != nil:
				fmt.Fprintf(p.Stderr, "rm: cannot stat %q: %v\n", file, reason(statErr))
				status = 1
			case stat.IsDir() && !*recursive:
				fmt.Fprintf(p.Stderr, "rm: cannot remove %q: is a directory\n", file)
				status = 1
			case stat.IsDir():
				if err := p.Fs.RemoveAll(file); err != nil {
					fmt.Fprintf(p.Stderr, "rm: cannot remove %q: %v\n", file, reason(err))
					status = 1
				}
			default:
				if err := p.Fs.Remove(file); err != nil {
					fmt.Fprintf(p.Stderr, "rm: cannot remove %q: %v\n", file, reason(err))
					status = 1
				}
			}
		}
		return status
	})
}

var _ CommandFunc = Rm

func init() {
	mustAddCmd("rm", Rm)
}
