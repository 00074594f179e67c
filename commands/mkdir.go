package commands

import (
	"context"
	"fmt"

	"github.com/ImranSah/gosh/core/interp"
)

// Mkdir implements a POSIX mkdir command.
//
// https://pubs.opengroup.org/onlinepubs/9699919799.2018edition/utilities/mkdir.html
func Mkdir(ctx context.Context, p *interp.Proc) int {
	cmd := &SimpleCommand{
		Use:   "mkdir [OPTION...] DIRECTORY...",
		Short: "Create directories if they don't exist.",
	}

	makeParents := cmd.Flags().BoolLong("parents", 'p', "make parent directories as needed")
	verbose := cmd.Flags().BoolLong("verbose", 'v', "print a line for every created directory")

	return cmd.Run(p, func() int {
		directories := cmd.Flags().Args()
		if len(directories) == 0 {
			fmt.Fprintln(p.Stderr, "mkdir: missing operand")

			cmd.PrintHelp(p.Stdout)
			return 1
		}

		op := p.Fs.Mkdir
		if *makeParents {
			op = p.Fs.MkdirAll
		}

		status := 0
		for _, dir := range directories {
			err := op(dir, 0777)
			switch {
			case err != nil:
				fmt.Fprintf(p.Stderr, "mkdir: cannot create directory %q: %v\n", dir, reason(err))
				status = 1

			case *verbose:
				fmt.Fprintf(p.Stdout, "mkdir: created directory %q\n", dir)
			}
		}
		return status
	})
}

var _ CommandFunc = Mkdir

func init() {
	mustAddCmd("mkdir", Mkdir)
}
