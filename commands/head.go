package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/ImranSah/gosh/core/interp"
)

// Head implements the UNIX head command.
//
// Head stops reading its input as soon as it has printed enough, so an
// upstream pipeline stage writing into it sees a closed pipe rather
// than a reader that drains forever.
func Head(ctx context.Context, p *interp.Proc) int {
	cmd := &SimpleCommand{
		Use:   "head [-n NUM] [FILE]...",
		Short: "Print the first 10 lines of each FILE to standard output.",
	}

	lines := cmd.Flags().IntLong("lines", 'n', 10, "print the first NUM lines instead of the first 10")

	return cmd.Run(p, func() int {
		files := cmd.Flags().Args()
		fileNo := 0
		return cmd.RunEachFileOrStdin(p, files, func(name string, fd io.Reader) error {
			if len(files) > 1 {
				if fileNo > 0 {
					fmt.Fprintln(p.Stdout)
				}
				fmt.Fprintf(p.Stdout, "==> %s <==\n", name)
			}
			fileNo++

			scanner := bufio.NewScanner(fd)
			for printed := 0; printed < *lines && scanner.Scan(); printed++ {
				if _, err := fmt.Fprintln(p.Stdout, scanner.Text()); err != nil {
					return err
				}
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			return scanner.Err()
		})
	})
}

var _ CommandFunc = Head

func init() {
	mustAddCmd("head", Head)
}
