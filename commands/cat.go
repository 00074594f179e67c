package commands

import (
	"context"
	"io"

	"github.com/ImranSah/gosh/core/interp"
)

// Cat implements the UNIX cat command.
func Cat(ctx context.Context, p *interp.Proc) int {
	cmd := &SimpleCommand{
		Use:   "cat [FILE]...",
		Short: "Concatenate FILE(s) to standard output.",
	}

	return cmd.Run(p, func() int {
		return cmd.RunEachFileOrStdin(p, cmd.Flags().Args(), func(name string, fd io.Reader) error {
			_, err := io.Copy(p.Stdout, fd)
			return err
		})
	})
}

var _ CommandFunc = Cat

func init() {
	mustAddCmd("cat", Cat)
}
