package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/ImranSah/gosh/core/interp"
)

// Pwd implements the UNIX pwd command.
func Pwd(ctx context.Context, p *interp.Proc) int {
	cmd := &SimpleCommand{
		Use:   "pwd",
		Short: "Print the name of the current working directory.",

		// Never bail, even if args are bad.
		NeverBail: true,
	}

	return cmd.Run(p, func() int {
		wd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(p.Stderr, "pwd: %v\n", err)
			return 1
		}

		fmt.Fprintln(p.Stdout, wd)
		return 0
	})
}

var _ CommandFunc = Pwd

func init() {
	mustAddCmd("pwd", Pwd)
}
