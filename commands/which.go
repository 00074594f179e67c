package commands

import (
	"context"
	"fmt"

	"github.com/ImranSah/gosh/core/interp"
)

// Which implements the UNIX which command.
func Which(ctx context.Context, p *interp.Proc) int {
	cmd := &SimpleCommand{
		Use:   "which [COMMAND...]",
		Short: "Locate a command.",
		// Never bail, even if args are bad.
		NeverBail: true,
	}

	return cmd.RunEachArg(p, func(arg string) error {
		res, err := interp.LookPath(p.Fs, arg, p.Env.Getenv("PATH"))
		if err != nil {
			return err
		}
		fmt.Fprintln(p.Stdout, res)
		return nil
	})
}

var _ CommandFunc = Which

func init() {
	mustAddCmd("which", Which)
}
