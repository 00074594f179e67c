package commands

import (
	"context"
	"fmt"
	"os/user"

	"github.com/ImranSah/gosh/core/interp"
)

// Whoami implements the POSIX whoami command.
func Whoami(ctx context.Context, p *interp.Proc) int {
	cmd := &SimpleCommand{
		Use:   "whoami",
		Short: "Print the current user.",

		// Never bail, even if args are bad.
		NeverBail: true,
	}

	return cmd.Run(p, func() int {
		if u, err := user.Current(); err == nil {
			fmt.Fprintln(p.Stdout, u.Username)
			return 0
		}

		// User database lookups can fail in stripped down
		// environments; the session environment still knows.
		if name := p.Env.Getenv("USER"); name != "" {
			fmt.Fprintln(p.Stdout, name)
			return 0
		}

		fmt.Fprintln(p.Stderr, "whoami: cannot find name for the current user")
		return 1
	})
}

var _ CommandFunc = Whoami

func init() {
	mustAddCmd("whoami", Whoami)
}
