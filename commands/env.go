package commands

import (
	"context"
	"fmt"

	"github.com/ImranSah/gosh/core/interp"
)

// Env implements the POSIX env command.
//
// https://pubs.opengroup.org/onlinepubs/9699919799.2018edition/utilities/env.html
func Env(ctx context.Context, p *interp.Proc) int {
	cmd := &SimpleCommand{
		Use:   "env",
		Short: "Set or print the environment for command invocation.",
	}

	return cmd.Run(p, func() int {
		for _, envDef := range p.Env.Environ() {
			fmt.Fprintln(p.Stdout, envDef)
		}

		return 0
	})
}

var _ CommandFunc = Env

func init() {
	mustAddCmd("env", Env)
}
