package commands

import (
	"context"
	"fmt"

	"github.com/ImranSah/gosh/core/interp"
)

// Type implements the type shell builtin, reporting how a name would
// be interpreted if used as a command.
func Type(ctx context.Context, p *interp.Proc) int {
	if len(p.Args) < 2 {
		fmt.Fprintln(p.Stderr, "type: missing operand")
		return 1
	}

	status := 0
	for _, name := range p.Args[1:] {
		if _, ok := p.Commands.Lookup(name); ok {
			fmt.Fprintf(p.Stdout, "%s is a shell builtin\n", name)
			continue
		}

		path, err := interp.LookPath(p.Fs, name, p.Env.Getenv("PATH"))
		if err != nil {
			fmt.Fprintf(p.Stdout, "%s: not found\n", name)
			status = 1
			continue
		}
		fmt.Fprintf(p.Stdout, "%s is %s\n", name, path)
	}
	return status
}

var _ CommandFunc = Type

func init() {
	mustAddCmd("type", Type)
}
