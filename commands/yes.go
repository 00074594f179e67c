package commands

import (
	"context"
	"strings"

	"github.com/ImranSah/gosh/core/interp"
)

// Yes implements the UNIX yes command.
//
// It writes forever, so it only ever stops when its output pipe breaks
// or its context is canceled. Either way it goes quietly.
func Yes(ctx context.Context, p *interp.Proc) int {
	line := "y"
	if len(p.Args) > 1 {
		line = strings.Join(p.Args[1:], " ")
	}
	buf := []byte(line + "\n")

	for {
		if err := ctx.Err(); err != nil {
			return interp.ExitInterrupted
		}
		if _, err := p.Stdout.Write(buf); err != nil {
			return exitStatus(p, err)
		}
	}
}

var _ CommandFunc = Yes

func init() {
	mustAddCmd("yes", Yes)
}
