package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ImranSah/gosh/core/interp"
)

// Exit implements the exit shell builtin.
//
// The status it returns becomes the shell's own exit status when exit
// runs as the only stage of a pipeline; the interactive loop watches
// for that case. Inside a larger pipeline it only ends its own stage.
func Exit(ctx context.Context, p *interp.Proc) int {
	switch len(p.Args) {
	case 1:
		return 0
	case 2:
		code, err := strconv.Atoi(p.Args[1])
		if err != nil {
			fmt.Fprintf(p.Stderr, "exit: %s: numeric argument required\n", p.Args[1])
			return 2
		}
		// Statuses wrap at 256, as they do with _exit(2).
		return code & 0xff
	default:
		fmt.Fprintln(p.Stderr, "exit: too many arguments")
		return 1
	}
}

var _ CommandFunc = Exit

func init() {
	mustAddCmd("exit", Exit)
}
