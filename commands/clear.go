package commands

import (
	"context"
	"fmt"

	"github.com/ImranSah/gosh/core/interp"
)

// Clear implements the UNIX clear command. It assumes a VT100
// compatible terminal and also wipes the scrollback buffer.
func Clear(ctx context.Context, p *interp.Proc) int {
	fmt.Fprint(p.Stdout, "\033[H\033[2J\033[3J")
	return 0
}

var _ CommandFunc = Clear

func init() {
	mustAddCmd("clear", Clear)
}
