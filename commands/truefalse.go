package commands

import (
	"context"

	"github.com/ImranSah/gosh/core/interp"
)

// True implements the UNIX true command.
func True(ctx context.Context, p *interp.Proc) int {
	return 0
}

// False implements the UNIX false command.
func False(ctx context.Context, p *interp.Proc) int {
	return 1
}

var (
	_ CommandFunc = True
	_ CommandFunc = False
)

func init() {
	mustAddCmd("true", True)
	mustAddCmd("false", False)
}
