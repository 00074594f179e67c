package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ImranSah/gosh/core/interp"
)

// Cd implements the cd shell builtin.
//
// The working directory is process-wide state, so a cd that runs
// inside a pipeline still moves the whole shell. That matches how
// single-process shells behave and keeps later external commands
// spawning in the new directory.
func Cd(ctx context.Context, p *interp.Proc) int {
	if len(p.Args) > 2 {
		fmt.Fprintf(p.Stderr, "%s: too many arguments\n", p.Args[0])
		return 1
	}

	if len(p.Args) < 2 || p.Args[1] == "~" {
		if err := os.Chdir(p.Env.Getenv("HOME")); err != nil {
			fmt.Fprintf(p.Stderr, "%s: could not change directory\n", p.Args[0])
			return 1
		}
		syncPwd(p)
		return 0
	}

	dir := p.Args[1]
	if err := os.Chdir(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(p.Stderr, "%s: %s: No such file or directory\n", p.Args[0], dir)
		} else {
			fmt.Fprintf(p.Stderr, "%s: %s: %v\n", p.Args[0], dir, reason(err))
		}
		return 1
	}
	syncPwd(p)
	return 0
}

func syncPwd(p *interp.Proc) {
	if wd, err := os.Getwd(); err == nil {
		p.Env.Setenv("PWD", wd)
	}
}

var _ CommandFunc = Cd

func init() {
	mustAddCmd("cd", Cd)
}
