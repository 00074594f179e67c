package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/ImranSah/gosh/core/interp"
)

const (
	modeMaskUser  fs.FileMode = 0700
	modeMaskGroup fs.FileMode = 0070
	modeMaskOther fs.FileMode = 0007
	modeMaskAll               = modeMaskUser | modeMaskGroup | modeMaskOther

	modeRead  fs.FileMode = 0444
	modeWrite fs.FileMode = 0222
	modeExec  fs.FileMode = 0111
)

// blendMode merges the permission bits of repl into orig, leaving the
// non-permission bits alone.
func blendMode(orig, repl fs.FileMode) fs.FileMode {
	return (orig &^ modeMaskAll) | (repl & modeMaskAll)
}

// applyModeExpr computes the mode a chmod expression like "644", "+x",
// or "go-w" produces when applied to orig.
func applyModeExpr(expr string, orig fs.FileMode) (fs.FileMode, error) {
	// An octal mode is absolute.
	if octal, err := strconv.ParseUint(expr, 8, 32); err == nil {
		return blendMode(orig, fs.FileMode(octal)), nil
	}

	var who fs.FileMode
	var perms fs.FileMode
	var action func(orig, who, perms fs.FileMode) fs.FileMode

	// Handles the common forms of the symbolic grammar, not the full
	// comma separated clause list.
	for _, c := range expr {
		switch c {
		case 'a':
			who |= modeMaskAll
		case 'u':
			who |= modeMaskUser
		case 'g':
			who |= modeMaskGroup
		case 'o':
			who |= modeMaskOther
		case '+':
			action = func(orig, who, perms fs.FileMode) fs.FileMode {
				return blendMode(orig, orig|(perms&who))
			}
		case '=':
			action = func(orig, who, perms fs.FileMode) fs.FileMode {
				return blendMode(orig, perms&who)
			}
		case '-':
			action = func(orig, who, perms fs.FileMode) fs.FileMode {
				return blendMode(orig, orig & ^(perms&who))
			}
		case 'r':
			perms |= modeRead
		case 'w':
			perms |= modeWrite
		case 'x':
			perms |= modeExec
		case 'X':
			if orig&modeExec > 0 || orig&fs.ModeDir > 0 {
				perms |= modeExec
			}
		case 's', 't':
			// Setuid and sticky bits are accepted but ignored.
		default:
			return orig, fmt.Errorf("unknown symbol %q", c)
		}
	}

	if action == nil {
		return orig, errors.New("no action provided")
	}

	if who == 0 {
		who = modeMaskAll
	}

	return action(orig, who, perms), nil
}

// Chmod implements a POSIX chmod command.
func Chmod(ctx context.Context, p *interp.Proc) int {
	cmd := &SimpleCommand{
		Use:   "chmod MODE FILE...",
		Short: "Change the mode of each FILE to MODE.",
	}

	// Mode expressions like -w or +x would trip ordinary flag parsing,
	// so arguments are taken as-is.
	if len(p.Args) < 3 {
		fmt.Fprintln(p.Stderr, "chmod: not enough arguments")
		cmd.PrintHelp(p.Stdout)
		return 1
	}

	modeExpr := p.Args[1]

	status := 0
	for _, path := range p.Args[2:] {
		stat, err := p.Fs.Stat(path)
		if err != nil {
			fmt.Fprintf(p.Stderr, "chmod: cannot stat %q: %v\n", path, reason(err))
			status = 1
			continue
		}

		newMode, err := applyModeExpr(modeExpr, stat.Mode())
		if err != nil {
			fmt.Fprintf(p.Stderr, "chmod: %v\n", err)
			return 1
		}

		if err := p.Fs.Chmod(path, newMode); err != nil {
			fmt.Fprintf(p.Stderr, "chmod: cannot change mode of %q: %v\n", path, reason(err))
			status = 1
		}
	}
	return status
}

var _ CommandFunc = Chmod

func init() {
	mustAddCmd("chmod", Chmod)
}
