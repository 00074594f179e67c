package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/ImranSah/gosh/core/interp"
)

// Kill implements the shell kill builtin. Signals may be given by
// number or by name, with or without the SIG prefix.
func Kill(ctx context.Context, p *interp.Proc) int {
	cmd := &SimpleCommand{
		Use:   "kill [-s SIGNAL | -SIGNAL] PID... or kill -l",
		Short: "Send a signal to one or more processes.",
	}

	// Arguments like -9 and -TERM aren't ordinary flags, so they're
	// picked apart by hand.
	args := p.Args[1:]
	sig := unix.SIGTERM

loop:
	for len(args) > 0 && strings.HasPrefix(args[0], "-") && len(args[0]) > 1 {
		arg := args[0]
		args = args[1:]

		switch arg {
		case "--":
			break loop
		case "-l":
			fmt.Fprintln(p.Stdout, strings.Join(signalNames(), " "))
			return 0
		case "-s":
			if len(args) == 0 {
				fmt.Fprintln(p.Stderr, "kill: option requires an argument: -s")
				return 2
			}
			spec := args[0]
			args = args[1:]

			parsed, err := parseSignal(spec)
			if err != nil {
				fmt.Fprintf(p.Stderr, "kill: %v\n", err)
				return 1
			}
			sig = parsed
		default:
			parsed, err := parseSignal(arg[1:])
			if err != nil {
				fmt.Fprintf(p.Stderr, "kill: %v\n", err)
				return 1
			}
			sig = parsed
		}
	}

	if len(args) == 0 {
		fmt.Fprintln(p.Stderr, "kill: missing PID")
		cmd.PrintHelp(p.Stdout)
		return 1
	}

	status := 0
	for _, arg := range args {
		// Negative values address process groups, as kill(2) does.
		pid, err := strconv.Atoi(arg)
		if err != nil {
			fmt.Fprintf(p.Stderr, "kill: %s: arguments must be process ids\n", arg)
			status = 1
			continue
		}

		if err := unix.Kill(pid, sig); err != nil {
			fmt.Fprintf(p.Stderr, "kill: (%d) - %v\n", pid, err)
			status = 1
		}
	}
	return status
}

// parseSignal resolves a signal given by number or name, with or
// without the SIG prefix.
func parseSignal(spec string) (unix.Signal, error) {
	if num, err := strconv.Atoi(spec); err == nil {
		return unix.Signal(num), nil
	}

	name := strings.ToUpper(spec)
	if !strings.HasPrefix(name, "SIG") {
		name = "SIG" + name
	}
	if sig := unix.SignalNum(name); sig != 0 {
		return sig, nil
	}
	return 0, fmt.Errorf("%s: invalid signal specification", spec)
}

// signalNames lists the classic signals the way kill -l does, without
// the SIG prefix.
func signalNames() []string {
	var names []string
	for i := 1; i <= 31; i++ {
		names = append(names, strings.TrimPrefix(unix.SignalName(unix.Signal(i)), "SIG"))
	}
	return names
}

var _ CommandFunc = Kill

func init() {
	mustAddCmd("kill", Kill)
}
