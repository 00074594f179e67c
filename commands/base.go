package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	getopt "github.com/pborman/getopt/v2"
	"golang.org/x/sys/unix"

	"github.com/ImranSah/gosh/core/interp"
)

// CommandFunc is the handler contract shared with the interpreter.
type CommandFunc = interp.BuiltinFunc

// builtins holds every registered command by name.
var builtins = make(map[string]CommandFunc)

// mustAddCmd registers a command, panicking on duplicate names so
// collisions surface at startup rather than shadowing silently.
func mustAddCmd(name string, cmd CommandFunc) {
	if _, ok := builtins[name]; ok {
		panic(fmt.Sprintf("duplicate command: %q", name))
	}
	builtins[name] = cmd
}

// Install adds every registered command to the registry.
func Install(reg *interp.Registry) {
	for name, cmd := range builtins {
		reg.Register(name, cmd)
	}
}

// Names returns the names of all registered commands in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SimpleCommand handles flag parsing and help text for builtins that
// don't need anything fancier.
type SimpleCommand struct {
	// Use holds a one line usage string.
	Use string
	// Short holds a one line description of the command.
	Short string
	// ShowHelp sets whether help is displayed or not.
	// If this is non-nil when Run() is called, then the default help
	// flag isn't added.
	ShowHelp *bool
	// NeverBail skips interacting with stdout/stderr on failure and
	// always runs the callback.
	NeverBail bool

	flags *getopt.Set
}

// Flags gets the command's flag set.
func (s *SimpleCommand) Flags() *getopt.Set {
	if s.flags == nil {
		s.flags = getopt.New()
	}

	return s.flags
}

// PrintHelp writes help for the command to the given writer.
func (s *SimpleCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, s.Use)
	fmt.Fprintln(w, s.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	s.Flags().PrintOptions(w)
}

// Run parses the proc's arguments and, if parsing succeeded, calls the
// callback.
func (s *SimpleCommand) Run(p *interp.Proc, callback func() int) int {
	opts := s.Flags()

	// Add help flag if not overridden.
	if s.ShowHelp == nil {
		s.ShowHelp = opts.BoolLong("help", 'h', "show this help and exit")
	}

	err := opts.Getopt(p.Args, nil)
	if err != nil && !s.NeverBail {
		fmt.Fprintf(p.Stderr, "error: %s\n\n", err)

		s.PrintHelp(p.Stdout)
		return 1
	}

	if *s.ShowHelp {
		s.PrintHelp(p.Stdout)
		return 0
	}

	return callback()
}

// RunE runs the command with an error returning callback.
func (s *SimpleCommand) RunE(p *interp.Proc, callback func() error) int {
	return s.Run(p, func() int {
		return exitStatus(p, callback())
	})
}

// RunEachArg calls the callback once per positional argument. Errors
// are reported but don't stop the remaining arguments; the exit status
// is 1 if any callback failed.
func (s *SimpleCommand) RunEachArg(p *interp.Proc, callback func(arg string) error) int {
	return s.Run(p, func() int {
		status := 0
		for _, arg := range s.Flags().Args() {
			if err := callback(arg); err != nil {
				fmt.Fprintf(p.Stderr, "%s: %s: %v\n", p.Args[0], arg, err)
				status = 1
			}
		}
		return status
	})
}

// RunEachFileOrStdin calls the callback once per named file, or once
// with stdin if no files were named. A file that can't be opened is
// reported and skipped; a broken pipe ends the run immediately.
func (s *SimpleCommand) RunEachFileOrStdin(p *interp.Proc, files []string, callback func(name string, fd io.Reader) error) int {
	if len(files) == 0 {
		return exitStatus(p, callback("(standard input)", p.Stdin))
	}

	status := 0
	for _, name := range files {
		fd, err := p.Fs.Open(name)
		if err != nil {
			fmt.Fprintf(p.Stderr, "%s: %s: %v\n", p.Args[0], name, reason(err))
			status = 1
			continue
		}

		err = callback(name, fd)
		fd.Close()
		if err != nil {
			if st := exitStatus(p, err); st != 1 {
				return st
			}
			status = 1
		}
	}
	return status
}

// LogProgramError reports a usage problem the same way every command
// does, prefixed with the command's own name.
func (s *SimpleCommand) LogProgramError(p *interp.Proc, err error) {
	fmt.Fprintf(p.Stderr, "%s: %v\n", p.Args[0], err)
}

// exitStatus converts an error from a command body to an exit status.
// A broken pipe ends the command quietly with the status a process
// killed by SIGPIPE would report; an interrupt maps to the usual 130.
func exitStatus(p *interp.Proc, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, unix.EPIPE):
		return 128 + int(unix.SIGPIPE)
	case errors.Is(err, context.Canceled):
		return interp.ExitInterrupted
	default:
		fmt.Fprintf(p.Stderr, "%s: %v\n", p.Args[0], err)
		return 1
	}
}

// reason unwraps a *PathError so messages don't repeat the path the
// caller already printed.
func reason(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	return err
}

// Color modes accepted by the --color flag.
const (
	colorAlways = "always"
	colorAuto   = "auto"
	colorNever  = "never"
)

// Colors used by commands that decorate their output. Color is forced
// on for each instance; whether it reaches the output at all is
// ColorPrinter's call.
var (
	ColorBoldBlue  = color.New(color.FgBlue, color.Bold)
	ColorBoldCyan  = color.New(color.FgCyan, color.Bold)
	ColorBoldGreen = color.New(color.FgGreen, color.Bold)
	ColorBoldRed   = color.New(color.FgRed, color.Bold)
)

func init() {
	for _, c := range []*color.Color{ColorBoldBlue, ColorBoldCyan, ColorBoldGreen, ColorBoldRed} {
		c.EnableColor()
	}
}

// BytesToHuman formats a byte count the way ls and free do with -h:
// one decimal place below ten units, none above.
func BytesToHuman(bytes int64) string {
	for _, e := range []struct {
		unit  string
		power int64
	}{
		{"P", 1e15},
		{"T", 1e12},
		{"G", 1e9},
		{"M", 1e6},
		{"K", 1e3},
	} {
		quotient := bytes / e.power
		switch {
		case quotient == 0:
			continue
		case quotient > 10:
			return fmt.Sprintf("%d%s", quotient, e.unit)
		default:
			return fmt.Sprintf("%0.1f%s", float64(bytes)/float64(e.power), e.unit)
		}
	}

	return fmt.Sprintf("%d", bytes)
}

// ColorPrinter gates ANSI color output behind the conventional
// --color=always|auto|never flag. In auto mode color is used only when
// the command's stdout is a terminal.
type ColorPrinter struct {
	value *string
	proc  *interp.Proc
}

// Init registers the --color flag and binds the printer to the proc
// whose stdout decides auto mode.
func (c *ColorPrinter) Init(flags *getopt.Set, p *interp.Proc) {
	c.proc = p
	c.value = flags.EnumLong(
		"color",
		rune(0), // No short flag.
		[]string{colorAlways, colorAuto, colorNever},
		colorAuto,
		"colorize the output (always|auto|never)")
}

func (c *ColorPrinter) ShouldColor() bool {
	switch {
	case *c.value == colorNever:
		return false
	case *c.value == colorAlways:
		return true
	default:
		f, ok := c.proc.Stdout.(*os.File)
		return ok && isatty.IsTerminal(f.Fd())
	}
}

func (c *ColorPrinter) Sprintf(clr *color.Color, format string, a ...interface{}) string {
	if c.ShouldColor() {
		return clr.Sprintf(format, a...)
	}
	return fmt.Sprintf(format, a...)
}
