package core

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"github.com/abiosoft/readline"
	"github.com/spf13/afero"
	"golang.org/x/sys/unix"

	"github.com/ImranSah/gosh/commands"
	"github.com/ImranSah/gosh/core/config"
	"github.com/ImranSah/gosh/core/interp"
	"github.com/ImranSah/gosh/core/logger"
	"github.com/ImranSah/gosh/core/shell"
)

const (
	EnvHome     = "HOME"
	EnvPWD      = "PWD"
	EnvPath     = "PATH"
	EnvPrompt   = "PS1"
	EnvHostname = "HOSTNAME"
	EnvUser     = "USER"
)

// ShellOptions bind a shell to its terminal and session. The zero
// value wires the shell to the current process: standard streams,
// a copy of the process environment, no event log.
type ShellOptions struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Env seeds the shell's environment. Nil means a copy of the
	// process environment.
	Env *interp.Environ

	// Log receives session events. Nil means events are discarded.
	Log *logger.SessionLogger

	// HistoryFile, when set, persists line history across runs.
	HistoryFile string

	// IsTerminal and Width describe a terminal the process does not
	// own, such as an SSH session's pty. When IsTerminal is set the
	// remote end is assumed to manage its own terminal modes.
	IsTerminal func() bool
	Width      func() int
}

// Shell is an interactive command interpreter: it reads lines, builds
// pipelines out of them, and runs them against the host.
type Shell struct {
	Config   *config.Configuration
	Env      *interp.Environ
	Runner   *interp.Runner
	Readline *readline.Instance

	log        *logger.SessionLogger
	lastStatus int
	exiting    bool
	toClose    listCloser
}

func NewShell(cfg *config.Configuration, opts ShellOptions) (*Shell, error) {
	env := opts.Env
	if env == nil {
		env = interp.NewEnvironFrom(os.Environ())
	}
	seedEnv(env, cfg)

	stdin := opts.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	log := opts.Log
	if log == nil {
		log = logger.NewNopLogger().Sessionless()
	}

	registry := interp.NewRegistry()
	commands.Install(registry)

	s := &Shell{
		Config: cfg,
		Env:    env,
		Runner: &interp.Runner{
			Commands: registry,
			Env:      env,
			Fs:       afero.NewOsFs(),
			Stdin:    stdin,
			Stdout:   stdout,
			Stderr:   stderr,
			Grace:    cfg.PipelineGrace(),
		},
		log: log,
	}

	rlCfg := &readline.Config{
		Stdin:        readline.NewCancelableStdin(stdin),
		Stdout:       stdout,
		Stderr:       stderr,
		HistoryFile:  opts.HistoryFile,
		AutoComplete: &commandCompleter{shell: s},
	}
	if opts.Width != nil {
		rlCfg.FuncGetWidth = opts.Width
	}
	if opts.IsTerminal != nil {
		rlCfg.FuncIsTerminal = opts.IsTerminal
		// The far end of the connection owns the real terminal, so
		// mode changes here would hit the wrong device.
		rlCfg.FuncMakeRaw = func() error { return nil }
		rlCfg.FuncExitRaw = func() error { return nil }
	}

	if err := rlCfg.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return nil, err
	}
	s.Readline = rl
	s.toClose = append(s.toClose, rl)

	return s, nil
}

// seedEnv fills in the variables the interpreter relies on when the
// caller's environment doesn't provide them.
func seedEnv(env *interp.Environ, cfg *config.Configuration) {
	if _, ok := env.LookupEnv(EnvPath); !ok {
		env.Setenv(EnvPath, cfg.DefaultPath)
	}
	if _, ok := env.LookupEnv(EnvPWD); !ok {
		if wd, err := os.Getwd(); err == nil {
			env.Setenv(EnvPWD, wd)
		}
	}
	if _, ok := env.LookupEnv(EnvHostname); !ok {
		if host, err := os.Hostname(); err == nil {
			env.Setenv(EnvHostname, host)
		}
	}
}

// Path gets the search path for commands.
func (s *Shell) Path() []string {
	return strings.Split(s.Env.Getenv(EnvPath), ":")
}

// Prompt renders the prompt for the next read. PS1 wins when the
// session set one, otherwise the configured prompt is used; either may
// contain the usual \u, \h, \w and \$ escapes.
func (s *Shell) Prompt() string {
	prompt := s.Env.Getenv(EnvPrompt)
	if prompt == "" {
		prompt = s.Config.Prompt
	}

	prompt = strings.ReplaceAll(prompt, `\u`, s.Env.Getenv(EnvUser))
	prompt = strings.ReplaceAll(prompt, `\h`, s.Env.Getenv(EnvHostname))

	pwd := s.Env.Getenv(EnvPWD)
	if home := s.Env.Getenv(EnvHome); home != "" && strings.HasPrefix(pwd, home) {
		pwd = "~" + strings.TrimPrefix(pwd, home)
	}
	prompt = strings.ReplaceAll(prompt, `\w`, pwd)

	if s.Env.Getenv(EnvUser) == "root" {
		prompt = strings.ReplaceAll(prompt, `\$`, "#")
	} else {
		prompt = strings.ReplaceAll(prompt, `\$`, "$")
	}

	return prompt
}

// Run reads and evaluates lines until the input closes or an exit
// builtin ends the session, and returns the shell's final status.
func (s *Shell) Run(ctx context.Context) int {
	for {
		s.Readline.SetPrompt(s.Prompt())
		line, err := s.Readline.Readline()

		switch {
		case err == io.EOF:
			return s.lastStatus

		case err == readline.ErrInterrupt:
			// ^C at the prompt drops the partial line.
			continue

		case err != nil:
			fmt.Fprintf(s.Runner.Stderr, "gosh: %v\n", err)
			return s.lastStatus

		case len(strings.TrimSpace(line)) == 0:
			continue
		}

		s.lastStatus = s.Eval(ctx, line)
		if s.exiting {
			return s.lastStatus
		}
	}
}

// Eval runs a single command line and returns its status. An
// unparseable line reports to stderr and runs nothing.
func (s *Shell) Eval(ctx context.Context, line string) int {
	pipeline, err := interp.Parse(shell.Split(line))
	if err != nil {
		fmt.Fprintln(s.Runner.Stderr, err)
		s.log.Record(&logger.ParseError{Line: line, Error: err.Error()})
		return 2
	}
	if pipeline == nil {
		return s.lastStatus
	}

	// ^C while a pipeline runs cancels the pipeline, not the shell.
	ctx, stop := signal.NotifyContext(ctx, unix.SIGINT)
	defer stop()

	start := time.Now()
	results, status := s.Runner.Run(ctx, pipeline)

	argvs := make([][]string, len(pipeline.Stages))
	for i, stage := range pipeline.Stages {
		argvs[i] = append([]string{stage.Name}, stage.Args...)
	}
	statuses := make([]int, len(results))
	for i, res := range results {
		statuses[i] = res.Code
		if res.Code == interp.ExitNotFound {
			s.log.Record(&logger.UnknownCommand{Command: argvs[res.Stage]})
		}
	}
	s.log.Record(&logger.PipelineRun{
		Line:           line,
		Commands:       argvs,
		Statuses:       statuses,
		LastStatus:     status,
		DurationMicros: time.Since(start).Microseconds(),
	})

	// exit ends the session only when it is the whole pipeline;
	// inside a larger one it just ends its own stage.
	if len(pipeline.Stages) == 1 && pipeline.Stages[0].Name == "exit" {
		if _, ok := s.Runner.Commands.Lookup("exit"); ok {
			s.exiting = true
		}
	}

	return status
}

// LastStatus reports the status of the most recent evaluation.
func (s *Shell) LastStatus() int {
	return s.lastStatus
}

func (s *Shell) Close() error {
	return s.toClose.Close()
}

// commandCompleter completes the command word of the segment under the
// cursor from the same name set type reports on: builtins plus
// executables on the search path.
type commandCompleter struct {
	shell *Shell
}

func (c *commandCompleter) Do(line []rune, pos int) ([][]rune, int) {
	prefix := string(line[:pos])
	if i := strings.LastIndex(prefix, "|"); i >= 0 {
		prefix = prefix[i+1:]
	}
	word := strings.TrimLeft(prefix, " \t")
	if strings.ContainsAny(word, " \t'\"") {
		return nil, 0
	}

	seen := make(map[string]bool)
	var completions [][]rune
	for _, name := range c.shell.commandNames() {
		if !seen[name] && strings.HasPrefix(name, word) {
			seen[name] = true
			completions = append(completions, []rune(name[len(word):]+" "))
		}
	}
	return completions, len([]rune(word))
}

// commandNames lists every name the shell could resolve, sorted.
func (s *Shell) commandNames() []string {
	names := s.Runner.Commands.Names()
	for _, dir := range s.Path() {
		infos, err := afero.ReadDir(s.Runner.Fs, dir)
		if err != nil {
			continue
		}
		for _, info := range infos {
			if info.Mode().IsRegular() && info.Mode()&0111 != 0 {
				names = append(names, info.Name())
			}
		}
	}
	sort.Strings(names)
	return names
}

type listCloser []io.Closer

func (lc listCloser) Close() error {
	var lastErr error
	for _, v := range lc {
		if err := v.Close(); err != nil {
			lastErr = err
		}
	}

	return lastErr
}
