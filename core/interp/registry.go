package interp

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/spf13/afero"
)

// BuiltinFunc is the uniform contract between the shell and an
// in-process command: run with an explicit process context, return an
// exit status. Handlers that block must watch ctx and give up with
// ExitInterrupted once it is done.
type BuiltinFunc func(ctx context.Context, proc *Proc) int

// Proc carries everything one builtin invocation may touch. Stages
// share nothing except the environment, so handlers stay independently
// testable and safe to run beside their pipeline siblings.
type Proc struct {
	// Args is the full argument vector; Args[0] is the command name as
	// it was typed.
	Args []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Env is the shell's environment, shared across stages.
	Env *Environ

	// Fs is the filesystem commands read and write.
	Fs afero.Fs

	// Commands is the registry the stage was dispatched from, for
	// builtins like type that report on other commands.
	Commands *Registry
}

// Registry maps command names to builtin handlers. It is populated at
// startup and read-only afterwards; stages may query it concurrently.
type Registry struct {
	mu   sync.RWMutex
	cmds map[string]BuiltinFunc
}

func NewRegistry() *Registry {
	return &Registry{cmds: make(map[string]BuiltinFunc)}
}

// Register adds a builtin under name, replacing any previous handler
// with that name.
func (r *Registry) Register(name string, fn BuiltinFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmds[name] = fn
}

// Lookup returns the handler registered under name.
func (r *Registry) Lookup(name string) (BuiltinFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.cmds[name]
	return fn, ok
}

// Names returns every registered name in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.cmds))
	for name := range r.cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
