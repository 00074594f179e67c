package interp

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// NewEnviron creates an empty environment.
func NewEnviron() *Environ {
	return &Environ{}
}

// NewEnvironFrom creates an environment seeded from a list of
// "key=value" entries, as produced by os.Environ.
func NewEnvironFrom(environ []string) *Environ {
	out := &Environ{}
	for _, e := range environ {
		split := strings.SplitN(e, "=", 2)
		key, value := split[0], ""
		if len(split) > 1 {
			value = split[1]
		}
		out.Setenv(key, value)
	}
	return out
}

// Environ holds the shell's environment variables behind a lock so
// builtin stages may read and write them while sibling stages run.
type Environ struct {
	rw  sync.RWMutex
	env map[string]string
}

// Setenv sets the value of the variable named by key.
func (m *Environ) Setenv(key, value string) {
	m.rw.Lock()
	defer m.rw.Unlock()

	if m.env == nil {
		m.env = make(map[string]string)
	}
	m.env[key] = value
}

// Unsetenv removes the variable named by key.
func (m *Environ) Unsetenv(key string) {
	m.rw.Lock()
	defer m.rw.Unlock()
	if m.env != nil {
		delete(m.env, key)
	}
}

// LookupEnv returns the value of the variable named by key and whether
// it is present.
func (m *Environ) LookupEnv(key string) (string, bool) {
	m.rw.RLock()
	defer m.rw.RUnlock()

	val, ok := m.env[key]
	return val, ok
}

// Getenv returns the value of the variable named by key, or "" if the
// variable is not present.
func (m *Environ) Getenv(key string) string {
	val, _ := m.LookupEnv(key)
	return val
}

// Expand replaces ${var} or $var references in s with the variable's
// current value.
func (m *Environ) Expand(s string) string {
	return os.Expand(s, m.Getenv)
}

// Environ returns the environment as "key=value" entries sorted by key,
// the form expected by a child process.
func (m *Environ) Environ() []string {
	m.rw.RLock()
	defer m.rw.RUnlock()

	env := make([]string, 0, len(m.env))
	for k, v := range m.env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(env)
	return env
}
