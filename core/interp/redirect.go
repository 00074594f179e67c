package interp

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Redirect rebinds one of a stage's output streams to a file.
type Redirect struct {
	// FD is the stream being rebound: 1 for stdout, 2 for stderr.
	FD int
	// Append selects append mode; the default truncates.
	Append bool
	// Path is the target file.
	Path string
}

// redirectOps maps each redirection operator to the stream it rebinds
// and the mode it opens the target with.
var redirectOps = map[string]Redirect{
	">":   {FD: 1},
	"1>":  {FD: 1},
	">>":  {FD: 1, Append: true},
	"1>>": {FD: 1, Append: true},
	"2>":  {FD: 2},
	"2>>": {FD: 2, Append: true},
}

// ExtractRedirects splits one stage's tokens into its argument vector
// and its redirection plan. Operators and their path arguments are
// removed from the argv. At most one redirect per stream survives:
// a later operator for the same stream replaces the earlier one, and
// the replaced target is never opened. No file is touched here; the
// plan is applied when the stage starts.
func ExtractRedirects(toks []Token) (argv []string, plan []Redirect, err error) {
	at := make(map[int]int)
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		op, ok := redirectOps[t.Val]
		if !ok || t.Quoted {
			argv = append(argv, t.Val)
			continue
		}
		if i+1 >= len(toks) {
			return nil, nil, &BadRedirectError{Op: t.Val}
		}
		i++
		op.Path = toks[i].Val
		if n, seen := at[op.FD]; seen {
			plan[n] = op
		} else {
			at[op.FD] = len(plan)
			plan = append(plan, op)
		}
	}
	return argv, plan, nil
}

// openRedirect opens the target of one redirect, creating missing
// parent directories first. The caller owns the returned file.
func openRedirect(fsys afero.Fs, rd Redirect) (afero.File, error) {
	if dir := filepath.Dir(rd.Path); dir != "." {
		if err := fsys.MkdirAll(dir, 0755); err != nil {
			return nil, &RedirectOpenError{Path: rd.Path, Err: err}
		}
	}

	flag := os.O_CREATE | os.O_WRONLY
	if rd.Append {
		flag |= os.O_APPEND
	} else {
		flag |= os.O_TRUNC
	}
	f, err := fsys.OpenFile(rd.Path, flag, 0644)
	if err != nil {
		return nil, &RedirectOpenError{Path: rd.Path, Err: err}
	}
	return f, nil
}
