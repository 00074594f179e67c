package interp

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
)

// ErrNotFound is the error resulting if a path search failed to find an
// executable file.
var ErrNotFound = exec.ErrNotFound

// BadRedirectError reports a redirection operator that is not followed
// by a path token.
type BadRedirectError struct {
	// Op is the operator as it was typed, e.g. ">" or "2>>".
	Op string
}

func (e *BadRedirectError) Error() string {
	return fmt.Sprintf("syntax error: expected file after %s", e.Op)
}

// EmptyStageError reports a pipeline segment with no command in it, the
// result of a stray leading, trailing, or doubled pipe.
type EmptyStageError struct {
	// Index is the position of the offending stage, counting from zero.
	Index int
}

func (e *EmptyStageError) Error() string {
	return "syntax error near unexpected token `|'"
}

// RedirectOpenError reports a redirection target that could not be
// opened or created. It wraps the operating system's cause.
type RedirectOpenError struct {
	Path string
	Err  error
}

func (e *RedirectOpenError) Error() string {
	cause := e.Err
	var pathErr *fs.PathError
	if errors.As(e.Err, &pathErr) {
		cause = pathErr.Err
	}
	return fmt.Sprintf("%s: %v", e.Path, cause)
}

func (e *RedirectOpenError) Unwrap() error { return e.Err }
