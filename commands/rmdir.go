package commands

import (
	"context"
	"fmt"
	"path"

	"github.com/spf13/afero"

	"github.com/ImranSah/gosh/core/interp"
)

// Rmdir implements a POSIX rmdir command.
func Rmdir(ctx context.Context, p *interp.Proc) int {
	cmd := &SimpleCommand{
		Use:   "rmdir [OPTION...] DIRECTORY...",
		Short: "Remove empty directories.",
	}

	parents := cmd.Flags().BoolLong("parents", 'p', "remove ancestor directories once emptied")
	verbose := cmd.Flags().BoolLong("verbose", 'v', "print a line for every removed directory")

	return cmd.Run(p, func() int {
		directories := cmd.Flags().Args()
		if len(directories) == 0 {
			fmt.Fprintln(p.Stderr, "rmdir: missing operand")

			cmd.PrintHelp(p.Stdout)
			return 1
		}

		status := 0
		for _, dir := range directories {
			steps := []string{dir}
			if *parents {
				steps = ancestorChain(dir)
			}

			for _, dir := range steps {
				contents, err := afero.ReadDir(p.Fs, dir)
				if err != nil {
					fmt.Fprintf(p.Stderr, "rmdir: cannot read directory %q: %v\n", dir, reason(err))
					status = 1
					break
				}
				if len(contents) > 0 {
					fmt.Fprintf(p.Stderr, "rmdir: failed to remove %q: directory not empty\n", dir)
					status = 1
					break
				}

				if err := p.Fs.Remove(dir); err != nil {
					fmt.Fprintf(p.Stderr, "rmdir: cannot remove directory %q: %v\n", dir, reason(err))
					status = 1
					break
				}
				if *verbose {
					fmt.Fprintf(p.Stdout, "rmdir: removed directory %q\n", dir)
				}
			}
		}
		return status
	})
}

// ancestorChain lists dir and each of its ancestors, deepest first, so
// rmdir -p can peel a path one level at a time.
func ancestorChain(dir string) []string {
	steps := []string{dir}
	for {
		parent := path.Dir(dir)
		if parent == dir || parent == "." || parent == "/" {
			return steps
		}
		steps = append(steps, parent)
		dir = parent
	}
}

var _ CommandFunc = Rmdir

func init() {
	mustAddCmd("rmdir", Rmdir)
}
