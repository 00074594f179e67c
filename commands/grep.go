package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/ImranSah/gosh/core/interp"
)

// Grep implements the POSIX grep command.
//
// https://pubs.opengroup.org/onlinepubs/9699919799.2018edition/
func Grep(ctx context.Context, p *interp.Proc) int {
	cmd := &SimpleCommand{
		Use:   "grep [-inv] [--color=WHEN] PATTERN [FILE]...",
		Short: "Search files for text matching a pattern.",
	}

	invert := cmd.Flags().Bool('v', "Select lines not matching any of the specified patterns.")
	ignoreCase := cmd.Flags().Bool('i', "Perform pattern matching in searches without regard to case.")
	showLineNumbers := cmd.Flags().Bool('n', "Show line numbers.")
	var colors ColorPrinter
	colors.Init(cmd.Flags(), p)

	return cmd.Run(p, func() int {
		args := cmd.Flags().Args()
		if len(args) == 0 {
			cmd.LogProgramError(p, errors.New("missing argument PATTERN"))
			return 1
		}

		// NOTE: Officially, the PATTERN argument supports multiple patterns delimited by newlines.
		// It's a very rare case so we'll ignore it here.
		pattern := args[0]
		if *ignoreCase {
			pattern = "(?i)" + pattern
		}
		regex, err := regexp.Compile(pattern)
		if err != nil {
			cmd.LogProgramError(p, err)
			return 2
		}

		files := args[1:]
		showFileName := len(files) > 1
		return cmd.RunEachFileOrStdin(p, files, func(name string, fd io.Reader) error {
			w := p.Stdout

			scanner := bufio.NewScanner(fd)
			lineNo := 1
			for scanner.Scan() {
				line := scanner.Bytes()
				lineMatches := regex.Match(line)

				// Write output
				if (lineMatches && !*invert) || (!lineMatches && *invert) {
					out := string(line)
					if lineMatches && colors.ShouldColor() {
						out = regex.ReplaceAllStringFunc(out, func(m string) string {
							return ColorBoldRed.Sprint(m)
						})
					}

					if showFileName {
						fmt.Fprintf(w, "%s:", name)
					}

					if *showLineNumbers {
						fmt.Fprintf(w, "%d:", lineNo)
					}

					if _, err := fmt.Fprintf(w, "%s\n", out); err != nil {
						return err
					}
				}
				lineNo++
			}

			return scanner.Err()
		})
	})
}

var _ CommandFunc = Grep

func init() {
	mustAddCmd("grep", Grep)
}
