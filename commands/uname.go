package commands

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/ImranSah/gosh/core/interp"
)

// Uname implements the POSIX command by the same name.
func Uname(ctx context.Context, p *interp.Proc) int {
	cmd := &SimpleCommand{
		Use:   "uname [OPTION...]",
		Short: "Display system information.",
	}

	showAll := cmd.Flags().BoolLong("all", 'a', "print all information")
	showKernelName := cmd.Flags().BoolLong("kernel-name", 's', "print the kernel name")
	showNodename := cmd.Flags().BoolLong("nodename", 'n', "print the network node name")
	showRelease := cmd.Flags().BoolLong("kernel-release", 'r', "print the kernel release")
	showVersion := cmd.Flags().BoolLong("kernel-version", 'v', "print the kernel version")
	showMachine := cmd.Flags().BoolLong("machine", 'm', "print the machine name")

	return cmd.Run(p, func() int {
		var uts unix.Utsname
		if err := unix.Uname(&uts); err != nil {
			fmt.Fprintf(p.Stderr, "uname: %v\n", err)
			return 1
		}

		var parts []string
		for _, entry := range []struct {
			flag  *bool
			value string
		}{
			{showKernelName, utsString(uts.Sysname[:])},
			{showNodename, utsString(uts.Nodename[:])},
			{showRelease, utsString(uts.Release[:])},
			{showVersion, utsString(uts.Version[:])},
			{showMachine, utsString(uts.Machine[:])},
		} {
			if *entry.flag || *showAll {
				parts = append(parts, entry.value)
			}
		}

		if len(parts) == 0 {
			parts = append(parts, utsString(uts.Sysname[:]))
		}

		fmt.Fprintln(p.Stdout, strings.Join(parts, " "))
		return 0
	})
}

// utsString converts a NUL padded utsname field to a string.
func utsString(field []byte) string {
	if i := bytes.IndexByte(field, 0); i >= 0 {
		field = field[:i]
	}
	return string(field)
}

var _ CommandFunc = Uname

func init() {
	mustAddCmd("uname", Uname)
}
