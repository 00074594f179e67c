package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/ImranSah/gosh/core/interp"
)

// Uptime implements the UNIX uptime command on top of /proc.
func Uptime(ctx context.Context, p *interp.Proc) int {
	cmd := &SimpleCommand{
		Use:   "uptime",
		Short: "Tell how long the system has been running.",

		// Never bail, even if args are bad.
		NeverBail: true,
	}

	return cmd.Run(p, func() int {
		up, err := readUptime(p.Fs)
		if err != nil {
			fmt.Fprintf(p.Stderr, "uptime: %v\n", err)
			return 1
		}

		loads, err := readLoadavg(p.Fs)
		if err != nil {
			fmt.Fprintf(p.Stderr, "uptime: %v\n", err)
			return 1
		}

		fmt.Fprintln(p.Stdout, formatUptime(time.Now(), up, loads))
		return 0
	})
}

// formatUptime renders the classic one line uptime summary.
func formatUptime(now time.Time, up time.Duration, loads [3]string) string {
	day := 24 * time.Hour
	days := up / day
	up -= days * day
	hours := up / time.Hour
	up -= hours * time.Hour
	mins := up / time.Minute

	var b strings.Builder
	fmt.Fprintf(&b, " %s up ", now.Format("15:04:05"))
	switch days {
	case 0:
	case 1:
		fmt.Fprintf(&b, "1 day, ")
	default:
		fmt.Fprintf(&b, "%d days, ", days)
	}
	fmt.Fprintf(&b, "%2d:%02d,  load average: %s", hours, mins, strings.Join(loads[:], ", "))
	return b.String()
}

// readUptime reads how long the system has been up from /proc/uptime.
func readUptime(fsys afero.Fs) (time.Duration, error) {
	raw, err := afero.ReadFile(fsys, "/proc/uptime")
	if err != nil {
		return 0, err
	}

	fields := strings.Fields(string(raw))
	if len(fields) == 0 {
		return 0, errors.New("malformed /proc/uptime")
	}

	secs, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, err
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// readLoadavg reads the three load averages from /proc/loadavg. They
// stay strings; uptime only echoes them.
func readLoadavg(fsys afero.Fs) ([3]string, error) {
	var loads [3]string

	raw, err := afero.ReadFile(fsys, "/proc/loadavg")
	if err != nil {
		return loads, err
	}

	fields := strings.Fields(string(raw))
	if len(fields) < 3 {
		return loads, errors.New("malformed /proc/loadavg")
	}

	copy(loads[:], fields[:3])
	return loads, nil
}

var _ CommandFunc = Uptime

func init() {
	mustAddCmd("uptime", Uptime)
}
