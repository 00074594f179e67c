package commands

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/ImranSah/gosh/core/interp"
)

// Free implements the Linux free command on top of /proc/meminfo.
func Free(ctx context.Context, p *interp.Proc) int {
	cmd := &SimpleCommand{
		Use:   "free [OPTION...]",
		Short: "Display amount of free and used memory in the system.",
	}

	humanSize := cmd.Flags().BoolLong("human", 'h', "print human readable sizes")

	return cmd.Run(p, func() int {
		mem, err := readMeminfo(p.Fs)
		if err != nil {
			fmt.Fprintf(p.Stderr, "free: %v\n", err)
			return 1
		}

		// The used column is what procps reports: total less free and
		// everything reclaimable.
		buffCache := mem["Buffers"] + mem["Cached"] + mem["SReclaimable"]
		used := mem["MemTotal"] - mem["MemFree"] - buffCache
		swapUsed := mem["SwapTotal"] - mem["SwapFree"]

		show := func(kb int64) string { return strconv.FormatInt(kb, 10) }
		if *humanSize {
			show = func(kb int64) string { return BytesToHuman(kb * 1024) }
		}

		w := p.Stdout
		fmt.Fprintf(w, "%19s %11s %11s %11s %11s %11s\n",
			"total", "used", "free", "shared", "buff/cache", "available")
		fmt.Fprintf(w, "%-5s%14s %11s %11s %11s %11s %11s\n", "Mem:",
			show(mem["MemTotal"]), show(used), show(mem["MemFree"]),
			show(mem["Shmem"]), show(buffCache), show(mem["MemAvailable"]))
		fmt.Fprintf(w, "%-5s%14s %11s %11s\n", "Swap:",
			show(mem["SwapTotal"]), show(swapUsed), show(mem["SwapFree"]))
		return 0
	})
}

// readMeminfo parses /proc/meminfo into a map of field name to size in
// kilobytes.
func readMeminfo(fsys afero.Fs) (map[string]int64, error) {
	fd, err := fsys.Open("/proc/meminfo")
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	info := make(map[string]int64)
	scanner := bufio.NewScanner(fd)
	for scanner.Scan() {
		name, rest, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		value, err := strconv.ParseInt(strings.TrimSuffix(strings.TrimSpace(rest), " kB"), 10, 64)
		if err != nil {
			continue
		}
		info[name] = value
	}
	return info, scanner.Err()
}

var _ CommandFunc = Free

func init() {
	mustAddCmd("free", Free)
}
