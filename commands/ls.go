package commands

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"os/user"
	"path"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	fcolor "github.com/fatih/color"
	"github.com/spf13/afero"
	"golang.org/x/sys/unix"

	"github.com/ImranSah/gosh/core/interp"
)

// Ls implements the UNIX ls command.
func Ls(ctx context.Context, p *interp.Proc) int {
	cmd := &SimpleCommand{
		Use:   "ls [OPTION...] [FILE]...",
		Short: "List information about the FILEs (the current directory by default).",
	}

	listAll := cmd.Flags().Bool('a', "don't ignore entries starting with .")
	longListing := cmd.Flags().Bool('l', "use a long listing format")
	onePerLine := cmd.Flags().Bool('1', "list one file per line")
	humanSize := cmd.Flags().BoolLong("human-readable", 'h', "print human readable sizes")
	lineWidth := cmd.Flags().IntLong("width", 'w', 0, "set the output width, 0 detects the terminal")

	var colors ColorPrinter
	colors.Init(cmd.Flags(), p)

	return cmd.Run(p, func() int {
		width := *lineWidth
		if width == 0 {
			width = terminalWidth(p.Stdout)
		}
		if width == 0 {
			// Like ls in a pipe: no terminal, one file per line.
			*onePerLine = true
			width = math.MaxInt32
		}

		targets := cmd.Flags().Args()
		if len(targets) == 0 {
			targets = append(targets, ".")
		}
		sort.Strings(targets)

		showTargetNames := len(targets) > 1

		sizeFmt := func(bytes int64) string {
			return strconv.FormatInt(bytes, 10)
		}
		if *humanSize {
			sizeFmt = BytesToHuman
		}

		status := 0
		for i, target := range targets {
			entries, err := lsEntries(p.Fs, target)
			if err != nil {
				fmt.Fprintf(p.Stderr, "ls: %s: %v\n", target, reason(err))
				status = 1
				continue
			}

			if !*listAll {
				kept := entries[:0]
				for _, entry := range entries {
					if !strings.HasPrefix(entry.Name(), ".") {
						kept = append(kept, entry)
					}
				}
				entries = kept
			}

			sort.Slice(entries, func(i, j int) bool {
				return entries[i].Name() < entries[j].Name()
			})

			if showTargetNames {
				if i > 0 {
					fmt.Fprintln(p.Stdout)
				}
				fmt.Fprintf(p.Stdout, "%s:\n", target)
			}

			switch {
			case *longListing:
				listLong(p.Stdout, entries, sizeFmt, &colors)
			case *onePerLine:
				for _, entry := range entries {
					fmt.Fprintln(p.Stdout, colors.Sprintf(dircolor(entry), "%s", entry.Name()))
				}
			default:
				listColumns(p.Stdout, entries, width, &colors)
			}
		}

		return status
	})
}

// lsEntries resolves what listing a target means: the children for a
// directory, the entry itself for anything else.
func lsEntries(fsys afero.Fs, target string) ([]os.FileInfo, error) {
	info, err := fsys.Stat(target)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []os.FileInfo{info}, nil
	}
	return afero.ReadDir(fsys, target)
}

// listLong writes one line per entry in roughly the format of ls -l.
func listLong(w io.Writer, entries []os.FileInfo, sizeFmt func(int64) string, colors *ColorPrinter) {
	var totalBlocks int64
	for _, entry := range entries {
		totalBlocks += entryBlocks(entry)
	}
	fmt.Fprintf(w, "total %d\n", totalBlocks)

	currentYear := time.Now().Year()

	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	for _, entry := range entries {
		// Files modified this year show a time, older ones a year.
		modTime := entry.ModTime().Format("Jan _2 2006")
		if entry.ModTime().Year() >= currentYear {
			modTime = entry.ModTime().Format("Jan _2 15:04")
		}

		uname, gname := ownerNames(entry)
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			entry.Mode().String(),
			entryLinks(entry),
			uname,
			gname,
			sizeFmt(entry.Size()),
			modTime,
			colors.Sprintf(dircolor(entry), "%s", entry.Name()))
	}
	tw.Flush()
}

// listColumns writes entries in as many columns as fit in width, in
// column major order like ls.
func listColumns(w io.Writer, entries []os.FileInfo, width int, colors *ColorPrinter) {
	if len(entries) == 0 {
		return
	}

	colWidths := columnize(entries, width)
	cols := len(colWidths)
	rows := (len(entries) + cols - 1) / cols

	for row := 0; row < rows; row++ {
		for col, colWidth := range colWidths {
			index := col*rows + row
			if index >= len(entries) {
				continue
			}
			if col > 0 {
				fmt.Fprint(w, "  ")
			}

			entry := entries[index]
			name := entry.Name()
			fmt.Fprint(w, colors.Sprintf(dircolor(entry), "%s", name))

			// Pad to the column width unless this is the row's last
			// entry.
			if pad := colWidth - len(name); pad > 0 && index+rows < len(entries) {
				fmt.Fprint(w, strings.Repeat(" ", pad))
			}
		}
		fmt.Fprintln(w)
	}
}

// columnize computes the widths of the columns needed to display the
// entries in the fewest rows that fit the screen width.
func columnize(entries []os.FileInfo, screenWidth int) []int {
	if len(entries) == 0 {
		return []int{0}
	}

	const colPadding = 2

	nameLengths := make([]int, len(entries))
	for i, entry := range entries {
		nameLengths[i] = len(entry.Name())
	}

	// Start with the maximum number of columns and work down until
	// everything fits. One name plus padding is the narrowest column.
	columns := screenWidth / (1 + colPadding)
	if columns > len(entries) {
		columns = len(entries)
	}

	var maximums []int // Holds the widest name in each column.
	for ; columns >= 1; columns-- {
		maximums = make([]int, columns)
		total := (columns - 1) * colPadding
		rows := (len(entries) + columns - 1) / columns
		for i, nameLen := range nameLengths {
			prevMax := maximums[i/rows]
			if nameLen > prevMax {
				maximums[i/rows] = nameLen
				total = total - prevMax + nameLen
				if total > screenWidth {
					break
				}
			}
		}

		if total <= screenWidth {
			return maximums
		}
	}

	return maximums
}

// terminalWidth reports the width of the terminal behind w, or zero
// when w isn't a terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}
	ws, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 {
		return 0
	}
	return int(ws.Col)
}

// ownerNames resolves the owner and group of an entry, falling back to
// bare ids when the lookup can't say and root for filesystems that
// don't track ownership.
func ownerNames(entry os.FileInfo) (string, string) {
	st, ok := entry.Sys().(*syscall.Stat_t)
	if !ok {
		return "root", "root"
	}

	uname := strconv.FormatUint(uint64(st.Uid), 10)
	if u, err := user.LookupId(uname); err == nil {
		uname = u.Username
	}
	gname := strconv.FormatUint(uint64(st.Gid), 10)
	if g, err := user.LookupGroupId(gname); err == nil {
		gname = g.Name
	}
	return uname, gname
}

// entryBlocks approximates the 1K blocks an entry occupies.
func entryBlocks(entry os.FileInfo) int64 {
	if st, ok := entry.Sys().(*syscall.Stat_t); ok {
		return st.Blocks / 2
	}
	return (entry.Size() + 1023) / 1024
}

// entryLinks reports the hard link count of an entry, approximating
// for filesystems that don't track it.
func entryLinks(entry os.FileInfo) uint64 {
	if st, ok := entry.Sys().(*syscall.Stat_t); ok {
		return uint64(st.Nlink)
	}
	if entry.IsDir() {
		return 2
	}
	return 1
}

type lsColorTest struct {
	color *fcolor.Color
	test  func(entry os.FileInfo) bool
}

// Color listing comes from: https://askubuntu.com/a/884513
var dircolors = []lsColorTest{
	// Directories are bold blue.
	{color: ColorBoldBlue, test: os.FileInfo.IsDir},
	// Symlinks are bold cyan.
	{color: ColorBoldCyan, test: func(fi os.FileInfo) bool {
		return fi.Mode()&fs.ModeSymlink > 0
	}},
	// Yellow with black background for pipes and device nodes.
	{color: colorDeviceNode, test: func(fi os.FileInfo) bool {
		return fi.Mode()&(fs.ModeDevice|fs.ModeNamedPipe|fs.ModeSocket|fs.ModeCharDevice) > 0
	}},
	// Executables are bold green.
	{color: ColorBoldGreen, test: func(fi os.FileInfo) bool {
		return fi.Mode().Perm()&0111 > 0
	}},
	// Archives are bold red.
	{color: ColorBoldRed, test: func(fi os.FileInfo) bool {
		return archiveExtensions[strings.TrimPrefix(path.Ext(fi.Name()), ".")]
	}},
}

var colorDeviceNode = fcolor.New(fcolor.FgYellow, fcolor.BgBlack, fcolor.Bold)

var archiveExtensions = map[string]bool{
	"tar": true,
	"tgz": true,
	"zip": true,
	"gz":  true,
	"bz2": true,
	"bz":  true,
	"tbz": true,
	"deb": true,
	"rpm": true,
	"jar": true,
	"war": true,
	"rar": true,
}

// dircolor picks the color ls would use for an entry.
func dircolor(entry os.FileInfo) *fcolor.Color {
	for _, dc := range dircolors {
		if dc.test(entry) {
			return dc.color
		}
	}
	return colorPlainFile
}

var colorPlainFile = fcolor.New(fcolor.FgHiWhite)

func init() {
	colorDeviceNode.EnableColor()
	colorPlainFile.EnableColor()
}

var _ CommandFunc = Ls

func init() {
	mustAddCmd("ls", Ls)
}
