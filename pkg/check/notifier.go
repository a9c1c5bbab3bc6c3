package check

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	. "github.com/weberc2/xcheck/pkg/types"
)

// Notifier prints human-readable progress. The zero value prints nothing.
type Notifier struct {
	w io.Writer
}

func NewNotifier(w io.Writer) (n Notifier) {
	n.w = w
	return
}

var (
	bold  = color.New(color.Bold)
	red   = color.New(color.FgRed)
	green = color.New(color.FgGreen)
)

func (n Notifier) LoadedSuperblock(sb *Superblock) {
	if n.w == nil {
		return
	}
	fmt.Fprintf(
		n.w,
		"%s loaded superblock: %d blocks, %d inodes, data from block %d\n",
		nowStr(),
		sb.Size,
		sb.InodeCount,
		sb.FirstDataBlock(),
	)
}

func (n Notifier) CheckingRoot() {
	if n.w == nil {
		return
	}
	bold.Fprintf(n.w, "%s checking root directory\n", nowStr())
}

func (n Notifier) CheckingInodes(count Ino) {
	if n.w == nil {
		return
	}
	bold.Fprintf(n.w, "%s checking %d inodes\n", nowStr(), count)
}

func (n Notifier) CheckingBitmap() {
	if n.w == nil {
		return
	}
	bold.Fprintf(n.w, "%s checking bitmap\n", nowStr())
}

func (n Notifier) ViolationFound(v *Violation) {
	if n.w == nil {
		return
	}
	red.Fprintf(n.w, "%s  %s\n", nowStr(), v.Detail())
}

func (n Notifier) Finished(report *Report) {
	if n.w == nil {
		return
	}
	if report.OK() {
		green.Fprintf(
			n.w,
			"%s clean: %d inodes, %d blocks in use\n",
			nowStr(),
			report.InodesChecked,
			report.BlocksInUse,
		)
		return
	}
	red.Fprintf(
		n.w,
		"%s found %d violations\n",
		nowStr(),
		len(report.Violations),
	)
}

func nowStr() string {
	return time.Now().Format("15:04:05")
}
