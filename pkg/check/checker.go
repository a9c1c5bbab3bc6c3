package check

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/weberc2/xcheck/pkg/layout"
	"github.com/weberc2/xcheck/pkg/logger"
	. "github.com/weberc2/xcheck/pkg/types"
)

type Options struct {
	// ReportAll keeps checking after a violation and collects every
	// violation into the report. By default the first violation ends the
	// run.
	ReportAll bool

	// Image names the checked image in the report.
	Image string

	Notifier Notifier
}

type Checker struct {
	decoder *layout.Decoder
	options Options
}

func NewChecker(decoder *layout.Decoder, options Options) *Checker {
	return &Checker{decoder: decoder, options: options}
}

var (
	addressChecks = []InodeCheck{
		CheckAddressRange,
		CheckBitmap,
		CheckDirectReuse,
		CheckIndirectReuse,
	}

	typeChecks = map[FileType][]InodeCheck{
		FileTypeDir: {
			CheckDirFormat,
			CheckReachable,
			CheckDirUnique,
			CheckDirReferences,
		},
		FileTypeRegular: {CheckReachable, CheckLinkCount},
		FileTypeDev:     {CheckReachable},
	}
)

// Run checks the root directory, then every inode in ascending order, then
// the bitmap as a whole. In the default mode the first violation is
// returned as an error (a `*Violation`) alongside the report. Read errors
// always end the run.
func (checker *Checker) Run(ctx context.Context) (*Report, error) {
	r := run{
		Context: NewContext(checker.decoder, logger.FromContext(ctx)),
		options: checker.options,
		report: &Report{
			RunID:      uuid.NewString(),
			Image:      checker.options.Image,
			Superblock: *checker.decoder.Superblock(),
			Violations: []Violation{},
		},
	}
	r.Logger = r.Logger.With("run", r.report.RunID)
	if err := r.run(ctx); err != nil {
		return r.report, err
	}
	r.report.BlocksInUse = r.Usage.Count()
	r.options.Notifier.Finished(r.report)
	r.Logger.Info(
		"check finished",
		"inodes", r.report.InodesChecked,
		"blocksInUse", r.report.BlocksInUse,
		"violations", len(r.report.Violations),
	)
	return r.report, nil
}

type run struct {
	*Context
	options Options
	report  *Report
}

func (r *run) run(ctx context.Context) error {
	sb := r.Superblock
	r.options.Notifier.LoadedSuperblock(sb)
	r.Logger.Info(
		"loaded superblock",
		"size", sb.Size,
		"inodes", sb.InodeCount,
		"inodeStart", sb.InodeStart,
		"bitmapStart", sb.BitmapStart,
		"firstDataBlock", sb.FirstDataBlock(),
	)

	r.options.Notifier.CheckingRoot()
	v, err := CheckRoot(r.Context)
	if err != nil {
		return err
	}
	if v != nil {
		if err := r.violation(v); err != nil {
			return err
		}
	}

	r.options.Notifier.CheckingInodes(sb.InodeCount)
	for ino := InoNil; ino < sb.InodeCount; ino++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("checking inode `%d`: %w", ino, err)
		}
		if err := r.checkInode(ino); err != nil {
			return err
		}
		r.report.InodesChecked++
	}

	r.options.Notifier.CheckingBitmap()
	v, err = CheckBitmapUnused(r.Context)
	if err != nil {
		return err
	}
	if v != nil {
		return r.violation(v)
	}
	return nil
}

func (r *run) checkInode(ino Ino) error {
	inode, err := r.Decoder.Inode(ino)
	if err != nil {
		return err
	}

	v, err := CheckType(r.Context, inode)
	if err != nil {
		return err
	}
	if v != nil {
		return r.violation(v)
	}
	if !inode.Allocated() {
		return nil
	}
	r.Logger.Debug("checking inode", "ino", ino, "type", inode.FileType)

	for i, check := range addressChecks {
		v, err := check(r.Context, inode)
		if err != nil {
			return fmt.Errorf("checking inode `%d`: %w", ino, err)
		}
		if v == nil {
			continue
		}
		if err := r.violation(v); err != nil {
			return err
		}
		// nothing past an out-of-range address can be read or marked
		if i == 0 {
			return nil
		}
	}

	for _, check := range typeChecks[inode.FileType] {
		v, err := check(r.Context, inode)
		if err != nil {
			return fmt.Errorf("checking inode `%d`: %w", ino, err)
		}
		if v == nil {
			continue
		}
		if err := r.violation(v); err != nil {
			return err
		}
	}
	return nil
}

// violation records `v`. Unless every violation is wanted, `v` is returned
// to end the run.
func (r *run) violation(v *Violation) error {
	r.report.Violations = append(r.report.Violations, *v)
	r.options.Notifier.ViolationFound(v)
	r.Logger.Warn(
		"invariant violated",
		"code", v.Kind.Code(),
		"ino", v.Ino,
		"block", v.Block,
	)
	if r.options.ReportAll {
		return nil
	}
	return v
}
