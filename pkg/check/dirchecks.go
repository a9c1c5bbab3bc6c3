package check

import (
	"fmt"

	"github.com/weberc2/xcheck/pkg/directory"
	. "github.com/weberc2/xcheck/pkg/types"
)

// CheckDirFormat requires a directory's direct blocks to hold exactly one
// `.` entry pointing at the directory and exactly one `..` entry.
func CheckDirFormat(c *Context, inode *Inode) (*Violation, error) {
	var dots, strayDots, dotDots int
	if err := directory.Scan(
		c.Decoder,
		inode,
		directory.ScopeDirect,
		func(_ Block, _ Index, entry *DirEntry) error {
			switch {
			case entry.NameEqual(NameDot):
				if entry.Ino == inode.Ino {
					dots++
				} else {
					strayDots++
				}
			case entry.NameEqual(NameDotDot):
				dotDots++
			}
			return nil
		},
	); err != nil {
		return nil, fmt.Errorf("checking directory format: %w", err)
	}
	if dots != 1 || strayDots != 0 || dotDots != 1 {
		return &Violation{Kind: KindBadDirFormat, Ino: inode.Ino}, nil
	}
	return nil, nil
}

// CheckReachable requires some directory other than the inode itself to
// hold an entry for it. The root is exempt.
func CheckReachable(c *Context, inode *Inode) (*Violation, error) {
	if inode.Ino == InoRoot {
		return nil, nil
	}
	refs, err := c.References()
	if err != nil {
		return nil, fmt.Errorf("checking reachability: %w", err)
	}
	if !refs.ReferencedFromOther(inode.Ino) {
		return &Violation{Kind: KindOrphan, Ino: inode.Ino}, nil
	}
	return nil, nil
}

// CheckDirReferences requires every entry of a directory, in direct and
// indirect blocks, to name an allocated inode inside the inode table.
func CheckDirReferences(c *Context, inode *Inode) (*Violation, error) {
	var violation *Violation
	if err := directory.Scan(
		c.Decoder,
		inode,
		directory.ScopeAll,
		func(block Block, _ Index, entry *DirEntry) error {
			if entry.Ino < c.Decoder.Inodes() {
				target, err := c.Decoder.Inode(entry.Ino)
				if err != nil {
					return err
				}
				if target.Allocated() {
					return nil
				}
			}
			violation = &Violation{
				Kind:  KindRefToFree,
				Ino:   entry.Ino,
				Block: block,
			}
			return stopScan
		},
	); err != nil && err != stopScan {
		return nil, fmt.Errorf("checking directory references: %w", err)
	}
	return violation, nil
}

// CheckLinkCount requires a file's link count to equal the number of
// directory entries naming it.
func CheckLinkCount(c *Context, inode *Inode) (*Violation, error) {
	refs, err := c.References()
	if err != nil {
		return nil, fmt.Errorf("checking link count: %w", err)
	}
	if refs.Count(inode.Ino) != int(inode.LinksCount) {
		c.Logger.Debug(
			"link count mismatch",
			"ino", inode.Ino,
			"recorded", inode.LinksCount,
			"entries", refs.Count(inode.Ino),
		)
		return &Violation{Kind: KindBadLinkCount, Ino: inode.Ino}, nil
	}
	return nil, nil
}

// CheckDirUnique requires every directory except the root to be named by
// exactly one entry.
func CheckDirUnique(c *Context, inode *Inode) (*Violation, error) {
	if inode.Ino == InoRoot {
		return nil, nil
	}
	refs, err := c.References()
	if err != nil {
		return nil, fmt.Errorf("checking directory uniqueness: %w", err)
	}
	if refs.Count(inode.Ino) != 1 {
		return &Violation{Kind: KindDirLinkedTwice, Ino: inode.Ino}, nil
	}
	return nil, nil
}
