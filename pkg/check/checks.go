package check

import (
	"fmt"

	"github.com/weberc2/xcheck/pkg/directory"
	"github.com/weberc2/xcheck/pkg/resolve"
	. "github.com/weberc2/xcheck/pkg/types"
)

// InodeCheck inspects one inode. It returns a violation when the invariant
// does not hold and an error only when the image could not be read.
type InodeCheck func(c *Context, inode *Inode) (*Violation, error)

const stopScan ConstError = "stop scan"

// CheckRoot requires the root inode to be a directory holding a `..` entry
// that points back at the root.
func CheckRoot(c *Context) (*Violation, error) {
	root, err := c.Decoder.Inode(InoRoot)
	if err != nil {
		return nil, fmt.Errorf("checking root directory: %w", err)
	}
	missing := &Violation{Kind: KindRootMissing, Ino: InoRoot}
	if root.FileType != FileTypeDir {
		return missing, nil
	}

	found := false
	if err := directory.Scan(
		c.Decoder,
		root,
		directory.ScopeDirect,
		func(_ Block, _ Index, entry *DirEntry) error {
			if entry.NameEqual(NameDotDot) && entry.Ino == InoRoot {
				found = true
				return stopScan
			}
			return nil
		},
	); err != nil && err != stopScan {
		return nil, fmt.Errorf("checking root directory: %w", err)
	}
	if !found {
		return missing, nil
	}
	return nil, nil
}

// CheckType requires the inode type to be free, directory, file or device.
// It applies to every inode, allocated or not.
func CheckType(_ *Context, inode *Inode) (*Violation, error) {
	if err := inode.FileType.Validate(); err != nil {
		return &Violation{Kind: KindBadInode, Ino: inode.Ino}, nil
	}
	return nil, nil
}

// CheckAddressRange requires every address, including the indirect block
// itself, to fall inside the data region. The indirect block is only read
// after its own address has been checked.
func CheckAddressRange(c *Context, inode *Inode) (*Violation, error) {
	addrs := resolve.Resolve(c.Decoder, inode)
	for addr, err, ok := addrs.Next(); ok; addr, err, ok = addrs.Next() {
		if err != nil {
			return nil, fmt.Errorf("checking address range: %w", err)
		}
		if !c.Superblock.InDataRegion(addr.Block) {
			return &Violation{
				Kind:  KindBadAddress,
				Ino:   inode.Ino,
				Block: addr.Block,
			}, nil
		}
	}
	return nil, nil
}

// CheckBitmap requires the bitmap to mark every address in use.
func CheckBitmap(c *Context, inode *Inode) (*Violation, error) {
	addrs := resolve.Resolve(c.Decoder, inode)
	for addr, err, ok := addrs.Next(); ok; addr, err, ok = addrs.Next() {
		if err != nil {
			return nil, fmt.Errorf("checking bitmap: %w", err)
		}
		used, err := c.Decoder.BitmapBit(addr.Block)
		if err != nil {
			return nil, fmt.Errorf("checking bitmap: %w", err)
		}
		if !used {
			return &Violation{
				Kind:  KindMarkedFree,
				Ino:   inode.Ino,
				Block: addr.Block,
			}, nil
		}
	}
	return nil, nil
}

// CheckDirectReuse marks the direct addresses and the indirect block in the
// usage table and fails on the first one already claimed. Every address is
// marked even after a collision.
func CheckDirectReuse(c *Context, inode *Inode) (*Violation, error) {
	return markAddresses(
		c,
		inode,
		KindDirectReused,
		resolve.TierDirect,
		resolve.TierIndirectPointer,
	)
}

// CheckIndirectReuse is the second marking pass, over the words of the
// indirect block.
func CheckIndirectReuse(c *Context, inode *Inode) (*Violation, error) {
	if inode.IndirectBlock == BlockNil {
		return nil, nil
	}
	return markAddresses(
		c,
		inode,
		KindIndirectReused,
		resolve.TierIndirect,
		resolve.TierIndirect,
	)
}

// markAddresses marks the addresses in tiers `[first, last]`. When `last`
// is the indirect pointer, the indirect block is never read.
func markAddresses(
	c *Context,
	inode *Inode,
	kind Kind,
	first resolve.Tier,
	last resolve.Tier,
) (*Violation, error) {
	var violation *Violation
	addrs := resolve.Resolve(c.Decoder, inode)
	for addr, err, ok := addrs.Next(); ok; addr, err, ok = addrs.Next() {
		if err != nil {
			return nil, fmt.Errorf("marking addresses in use: %w", err)
		}
		if addr.Tier >= first && c.Usage.Mark(addr.Block) && violation == nil {
			violation = &Violation{Kind: kind, Ino: inode.Ino, Block: addr.Block}
		}
		if addr.Tier == last && last == resolve.TierIndirectPointer {
			break
		}
	}
	return violation, nil
}

// CheckBitmapUnused requires every data block the bitmap marks in use to
// have been claimed by some inode. It runs once, after every inode has been
// marked. Metadata blocks below the data region are not checked.
func CheckBitmapUnused(c *Context) (*Violation, error) {
	for b := c.Superblock.FirstDataBlock(); b < c.Superblock.Size; b++ {
		used, err := c.Decoder.BitmapBit(b)
		if err != nil {
			return nil, fmt.Errorf("checking bitmap for unused blocks: %w", err)
		}
		if used && !c.Usage.Used(b) {
			return &Violation{Kind: KindBitmapUnused, Block: b}, nil
		}
	}
	return nil, nil
}
