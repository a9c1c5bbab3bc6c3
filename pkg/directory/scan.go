package directory

import (
	"fmt"

	"github.com/weberc2/xcheck/pkg/layout"
	"github.com/weberc2/xcheck/pkg/resolve"
	. "github.com/weberc2/xcheck/pkg/types"
)

// Scope selects which data blocks of a directory are scanned.
type Scope uint8

const (
	// ScopeDirect scans only the blocks named by the direct slots.
	ScopeDirect Scope = iota

	// ScopeAll also scans the blocks named by the indirect block.
	ScopeAll
)

// Visitor is called for every non-empty entry. Returning a non-nil error
// stops the scan and the error is returned from `Scan` unwrapped.
type Visitor func(block Block, slot Index, entry *DirEntry) error

// Scan visits every non-empty entry of directory `inode` in block order.
// Blocks outside the data region are skipped; they are reported by the
// address checks, not here.
func Scan(
	decoder *layout.Decoder,
	inode *Inode,
	scope Scope,
	visit Visitor,
) error {
	sb := decoder.Superblock()
	var entries [DirEntriesPerBlock]DirEntry
	addrs := resolve.Resolve(decoder, inode)
	for addr, err, ok := addrs.Next(); ok; addr, err, ok = addrs.Next() {
		if err != nil {
			return fmt.Errorf("scanning directory `%d`: %w", inode.Ino, err)
		}

		if addr.Tier == resolve.TierIndirectPointer {
			if scope == ScopeDirect || !sb.InDataRegion(addr.Block) {
				return nil
			}
			continue
		}

		if !sb.InDataRegion(addr.Block) {
			continue
		}
		if err := decoder.DirEntries(addr.Block, &entries); err != nil {
			return fmt.Errorf("scanning directory `%d`: %w", inode.Ino, err)
		}
		for slot := range entries {
			if entries[slot].Ino == InoNil {
				continue
			}
			if err := visit(addr.Block, Index(slot), &entries[slot]); err != nil {
				return err
			}
		}
	}
	return nil
}
