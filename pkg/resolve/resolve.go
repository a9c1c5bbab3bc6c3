package resolve

import (
	"fmt"

	. "github.com/weberc2/xcheck/pkg/types"
)

// Tier identifies which kind of inode slot an address came from.
type Tier uint8

const (
	// TierDirect addresses come from the inode's direct slots.
	TierDirect Tier = iota

	// TierIndirectPointer is the inode's indirect slot itself: the block
	// holding the indirect pointer words.
	TierIndirectPointer

	// TierIndirect addresses are the words stored in the indirect block.
	TierIndirect
)

func (tier Tier) String() string {
	switch tier {
	case TierDirect:
		return "Direct"
	case TierIndirectPointer:
		return "IndirectPointer"
	case TierIndirect:
		return "Indirect"
	default:
		return fmt.Sprintf("Tier(%d)", uint8(tier))
	}
}

// Address is one non-zero block number referenced by an inode, along with
// the slot it was found in.
type Address struct {
	Block Block
	Tier  Tier
	Slot  Index
}

type IndirectReader interface {
	IndirectBlock(block Block, out *[IndirectBlocksCount]Block) error
}

// Addresses iterates over the non-zero block addresses of an inode: direct
// slots in order, then the indirect pointer, then the words of the indirect
// block. The indirect block is only read once iteration moves past the
// indirect pointer, so a caller may stop at the pointer without touching
// the block it names.
type Addresses struct {
	reader IndirectReader
	inode  *Inode
	tier   Tier
	slot   Index
	words  *[IndirectBlocksCount]Block
	done   bool
}

// Resolve returns a fresh iterator over the addresses of `inode`.
func Resolve(reader IndirectReader, inode *Inode) *Addresses {
	return &Addresses{reader: reader, inode: inode}
}

// Next returns the next address. When `ok` is false the iteration is over;
// a non-nil error also ends it.
func (addrs *Addresses) Next() (address Address, err error, ok bool) {
	for !addrs.done {
		switch addrs.tier {
		case TierDirect:
			if addrs.slot >= DirectBlocksCount {
				addrs.tier, addrs.slot = TierIndirectPointer, 0
				continue
			}
			slot := addrs.slot
			addrs.slot++
			if b := addrs.inode.DirectBlocks[slot]; b != BlockNil {
				return Address{Block: b, Tier: TierDirect, Slot: slot}, nil, true
			}
		case TierIndirectPointer:
			addrs.tier = TierIndirect
			if addrs.inode.IndirectBlock == BlockNil {
				addrs.done = true
				continue
			}
			return Address{
				Block: addrs.inode.IndirectBlock,
				Tier:  TierIndirectPointer,
			}, nil, true
		case TierIndirect:
			if addrs.words == nil {
				addrs.words = new([IndirectBlocksCount]Block)
				if err := addrs.reader.IndirectBlock(
					addrs.inode.IndirectBlock,
					addrs.words,
				); err != nil {
					addrs.done = true
					return Address{}, fmt.Errorf(
						"resolving addresses for inode `%d`: %w",
						addrs.inode.Ino,
						err,
					), true
				}
			}
			if addrs.slot >= IndirectBlocksCount {
				addrs.done = true
				continue
			}
			slot := addrs.slot
			addrs.slot++
			if b := addrs.words[slot]; b != BlockNil {
				return Address{Block: b, Tier: TierIndirect, Slot: slot}, nil, true
			}
		}
	}
	return Address{}, nil, false
}

// Collect drains `addrs` into a slice.
func Collect(addrs *Addresses) ([]Address, error) {
	var out []Address
	for address, err, ok := addrs.Next(); ok; address, err, ok = addrs.Next() {
		if err != nil {
			return nil, err
		}
		out = append(out, address)
	}
	return out, nil
}
