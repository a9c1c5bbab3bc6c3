package usage

import (
	"fmt"

	"github.com/weberc2/xcheck/pkg/math"
	. "github.com/weberc2/xcheck/pkg/types"
)

// Table records which blocks have been claimed by an inode. Bits are packed
// least-significant first, the same order as the on-disk allocation bitmap,
// so `Bytes` can be written straight into a bitmap region.
type Table struct {
	bytes []byte
	size  Block
	count Block
}

// New returns a table covering blocks `[0, size)` with every block unused.
func New(size Block) *Table {
	return &Table{
		bytes: make([]byte, math.DivRoundUp(size, BitsPerByte)),
		size:  size,
	}
}

// Mark records `b` as used and reports whether it was already used. Marking
// a block outside the table panics; callers range-check addresses first.
func (t *Table) Mark(b Block) (alreadyUsed bool) {
	byt := t.byteFor(b)
	bit := bitFor(b)
	if byteIsHigh(*byt, bit) {
		return true
	}
	*byt = byteSetHigh(*byt, bit)
	t.count++
	return false
}

func (t *Table) Used(b Block) bool {
	return byteIsHigh(*t.byteFor(b), bitFor(b))
}

// Count returns the number of blocks marked used.
func (t *Table) Count() Block { return t.count }

func (t *Table) Size() Block { return t.size }

func (t *Table) Bytes() []byte { return t.bytes }

func (t *Table) byteFor(b Block) *byte {
	if b >= t.size {
		panic(fmt.Sprintf(
			"block `%d` out of range for usage table of `%d` blocks",
			b,
			t.size,
		))
	}
	return &t.bytes[b/BitsPerByte]
}

func bitFor(b Block) uint8 { return uint8(b % BitsPerByte) }

func byteIsHigh(byt byte, bit uint8) bool {
	return byt&(0b0000_0001<<bit) != 0
}

func byteSetHigh(byt byte, bit uint8) byte {
	return byt | (0b0000_0001 << bit)
}
