package encode

import (
	. "github.com/weberc2/xcheck/pkg/types"
)

func EncodeSuperblock(sb *Superblock, b *[SuperblockSize]byte) {
	p := b[:]
	putU32(p, superblockSizeStart, uint32(sb.Size))
	putU32(p, superblockDataBlocksStart, uint32(sb.DataBlocks))
	putU32(p, superblockInodeCountStart, uint32(sb.InodeCount))
	putU32(p, superblockLogBlocksStart, uint32(sb.LogBlocks))
	putU32(p, superblockLogStartStart, uint32(sb.LogStart))
	putU32(p, superblockInodeStartStart, uint32(sb.InodeStart))
	putU32(p, superblockBitmapStartStart, uint32(sb.BitmapStart))
}

func DecodeSuperblock(sb *Superblock, b *[SuperblockSize]byte) {
	p := b[:]
	*sb = Superblock{
		Size:        Block(getU32(p, superblockSizeStart)),
		DataBlocks:  Block(getU32(p, superblockDataBlocksStart)),
		InodeCount:  Ino(getU32(p, superblockInodeCountStart)),
		LogBlocks:   Block(getU32(p, superblockLogBlocksStart)),
		LogStart:    Block(getU32(p, superblockLogStartStart)),
		InodeStart:  Block(getU32(p, superblockInodeStartStart)),
		BitmapStart: Block(getU32(p, superblockBitmapStartStart)),
	}
}

const (
	superblockFieldSize = 4

	superblockSizeStart        Byte = 0
	superblockDataBlocksStart       = superblockSizeStart + superblockFieldSize
	superblockInodeCountStart       = superblockDataBlocksStart + superblockFieldSize
	superblockLogBlocksStart        = superblockInodeCountStart + superblockFieldSize
	superblockLogStartStart         = superblockLogBlocksStart + superblockFieldSize
	superblockInodeStartStart       = superblockLogStartStart + superblockFieldSize
	superblockBitmapStartStart      = superblockInodeStartStart + superblockFieldSize
)
