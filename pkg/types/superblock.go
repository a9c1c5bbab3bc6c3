package types

import "github.com/weberc2/xcheck/pkg/math"

const SuperblockSize Byte = 7 * 4

// Superblock describes the region boundaries of an image. All fields are
// counted in blocks except `InodeCount`.
type Superblock struct {
	Size        Block `json:"size"`
	DataBlocks  Block `json:"nblocks"`
	InodeCount  Ino   `json:"ninodes"`
	LogBlocks   Block `json:"nlog"`
	LogStart    Block `json:"logstart"`
	InodeStart  Block `json:"inodestart"`
	BitmapStart Block `json:"bmapstart"`
}

// InodesPerBlock is the number of inode records in one inode table block.
const InodesPerBlock = Ino(BlockSize / InodeSize)

func (sb *Superblock) InodeBlocks() Block {
	return Block(math.DivRoundUp(sb.InodeCount, InodesPerBlock))
}

func (sb *Superblock) BitmapBlocks() Block {
	return BitmapBlocks(sb.Size)
}

// BitmapBlocks returns the number of blocks needed for an allocation bitmap
// covering `size` blocks.
func BitmapBlocks(size Block) Block {
	return math.DivRoundUp(size, Block(BlockSize*BitsPerByte))
}

// FirstDataBlock is the first block past the bitmap region. Every data
// block address must be at least this.
func (sb *Superblock) FirstDataBlock() Block {
	return sb.BitmapStart + sb.BitmapBlocks()
}

func (sb *Superblock) LastBlock() Block { return sb.Size - 1 }

func (sb *Superblock) InodeOffset(ino Ino) Byte {
	return sb.InodeStart.Offset() + Byte(ino)*InodeSize
}

// BitmapByteOffset returns the image offset of the bitmap byte holding the
// bit for `b` along with the bit's position in that byte.
func (sb *Superblock) BitmapByteOffset(b Block) (Byte, uint8) {
	return sb.BitmapStart.Offset() + Byte(b/BitsPerByte), uint8(b % BitsPerByte)
}

func (sb *Superblock) InDataRegion(b Block) bool {
	return b >= sb.FirstDataBlock() && b <= sb.LastBlock()
}
