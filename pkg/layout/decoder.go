package layout

import (
	"fmt"

	"github.com/weberc2/xcheck/pkg/encode"
	"github.com/weberc2/xcheck/pkg/io"
	. "github.com/weberc2/xcheck/pkg/types"
)

// Decoder turns image offsets into typed records. The superblock is decoded
// once by `LoadSuperblock`; every other record is decoded on demand.
type Decoder struct {
	readAt     io.ReadAt
	superblock Superblock
}

// LoadSuperblock reads and validates the superblock in block 1 and returns
// a decoder for the rest of the image.
func LoadSuperblock(readAt io.ReadAt) (*Decoder, error) {
	buf := new([SuperblockSize]byte)
	if err := readAt.ReadAt(BlockSuperblock.Offset(), buf[:]); err != nil {
		return nil, fmt.Errorf("loading superblock: %w", err)
	}

	d := Decoder{readAt: readAt}
	encode.DecodeSuperblock(&d.superblock, buf)
	if err := validateSuperblock(&d.superblock); err != nil {
		return nil, fmt.Errorf("loading superblock: %w", err)
	}
	return &d, nil
}

func validateSuperblock(sb *Superblock) error {
	switch {
	case sb.Size <= BlockSuperblock:
		return fmt.Errorf(
			"image size `%d` leaves no room past the superblock: %w",
			sb.Size,
			BadSuperblockErr,
		)
	case sb.InodeCount <= InoRoot:
		return fmt.Errorf(
			"inode count `%d` leaves no room for the root inode: %w",
			sb.InodeCount,
			BadSuperblockErr,
		)
	case sb.InodeStart <= BlockSuperblock:
		return fmt.Errorf(
			"inode table start `%d` overlaps the superblock: %w",
			sb.InodeStart,
			BadSuperblockErr,
		)
	case sb.InodeStart+sb.InodeBlocks() > sb.BitmapStart:
		return fmt.Errorf(
			"inode table `[%d, %d)` overlaps the bitmap at `%d`: %w",
			sb.InodeStart,
			sb.InodeStart+sb.InodeBlocks(),
			sb.BitmapStart,
			BadSuperblockErr,
		)
	case sb.FirstDataBlock() > sb.Size:
		return fmt.Errorf(
			"bitmap ends at `%d`, past the end of the image at `%d`: %w",
			sb.FirstDataBlock(),
			sb.Size,
			BadSuperblockErr,
		)
	}
	return nil
}

func (d *Decoder) Superblock() *Superblock { return &d.superblock }

// Inodes returns the number of records in the inode table.
func (d *Decoder) Inodes() Ino { return d.superblock.InodeCount }

// Inode decodes the inode record for `ino`. The file type is not validated.
func (d *Decoder) Inode(ino Ino) (*Inode, error) {
	buf := new([InodeSize]byte)
	offset := d.superblock.InodeOffset(ino)
	if err := d.readAt.ReadAt(offset, buf[:]); err != nil {
		return nil, fmt.Errorf("decoding inode `%d`: %w", ino, err)
	}
	var inode Inode
	encode.DecodeInode(&inode, buf)
	inode.Ino = ino
	return &inode, nil
}

// DirEntry decodes the directory entry at `slot` in directory data block
// `block`.
func (d *Decoder) DirEntry(block Block, slot Index) (*DirEntry, error) {
	buf := new([DirEntrySize]byte)
	offset := block.Offset() + Byte(slot)*DirEntrySize
	if err := d.readAt.ReadAt(offset, buf[:]); err != nil {
		return nil, fmt.Errorf(
			"decoding directory entry `%d` in block `%d`: %w",
			slot,
			block,
			err,
		)
	}
	var entry DirEntry
	encode.DecodeDirEntry(&entry, buf)
	return &entry, nil
}

// DirEntries decodes every entry slot of directory data block `block`.
func (d *Decoder) DirEntries(
	block Block,
	out *[DirEntriesPerBlock]DirEntry,
) error {
	buf := new([BlockSize]byte)
	if err := d.readAt.ReadAt(block.Offset(), buf[:]); err != nil {
		return fmt.Errorf("decoding directory block `%d`: %w", block, err)
	}
	for i := range out {
		start := Byte(i) * DirEntrySize
		encode.DecodeDirEntry(
			&out[i],
			(*[DirEntrySize]byte)(buf[start:start+DirEntrySize]),
		)
	}
	return nil
}

// IndirectWord decodes the block pointer at `slot` of indirect block
// `block`.
func (d *Decoder) IndirectWord(block Block, slot Index) (Block, error) {
	buf := new([BlockPointerSize]byte)
	offset := block.Offset() + Byte(slot)*BlockPointerSize
	if err := d.readAt.ReadAt(offset, buf[:]); err != nil {
		return BlockNil, fmt.Errorf(
			"reading indirect block `%d` at index `%d`: %w",
			block,
			slot,
			err,
		)
	}
	return encode.DecodeBlock(buf), nil
}

// IndirectBlock decodes all pointer words of indirect block `block` with a
// single read.
func (d *Decoder) IndirectBlock(
	block Block,
	out *[IndirectBlocksCount]Block,
) error {
	buf := new([BlockSize]byte)
	if err := d.readAt.ReadAt(block.Offset(), buf[:]); err != nil {
		return fmt.Errorf("reading indirect block `%d`: %w", block, err)
	}
	encode.DecodeIndirectBlock(buf, out)
	return nil
}

// BitmapBit reports whether the allocation bitmap marks `b` in use.
func (d *Decoder) BitmapBit(b Block) (bool, error) {
	var buf [1]byte
	offset, bit := d.superblock.BitmapByteOffset(b)
	if err := d.readAt.ReadAt(offset, buf[:]); err != nil {
		return false, fmt.Errorf("reading bitmap bit for block `%d`: %w", b, err)
	}
	return buf[0]&(1<<bit) != 0, nil
}
