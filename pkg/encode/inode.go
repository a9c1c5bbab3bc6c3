package encode

import (
	. "github.com/weberc2/xcheck/pkg/types"
)

func EncodeInode(inode *Inode, b *[InodeSize]byte) {
	p := b[:]

	putI16(p, inodeFileTypeStart, int16(inode.FileType))
	putI16(p, inodeMajorStart, inode.Major)
	putI16(p, inodeMinorStart, inode.Minor)
	putI16(p, inodeLinksCountStart, inode.LinksCount)
	putU32(p, inodeSizeStart, uint32(inode.Size))

	for i := Byte(0); i < Byte(DirectBlocksCount); i++ {
		EncodeBlock(
			inode.DirectBlocks[i],
			(*[BlockPointerSize]byte)(p[inodeDirectBlocksStart+i*BlockPointerSize:]),
		)
	}

	EncodeBlock(
		inode.IndirectBlock,
		(*[BlockPointerSize]byte)(p[inodeIndirectStart:inodeIndirectEnd]),
	)
}

// DecodeInode populates `inode` with data from `b`. The file type is NOT
// validated: an out-of-range type is something callers report on rather
// than a decoding failure. Note that `inode.Ino` is not populated because
// the ino isn't discernible from an encoded inode.
func DecodeInode(inode *Inode, b *[InodeSize]byte) {
	p := b[:]

	inode.FileType = FileType(getI16(p, inodeFileTypeStart))
	inode.Major = getI16(p, inodeMajorStart)
	inode.Minor = getI16(p, inodeMinorStart)
	inode.LinksCount = getI16(p, inodeLinksCountStart)
	inode.Size = Byte(getU32(p, inodeSizeStart))

	for i := Byte(0); i < Byte(DirectBlocksCount); i++ {
		inode.DirectBlocks[i] = DecodeBlock(
			(*[BlockPointerSize]byte)(p[inodeDirectBlocksStart+i*BlockPointerSize:]),
		)
	}

	inode.IndirectBlock = DecodeBlock(
		(*[BlockPointerSize]byte)(p[inodeIndirectStart:inodeIndirectEnd]),
	)
}

const (
	inodeFileTypeStart Byte = 0
	inodeFileTypeSize       = 2
	inodeFileTypeEnd        = inodeFileTypeStart + inodeFileTypeSize

	inodeMajorStart = inodeFileTypeEnd
	inodeMajorSize  = 2
	inodeMajorEnd   = inodeMajorStart + inodeMajorSize

	inodeMinorStart = inodeMajorEnd
	inodeMinorSize  = 2
	inodeMinorEnd   = inodeMinorStart + inodeMinorSize

	inodeLinksCountStart = inodeMinorEnd
	inodeLinksCountSize  = 2
	inodeLinksCountEnd   = inodeLinksCountStart + inodeLinksCountSize

	inodeSizeStart = inodeLinksCountEnd
	inodeSizeSize  = 4
	inodeSizeEnd   = inodeSizeStart + inodeSizeSize

	inodeDirectBlocksStart = inodeSizeEnd
	inodeDirectBlocksSize  = Byte(DirectBlocksCount) * BlockPointerSize
	inodeDirectBlocksEnd   = inodeDirectBlocksStart + inodeDirectBlocksSize

	inodeIndirectStart = inodeDirectBlocksEnd
	inodeIndirectSize  = BlockPointerSize
	inodeIndirectEnd   = inodeIndirectStart + inodeIndirectSize
)
