package encode

import (
	. "github.com/weberc2/xcheck/pkg/types"
)

func EncodeDirEntry(entry *DirEntry, b *[DirEntrySize]byte) {
	p := b[:]
	putU16(p, dirEntryInoStart, uint16(entry.Ino))
	copy(p[dirEntryNameStart:dirEntryNameEnd], entry.Name[:])
}

// DecodeDirEntry decodes a fixed-size directory slot. A zeroed-out slot is
// perfectly valid on disk (it's simply unused); callers check `entry.Ino`.
func DecodeDirEntry(entry *DirEntry, b *[DirEntrySize]byte) {
	p := b[:]
	entry.Ino = Ino(getU16(p, dirEntryInoStart))
	copy(entry.Name[:], p[dirEntryNameStart:dirEntryNameEnd])
}

const (
	dirEntryInoStart Byte = 0
	dirEntryInoSize       = 2
	dirEntryInoEnd        = dirEntryInoStart + dirEntryInoSize

	dirEntryNameStart = dirEntryInoEnd
	dirEntryNameSize  = DirNameSize
	dirEntryNameEnd   = dirEntryNameStart + dirEntryNameSize
)
