package mkfs

import (
	"bytes"
	"errors"
	"testing"

	"github.com/weberc2/xcheck/pkg/encode"
	. "github.com/weberc2/xcheck/pkg/types"
)

func TestNewLayout(t *testing.T) {
	b, err := New(DefaultParams)
	if err != nil {
		t.Fatalf("New(): unexpected err: %v", err)
	}
	sb := b.Superblock()
	if sb.InodeStart != 32 || sb.BitmapStart != 58 || sb.FirstDataBlock() != 59 {
		t.Fatalf(
			"New(): wanted inodes at `32`, bitmap at `58`, data at `59`; "+
				"found `%d`, `%d`, `%d`",
			sb.InodeStart,
			sb.BitmapStart,
			sb.FirstDataBlock(),
		)
	}
	if found := Byte(len(b.Bytes())); found != 1000*BlockSize {
		t.Fatalf("Bytes(): wanted `%d` bytes; found `%d`", 1000*BlockSize, found)
	}

	root, err := b.Inode(InoRoot)
	if err != nil {
		t.Fatalf("Inode(): unexpected err: %v", err)
	}
	if root.FileType != FileTypeDir || root.Size != 2*DirEntrySize {
		t.Fatalf(
			"Inode(root): wanted `Dir` of size `%d`; found `%s` of size `%d`",
			2*DirEntrySize,
			root.FileType,
			root.Size,
		)
	}
	if root.DirectBlocks[0] != 59 {
		t.Fatalf("Inode(root): wanted first block `59`; found `%d`", root.DirectBlocks[0])
	}
}

func TestNewInvalidParams(t *testing.T) {
	for _, params := range []Params{
		{Size: 0, Inodes: 200, Log: 30},
		{Size: 1000, Inodes: 1, Log: 30},
		{Size: 40, Inodes: 200, Log: 30},
	} {
		if _, err := New(params); !errors.Is(err, BadParamsErr) {
			t.Fatalf("New(%+v): wanted `%v`; found `%v`", params, BadParamsErr, err)
		}
	}
}

func TestAppendReadBack(t *testing.T) {
	b, err := New(DefaultParams)
	if err != nil {
		t.Fatalf("New(): unexpected err: %v", err)
	}

	data := make([]byte, 14*BlockSize+100)
	for i := range data {
		data[i] = byte(i % 251)
	}
	ino, err := b.WriteFile(InoRoot, "data", data[:700])
	if err != nil {
		t.Fatalf("WriteFile(): unexpected err: %v", err)
	}
	if err := b.Append(ino, data[700:]); err != nil {
		t.Fatalf("Append(): unexpected err: %v", err)
	}

	inode, err := b.Inode(ino)
	if err != nil {
		t.Fatalf("Inode(): unexpected err: %v", err)
	}
	if inode.Size != Byte(len(data)) {
		t.Fatalf("Inode(): wanted size `%d`; found `%d`", len(data), inode.Size)
	}

	var found []byte
	var block [BlockSize]byte
	for _, addr := range inode.DirectBlocks {
		if err := b.ReadBlock(addr, &block); err != nil {
			t.Fatalf("ReadBlock(): unexpected err: %v", err)
		}
		found = append(found, block[:]...)
	}
	var raw [BlockSize]byte
	if err := b.ReadBlock(inode.IndirectBlock, &raw); err != nil {
		t.Fatalf("ReadBlock(): unexpected err: %v", err)
	}
	var words [IndirectBlocksCount]Block
	encode.DecodeIndirectBlock(&raw, &words)
	for _, addr := range words[:3] {
		if err := b.ReadBlock(addr, &block); err != nil {
			t.Fatalf("ReadBlock(): unexpected err: %v", err)
		}
		found = append(found, block[:]...)
	}
	if !bytes.Equal(found[:len(data)], data) {
		t.Fatal("ReadBlock(): file contents do not match what was written")
	}
}

func TestFileTooLarge(t *testing.T) {
	b, err := New(Params{Size: 2000, Inodes: 200, Log: 30})
	if err != nil {
		t.Fatalf("New(): unexpected err: %v", err)
	}
	data := make([]byte, (MaxFileBlocks+1)*Block(BlockSize))
	if _, err := b.WriteFile(InoRoot, "huge", data); !errors.Is(err, FileTooLargeErr) {
		t.Fatalf("WriteFile(): wanted `%v`; found `%v`", FileTooLargeErr, err)
	}
}

func TestOutOfInodes(t *testing.T) {
	b, err := New(Params{Size: 1000, Inodes: 3, Log: 30})
	if err != nil {
		t.Fatalf("New(): unexpected err: %v", err)
	}
	if _, err := b.WriteFile(InoRoot, "a", nil); err != nil {
		t.Fatalf("WriteFile(a): unexpected err: %v", err)
	}
	if _, err := b.WriteFile(InoRoot, "b", nil); !errors.Is(err, OutOfInodesErr) {
		t.Fatalf("WriteFile(b): wanted `%v`; found `%v`", OutOfInodesErr, err)
	}
}

func TestFinishBitmap(t *testing.T) {
	b, err := New(DefaultParams)
	if err != nil {
		t.Fatalf("New(): unexpected err: %v", err)
	}
	if err := b.Finish(); err != nil {
		t.Fatalf("Finish(): unexpected err: %v", err)
	}

	bitmap := b.Bytes()[b.Superblock().BitmapStart.Offset():]
	// blocks 0..59 are in use: seven full bytes, then bits 56..59
	for i := 0; i < 7; i++ {
		if bitmap[i] != 0xff {
			t.Fatalf("bitmap[%d]: wanted `0xff`; found `%#x`", i, bitmap[i])
		}
	}
	if bitmap[7] != 0x0f {
		t.Fatalf("bitmap[7]: wanted `0x0f`; found `%#x`", bitmap[7])
	}
	if bitmap[8] != 0 {
		t.Fatalf("bitmap[8]: wanted `0`; found `%#x`", bitmap[8])
	}

	if err := b.SetBitmapBit(57, false); err != nil {
		t.Fatalf("SetBitmapBit(): unexpected err: %v", err)
	}
	if bitmap[7] != 0x0d {
		t.Fatalf("SetBitmapBit(57): wanted `0x0d`; found `%#x`", bitmap[7])
	}
}
