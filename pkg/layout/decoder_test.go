package layout

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/weberc2/xcheck/pkg/encode"
	"github.com/weberc2/xcheck/pkg/io"
	"github.com/weberc2/xcheck/pkg/mkfs"
	. "github.com/weberc2/xcheck/pkg/types"
)

func newBuilder(t *testing.T) *mkfs.Builder {
	t.Helper()
	builder, err := mkfs.New(mkfs.DefaultParams)
	if err != nil {
		t.Fatalf("mkfs.New(): unexpected err: %v", err)
	}
	return builder
}

func TestLoadSuperblock(t *testing.T) {
	builder := newBuilder(t)
	decoder, err := LoadSuperblock(builder.Volume())
	if err != nil {
		t.Fatalf("LoadSuperblock(): unexpected err: %v", err)
	}

	wanted := Superblock{
		Size:        1000,
		DataBlocks:  941,
		InodeCount:  200,
		LogBlocks:   30,
		LogStart:    2,
		InodeStart:  32,
		BitmapStart: 58,
	}
	if diff := cmp.Diff(wanted, *decoder.Superblock()); diff != "" {
		t.Fatalf("LoadSuperblock(): mismatch (-wanted +found):\n%s", diff)
	}
	if found := decoder.Superblock().FirstDataBlock(); found != 59 {
		t.Fatalf("FirstDataBlock(): wanted `59`; found `%d`", found)
	}
}

func TestLoadSuperblockInvalid(t *testing.T) {
	type testCase struct {
		name       string
		superblock Superblock
	}

	valid := Superblock{
		Size:        1000,
		InodeCount:  200,
		LogBlocks:   30,
		LogStart:    2,
		InodeStart:  32,
		BitmapStart: 58,
	}

	testCases := []testCase{
		func() testCase {
			sb := valid
			sb.Size = 0
			return testCase{name: "empty", superblock: sb}
		}(),
		func() testCase {
			sb := valid
			sb.InodeCount = 1
			return testCase{name: "no-root-inode", superblock: sb}
		}(),
		func() testCase {
			sb := valid
			sb.InodeStart = 1
			return testCase{name: "inodes-overlap-superblock", superblock: sb}
		}(),
		func() testCase {
			sb := valid
			sb.BitmapStart = 40
			return testCase{name: "inodes-overlap-bitmap", superblock: sb}
		}(),
		func() testCase {
			sb := valid
			sb.BitmapStart = 1000
			return testCase{name: "bitmap-past-end", superblock: sb}
		}(),
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			buf := io.NewBuffer(make([]byte, 4*BlockSize))
			raw := new([SuperblockSize]byte)
			encode.EncodeSuperblock(&testCase.superblock, raw)
			if err := buf.WriteAt(BlockSuperblock.Offset(), raw[:]); err != nil {
				t.Fatalf("WriteAt(): unexpected err: %v", err)
			}

			_, err := LoadSuperblock(buf)
			if !errors.Is(err, BadSuperblockErr) {
				t.Fatalf(
					"LoadSuperblock(): wanted `%v`; found `%v`",
					BadSuperblockErr,
					err,
				)
			}
		})
	}
}

func TestLoadSuperblockShortImage(t *testing.T) {
	_, err := LoadSuperblock(io.NewBuffer(make([]byte, BlockSize)))
	if !errors.Is(err, ShortReadErr) {
		t.Fatalf("LoadSuperblock(): wanted `%v`; found `%v`", ShortReadErr, err)
	}
}

func TestRecords(t *testing.T) {
	builder := newBuilder(t)
	data := make([]byte, (int(DirectBlocksCount)+2)*int(BlockSize))
	ino, err := builder.WriteFile(InoRoot, "big", data)
	if err != nil {
		t.Fatalf("WriteFile(): unexpected err: %v", err)
	}
	if err := builder.Finish(); err != nil {
		t.Fatalf("Finish(): unexpected err: %v", err)
	}

	decoder, err := LoadSuperblock(builder.Volume())
	if err != nil {
		t.Fatalf("LoadSuperblock(): unexpected err: %v", err)
	}

	root, err := decoder.Inode(InoRoot)
	if err != nil {
		t.Fatalf("Inode(%d): unexpected err: %v", InoRoot, err)
	}
	if root.Ino != InoRoot || root.FileType != FileTypeDir {
		t.Fatalf(
			"Inode(%d): wanted `Dir` inode `%d`; found `%s` inode `%d`",
			InoRoot,
			InoRoot,
			root.FileType,
			root.Ino,
		)
	}

	for slot, wanted := range []string{NameDot, NameDotDot, "big"} {
		entry, err := decoder.DirEntry(root.DirectBlocks[0], Index(slot))
		if err != nil {
			t.Fatalf("DirEntry(%d): unexpected err: %v", slot, err)
		}
		if found := entry.NameString(); found != wanted {
			t.Fatalf("DirEntry(%d): wanted `%s`; found `%s`", slot, wanted, found)
		}
	}

	file, err := decoder.Inode(ino)
	if err != nil {
		t.Fatalf("Inode(%d): unexpected err: %v", ino, err)
	}
	if file.IndirectBlock == BlockNil {
		t.Fatal("Inode(): wanted an indirect block; found none")
	}
	word, err := decoder.IndirectWord(file.IndirectBlock, 1)
	if err != nil {
		t.Fatalf("IndirectWord(): unexpected err: %v", err)
	}
	var words [IndirectBlocksCount]Block
	if err := decoder.IndirectBlock(file.IndirectBlock, &words); err != nil {
		t.Fatalf("IndirectBlock(): unexpected err: %v", err)
	}
	if word == BlockNil || words[1] != word || words[2] != BlockNil {
		t.Fatalf(
			"IndirectBlock(): wanted words `[_, %d, 0]`; found `%v`",
			word,
			words[:3],
		)
	}

	for _, testCase := range []struct {
		block  Block
		wanted bool
	}{
		{block: 0, wanted: true},
		{block: root.DirectBlocks[0], wanted: true},
		{block: word, wanted: true},
		{block: word + 1, wanted: false},
		{block: 999, wanted: false},
	} {
		found, err := decoder.BitmapBit(testCase.block)
		if err != nil {
			t.Fatalf("BitmapBit(%d): unexpected err: %v", testCase.block, err)
		}
		if found != testCase.wanted {
			t.Fatalf(
				"BitmapBit(%d): wanted `%t`; found `%t`",
				testCase.block,
				testCase.wanted,
				found,
			)
		}
	}
}
