package mkfs

import (
	"fmt"

	"github.com/weberc2/xcheck/pkg/encode"
	"github.com/weberc2/xcheck/pkg/io"
	"github.com/weberc2/xcheck/pkg/math"
	"github.com/weberc2/xcheck/pkg/usage"
	. "github.com/weberc2/xcheck/pkg/types"
)

const (
	OutOfInodesErr  ConstError = "out of inodes"
	OutOfBlocksErr  ConstError = "out of blocks"
	FileTooLargeErr ConstError = "file too large"
	BadParamsErr    ConstError = "bad file system parameters"

	// MaxFileBlocks is the largest number of data blocks one inode can
	// address.
	MaxFileBlocks = Block(DirectBlocksCount) + Block(IndirectBlocksCount)
)

type Params struct {
	Size   Block
	Inodes Ino
	Log    Block
}

// DefaultParams matches the stock xv6 image geometry.
var DefaultParams = Params{Size: 1000, Inodes: 200, Log: 30}

// Builder lays out a fresh image in memory: boot block, superblock, log,
// inode table, bitmap and data blocks, in that order. Inodes and data
// blocks are handed out sequentially and never freed.
type Builder struct {
	volume    *io.Buffer
	sb        Superblock
	nextIno   Ino
	nextBlock Block
}

// New formats an empty image and creates the root directory.
func New(params Params) (*Builder, error) {
	if params.Size == 0 || params.Inodes <= InoRoot {
		return nil, fmt.Errorf(
			"formatting image with `%d` blocks and `%d` inodes: %w",
			params.Size,
			params.Inodes,
			BadParamsErr,
		)
	}

	inodeBlocks := Block(params.Inodes/InodesPerBlock) + 1
	meta := 2 + params.Log + inodeBlocks + BitmapBlocks(params.Size)
	if meta >= params.Size {
		return nil, fmt.Errorf(
			"formatting image with `%d` blocks: `%d` metadata blocks "+
				"leave no room for data: %w",
			params.Size,
			meta,
			BadParamsErr,
		)
	}

	b := Builder{
		volume: io.NewBuffer(make([]byte, params.Size.Offset())),
		sb: Superblock{
			Size:        params.Size,
			DataBlocks:  params.Size - meta,
			InodeCount:  params.Inodes,
			LogBlocks:   params.Log,
			LogStart:    2,
			InodeStart:  2 + params.Log,
			BitmapStart: 2 + params.Log + inodeBlocks,
		},
		nextIno:   InoRoot,
		nextBlock: meta,
	}

	buf := new([SuperblockSize]byte)
	encode.EncodeSuperblock(&b.sb, buf)
	if err := b.volume.WriteAt(BlockSuperblock.Offset(), buf[:]); err != nil {
		return nil, fmt.Errorf("writing superblock: %w", err)
	}

	root, err := b.AllocInode(FileTypeDir)
	if err != nil {
		return nil, fmt.Errorf("creating root directory: %w", err)
	}
	if root != InoRoot {
		panic(fmt.Sprintf("root directory allocated at inode `%d`", root))
	}
	if err := b.AddEntry(root, NameDot, root); err != nil {
		return nil, fmt.Errorf("creating root directory: %w", err)
	}
	if err := b.AddEntry(root, NameDotDot, root); err != nil {
		return nil, fmt.Errorf("creating root directory: %w", err)
	}
	return &b, nil
}

func (b *Builder) Superblock() *Superblock { return &b.sb }

func (b *Builder) Volume() *io.Buffer { return b.volume }

func (b *Builder) Bytes() []byte { return b.volume.Bytes() }

// AllocInode claims the next free inode with a link count of one.
func (b *Builder) AllocInode(fileType FileType) (Ino, error) {
	if b.nextIno >= b.sb.InodeCount {
		return InoNil, fmt.Errorf(
			"allocating `%s` inode: %w",
			fileType,
			OutOfInodesErr,
		)
	}
	ino := b.nextIno
	b.nextIno++
	if err := b.SetInode(&Inode{
		Ino:        ino,
		FileType:   fileType,
		LinksCount: 1,
	}); err != nil {
		return InoNil, fmt.Errorf("allocating `%s` inode: %w", fileType, err)
	}
	return ino, nil
}

// AllocBlock claims the next free data block. The block is zeroed.
func (b *Builder) AllocBlock() (Block, error) {
	if b.nextBlock >= b.sb.Size {
		return BlockNil, fmt.Errorf("allocating block: %w", OutOfBlocksErr)
	}
	block := b.nextBlock
	b.nextBlock++
	return block, nil
}

func (b *Builder) Inode(ino Ino) (*Inode, error) {
	buf := new([InodeSize]byte)
	if err := b.volume.ReadAt(b.sb.InodeOffset(ino), buf[:]); err != nil {
		return nil, fmt.Errorf("reading inode `%d`: %w", ino, err)
	}
	var inode Inode
	encode.DecodeInode(&inode, buf)
	inode.Ino = ino
	return &inode, nil
}

// SetInode writes `inode` to its slot in the inode table as-is.
func (b *Builder) SetInode(inode *Inode) error {
	buf := new([InodeSize]byte)
	encode.EncodeInode(inode, buf)
	if err := b.volume.WriteAt(
		b.sb.InodeOffset(inode.Ino),
		buf[:],
	); err != nil {
		return fmt.Errorf("writing inode `%d`: %w", inode.Ino, err)
	}
	return nil
}

// UpdateInode reads inode `ino`, applies `update` and writes it back.
func (b *Builder) UpdateInode(ino Ino, update func(*Inode)) error {
	inode, err := b.Inode(ino)
	if err != nil {
		return err
	}
	update(inode)
	return b.SetInode(inode)
}

func (b *Builder) ReadBlock(block Block, p *[BlockSize]byte) error {
	return b.volume.ReadAt(block.Offset(), p[:])
}

func (b *Builder) WriteBlock(block Block, p *[BlockSize]byte) error {
	return b.volume.WriteAt(block.Offset(), p[:])
}

// Append writes `data` past the current end of inode `ino`, allocating
// direct and indirect blocks as needed.
func (b *Builder) Append(ino Ino, data []byte) error {
	inode, err := b.Inode(ino)
	if err != nil {
		return fmt.Errorf("appending to inode `%d`: %w", ino, err)
	}

	var block [BlockSize]byte
	for len(data) > 0 {
		fbn := Block(inode.Size / BlockSize)
		addr, err := b.blockFor(inode, fbn)
		if err != nil {
			return fmt.Errorf("appending to inode `%d`: %w", ino, err)
		}

		start := inode.Size - Byte(fbn)*BlockSize
		n := math.Min(Byte(len(data)), BlockSize-start)
		if err := b.ReadBlock(addr, &block); err != nil {
			return fmt.Errorf("appending to inode `%d`: %w", ino, err)
		}
		copy(block[start:start+n], data[:n])
		if err := b.WriteBlock(addr, &block); err != nil {
			return fmt.Errorf("appending to inode `%d`: %w", ino, err)
		}
		inode.Size += n
		data = data[n:]
	}

	if err := b.SetInode(inode); err != nil {
		return fmt.Errorf("appending to inode `%d`: %w", ino, err)
	}
	return nil
}

// blockFor returns the address of file block `fbn` of `inode`, allocating
// it (and the indirect block) when it is absent.
func (b *Builder) blockFor(inode *Inode, fbn Block) (Block, error) {
	if fbn < Block(DirectBlocksCount) {
		if inode.DirectBlocks[fbn] == BlockNil {
			addr, err := b.AllocBlock()
			if err != nil {
				return BlockNil, err
			}
			inode.DirectBlocks[fbn] = addr
		}
		return inode.DirectBlocks[fbn], nil
	}

	if fbn >= MaxFileBlocks {
		return BlockNil, fmt.Errorf(
			"addressing file block `%d`: %w",
			fbn,
			FileTooLargeErr,
		)
	}

	if inode.IndirectBlock == BlockNil {
		addr, err := b.AllocBlock()
		if err != nil {
			return BlockNil, err
		}
		inode.IndirectBlock = addr
	}

	var raw [BlockSize]byte
	if err := b.ReadBlock(inode.IndirectBlock, &raw); err != nil {
		return BlockNil, err
	}
	var words [IndirectBlocksCount]Block
	encode.DecodeIndirectBlock(&raw, &words)
	slot := fbn - Block(DirectBlocksCount)
	if words[slot] == BlockNil {
		addr, err := b.AllocBlock()
		if err != nil {
			return BlockNil, err
		}
		words[slot] = addr
		encode.EncodeIndirectBlock(&words, &raw)
		if err := b.WriteBlock(inode.IndirectBlock, &raw); err != nil {
			return BlockNil, err
		}
	}
	return words[slot], nil
}

// AddEntry appends a directory entry to `dir` without touching the target's
// link count.
func (b *Builder) AddEntry(dir Ino, name string, target Ino) error {
	entry := DirEntry{Ino: target}
	entry.SetName(name)
	buf := new([DirEntrySize]byte)
	encode.EncodeDirEntry(&entry, buf)
	if err := b.Append(dir, buf[:]); err != nil {
		return fmt.Errorf(
			"adding entry `%s` -> `%d` to directory `%d`: %w",
			name,
			target,
			dir,
			err,
		)
	}
	return nil
}

// Link adds another entry for `target` to `dir` and bumps its link count.
func (b *Builder) Link(dir Ino, name string, target Ino) error {
	if err := b.AddEntry(dir, name, target); err != nil {
		return err
	}
	return b.UpdateInode(target, func(inode *Inode) { inode.LinksCount++ })
}

// WriteFile creates a regular file named `name` in `dir` holding `data`.
func (b *Builder) WriteFile(dir Ino, name string, data []byte) (Ino, error) {
	ino, err := b.AllocInode(FileTypeRegular)
	if err != nil {
		return InoNil, fmt.Errorf("writing file `%s`: %w", name, err)
	}
	if err := b.Append(ino, data); err != nil {
		return InoNil, fmt.Errorf("writing file `%s`: %w", name, err)
	}
	if err := b.AddEntry(dir, name, ino); err != nil {
		return InoNil, fmt.Errorf("writing file `%s`: %w", name, err)
	}
	return ino, nil
}

// MakeDir creates a directory named `name` in `parent` with its `.` and
// `..` entries.
func (b *Builder) MakeDir(parent Ino, name string) (Ino, error) {
	ino, err := b.AllocInode(FileTypeDir)
	if err != nil {
		return InoNil, fmt.Errorf("making directory `%s`: %w", name, err)
	}
	for _, entry := range []struct {
		name   string
		target Ino
	}{
		{NameDot, ino},
		{NameDotDot, parent},
	} {
		if err := b.AddEntry(ino, entry.name, entry.target); err != nil {
			return InoNil, fmt.Errorf("making directory `%s`: %w", name, err)
		}
	}
	if err := b.AddEntry(parent, name, ino); err != nil {
		return InoNil, fmt.Errorf("making directory `%s`: %w", name, err)
	}
	return ino, nil
}

// MakeDevice creates a device node named `name` in `dir`.
func (b *Builder) MakeDevice(
	dir Ino,
	name string,
	major int16,
	minor int16,
) (Ino, error) {
	ino, err := b.AllocInode(FileTypeDev)
	if err != nil {
		return InoNil, fmt.Errorf("making device `%s`: %w", name, err)
	}
	if err := b.UpdateInode(ino, func(inode *Inode) {
		inode.Major, inode.Minor = major, minor
	}); err != nil {
		return InoNil, fmt.Errorf("making device `%s`: %w", name, err)
	}
	if err := b.AddEntry(dir, name, ino); err != nil {
		return InoNil, fmt.Errorf("making device `%s`: %w", name, err)
	}
	return ino, nil
}

// Finish writes the allocation bitmap: every block below the next free
// data block is marked in use. It may be called again after more blocks
// are allocated.
func (b *Builder) Finish() error {
	table := usage.New(b.sb.Size)
	for block := Block(0); block < b.nextBlock; block++ {
		table.Mark(block)
	}
	if err := b.volume.WriteAt(
		b.sb.BitmapStart.Offset(),
		table.Bytes(),
	); err != nil {
		return fmt.Errorf("writing bitmap: %w", err)
	}
	return nil
}

// SetBitmapBit forces the bitmap bit for `block`.
func (b *Builder) SetBitmapBit(block Block, used bool) error {
	var buf [1]byte
	offset, bit := b.sb.BitmapByteOffset(block)
	if err := b.volume.ReadAt(offset, buf[:]); err != nil {
		return fmt.Errorf("setting bitmap bit for block `%d`: %w", block, err)
	}
	if used {
		buf[0] |= 1 << bit
	} else {
		buf[0] &^= 1 << bit
	}
	if err := b.volume.WriteAt(offset, buf[:]); err != nil {
		return fmt.Errorf("setting bitmap bit for block `%d`: %w", block, err)
	}
	return nil
}
