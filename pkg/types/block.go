package types

type Block uint32

type Byte int64

type Index uint32

const (
	BlockSize        Byte = 512
	BlockPointerSize Byte = 4

	// IndirectBlocksCount is the number of block pointers that fit in a
	// single indirect block.
	IndirectBlocksCount Index = Index(BlockSize / BlockPointerSize)

	BlockNil        Block = 0
	BlockBoot       Block = 0
	BlockSuperblock Block = 1

	BitsPerByte = 8
)

func (b Block) Offset() Byte { return Byte(b) * BlockSize }
