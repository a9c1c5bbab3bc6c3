package encode

import (
	. "github.com/weberc2/xcheck/pkg/types"
)

func EncodeBlock(b Block, p *[BlockPointerSize]byte) {
	putU32(p[:], 0, uint32(b))
}

func DecodeBlock(p *[BlockPointerSize]byte) Block {
	return Block(getU32(p[:], 0))
}

// DecodeIndirectBlock decodes every pointer word of an indirect block in
// stored order.
func DecodeIndirectBlock(p *[BlockSize]byte, out *[IndirectBlocksCount]Block) {
	for i := range out {
		out[i] = Block(getU32(p[:], Byte(i)*BlockPointerSize))
	}
}

func EncodeIndirectBlock(blocks *[IndirectBlocksCount]Block, p *[BlockSize]byte) {
	for i, b := range blocks {
		putU32(p[:], Byte(i)*BlockPointerSize, uint32(b))
	}
}
