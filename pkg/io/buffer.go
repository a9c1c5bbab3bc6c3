package io

import (
	"fmt"

	. "github.com/weberc2/xcheck/pkg/types"
)

// Buffer is an in-memory volume. Reads and writes must fall entirely inside
// the buffer.
type Buffer struct {
	data []byte
}

func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

func (b *Buffer) ReadAt(offset Byte, p []byte) error {
	if err := b.checkRange(offset, p); err != nil {
		return fmt.Errorf(
			"reading `%d` bytes from buffer at offset `%d`: %w",
			len(p),
			offset,
			err,
		)
	}
	copy(p, b.data[offset:])
	return nil
}

func (b *Buffer) WriteAt(offset Byte, p []byte) error {
	if err := b.checkRange(offset, p); err != nil {
		return fmt.Errorf(
			"writing `%d` bytes to buffer at offset `%d`: %w",
			len(p),
			offset,
			err,
		)
	}
	copy(b.data[offset:], p)
	return nil
}

func (b *Buffer) Len() Byte { return Byte(len(b.data)) }

func (b *Buffer) Bytes() []byte { return b.data }

func (b *Buffer) checkRange(offset Byte, p []byte) error {
	if offset < 0 || offset+Byte(len(p)) > Byte(len(b.data)) {
		return ShortReadErr
	}
	return nil
}
