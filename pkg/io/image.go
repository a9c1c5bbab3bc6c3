package io

import (
	"fmt"
	"io"

	. "github.com/weberc2/xcheck/pkg/types"
)

// Image is the read-only accessor over an opened file-system image. Every
// call is an independent positioned read; nothing is cached.
type Image struct {
	volume ReadAt
	closer io.Closer
	name   string
}

// NewImage wraps `volume`. If `volume` implements `io.Closer`, `Close`
// releases it.
func NewImage(name string, volume ReadAt) *Image {
	image := &Image{volume: volume, name: name}
	if closer, ok := volume.(io.Closer); ok {
		image.closer = closer
	}
	return image
}

func (image *Image) Name() string { return image.name }

func (image *Image) ReadAt(offset Byte, p []byte) error {
	if err := image.volume.ReadAt(offset, p); err != nil {
		return fmt.Errorf("reading image `%s`: %w", image.name, err)
	}
	return nil
}

func (image *Image) ReadBlock(b Block, p *[BlockSize]byte) error {
	if err := image.ReadAt(b.Offset(), p[:]); err != nil {
		return fmt.Errorf("reading block `%d`: %w", b, err)
	}
	return nil
}

func (image *Image) Close() error {
	if image.closer == nil {
		return nil
	}
	if err := image.closer.Close(); err != nil {
		return fmt.Errorf("closing image `%s`: %w", image.name, err)
	}
	return nil
}
