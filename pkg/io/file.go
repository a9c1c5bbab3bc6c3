package io

import (
	"errors"
	"fmt"
	"io"
	"os"

	. "github.com/weberc2/xcheck/pkg/types"
)

// FileVolume reads an image file with positioned reads. It never writes.
type FileVolume struct {
	file *os.File
}

func NewFileVolume(file *os.File) FileVolume {
	return FileVolume{file}
}

func (volume FileVolume) ReadAt(offset Byte, b []byte) error {
	if offset < 0 {
		return fmt.Errorf(
			"reading file `%s` at offset `%d`: %w",
			volume.file.Name(),
			offset,
			ShortReadErr,
		)
	}
	n, err := volume.file.ReadAt(b, int64(offset))
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = fmt.Errorf("read `%d` of `%d` bytes: %w", n, len(b), ShortReadErr)
		}
		return fmt.Errorf(
			"reading file `%s` at offset `%d`: %w",
			volume.file.Name(),
			offset,
			err,
		)
	}
	return nil
}

func (volume FileVolume) Close() error { return volume.file.Close() }
