//go:build !unix

package io

import (
	"fmt"
	"os"

	. "github.com/weberc2/xcheck/pkg/types"
)

const MmapUnsupportedErr ConstError = "mmap is not supported on this platform"

type MmapVolume struct{}

func NewMmapVolume(file *os.File) (*MmapVolume, error) {
	return nil, fmt.Errorf("mapping file `%s`: %w", file.Name(), MmapUnsupportedErr)
}

func (*MmapVolume) ReadAt(Byte, []byte) error { return MmapUnsupportedErr }

func (*MmapVolume) Close() error { return nil }
