//go:build unix

package io

import (
	"fmt"
	"os"

	. "github.com/weberc2/xcheck/pkg/types"
	"golang.org/x/sys/unix"
)

// MmapVolume maps the whole image read-only and serves reads from the
// mapping; the host kernel caches the pages.
type MmapVolume struct {
	buf  Buffer
	name string
}

func NewMmapVolume(file *os.File) (*MmapVolume, error) {
	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("mapping file `%s`: %w", file.Name(), err)
	}
	if stat.Size() == 0 {
		return &MmapVolume{name: file.Name()}, nil
	}
	data, err := unix.Mmap(
		int(file.Fd()),
		0,
		int(stat.Size()),
		unix.PROT_READ,
		unix.MAP_SHARED,
	)
	if err != nil {
		return nil, fmt.Errorf("mapping file `%s`: %w", file.Name(), err)
	}
	return &MmapVolume{buf: Buffer{data: data}, name: file.Name()}, nil
}

func (volume *MmapVolume) ReadAt(offset Byte, b []byte) error {
	if err := volume.buf.ReadAt(offset, b); err != nil {
		return fmt.Errorf("reading mapped file `%s`: %w", volume.name, err)
	}
	return nil
}

func (volume *MmapVolume) Close() error {
	if volume.buf.data == nil {
		return nil
	}
	if err := unix.Munmap(volume.buf.data); err != nil {
		return fmt.Errorf("unmapping file `%s`: %w", volume.name, err)
	}
	volume.buf.data = nil
	return nil
}
