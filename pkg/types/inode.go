package types

import (
	"fmt"
)

type Ino uint32

const (
	DirectBlocksCount Index = 12
	InodeSize         Byte  = 64

	InoNil  Ino = 0
	InoRoot Ino = 1
)

type Inode struct {
	Ino           Ino                      `json:"ino"`
	FileType      FileType                 `json:"fileType"`
	Major         int16                    `json:"major"`
	Minor         int16                    `json:"minor"`
	LinksCount    int16                    `json:"linksCount"`
	Size          Byte                     `json:"size"`
	DirectBlocks  [DirectBlocksCount]Block `json:"directBlocks"`
	IndirectBlock Block                    `json:"indirectBlock"`
}

func (inode *Inode) Allocated() bool { return inode.FileType != FileTypeFree }

type FileType int16

const (
	FileTypeFree FileType = iota
	FileTypeDir
	FileTypeRegular
	FileTypeDev
)

func (ft FileType) String() string {
	switch ft {
	case FileTypeFree:
		return "Free"
	case FileTypeDir:
		return "Dir"
	case FileTypeRegular:
		return "Regular"
	case FileTypeDev:
		return "Dev"
	default:
		return fmt.Sprintf("Invalid(%d)", int16(ft))
	}
}

func (ft FileType) MarshalJSON() ([]byte, error) {
	s := ft.String()
	out := make([]byte, len(s)+2)
	out[0] = '"'
	out[len(out)-1] = '"'
	copy(out[1:], s)
	return out, nil
}

func (ft FileType) Validate() error {
	if ft < FileTypeFree || ft > FileTypeDev {
		return fmt.Errorf(
			"validating file type `%d`: %w",
			ft,
			InvalidFileTypeErr,
		)
	}
	return nil
}
