package check

import (
	"fmt"

	"github.com/gosimple/slug"
	. "github.com/weberc2/xcheck/pkg/types"
)

// Kind identifies one structural invariant. Each kind has a fixed message
// which is the diagnostic printed for it.
type Kind uint8

const (
	KindBadInode Kind = iota + 1
	KindBadAddress
	KindRootMissing
	KindBadDirFormat
	KindMarkedFree
	KindDirectReused
	KindIndirectReused
	KindBitmapUnused
	KindOrphan
	KindRefToFree
	KindBadLinkCount
	KindDirLinkedTwice
)

var messages = [...]string{
	KindBadInode:       "bad inode",
	KindBadAddress:     "bad indirect address in inode",
	KindRootMissing:    "root directory does not exist",
	KindBadDirFormat:   "directory not properly formatted",
	KindMarkedFree:     "address used by inode but marked free in bitmap",
	KindDirectReused:   "direct address used more than once",
	KindIndirectReused: "indirect address used more than once",
	KindBitmapUnused:   "bitmap marks block in use but it is not in use",
	KindOrphan:         "inode marked use but not found in a directory",
	KindRefToFree:      "inode referred to in directory but marked free",
	KindBadLinkCount:   "bad reference count for file",
	KindDirLinkedTwice: "directory appears more than once in file system",
}

// Kinds lists every kind in check-priority order.
var Kinds = []Kind{
	KindBadInode,
	KindBadAddress,
	KindRootMissing,
	KindBadDirFormat,
	KindMarkedFree,
	KindDirectReused,
	KindIndirectReused,
	KindBitmapUnused,
	KindOrphan,
	KindRefToFree,
	KindBadLinkCount,
	KindDirLinkedTwice,
}

func (kind Kind) String() string {
	if kind == 0 || int(kind) >= len(messages) {
		return fmt.Sprintf("Kind(%d)", uint8(kind))
	}
	return messages[kind]
}

// Code is a stable machine-readable identifier derived from the message,
// e.g. `bad-inode`.
func (kind Kind) Code() string { return slug.Make(kind.String()) }

// Violation is a failed invariant. `Ino` and `Block` locate it when they
// apply; the image-wide bitmap check has no inode.
type Violation struct {
	Kind  Kind
	Ino   Ino
	Block Block
}

// Error returns the fixed diagnostic message for the violation's kind.
func (v *Violation) Error() string { return v.Kind.String() }

// Detail describes where the violation was found.
func (v *Violation) Detail() string {
	switch {
	case v.Ino != InoNil && v.Block != BlockNil:
		return fmt.Sprintf("%s (inode %d, block %d)", v.Kind, v.Ino, v.Block)
	case v.Ino != InoNil:
		return fmt.Sprintf("%s (inode %d)", v.Kind, v.Ino)
	case v.Block != BlockNil:
		return fmt.Sprintf("%s (block %d)", v.Kind, v.Block)
	default:
		return v.Kind.String()
	}
}
